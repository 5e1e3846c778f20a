// polygon/geojson.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package polygon

import (
	"fmt"

	"github.com/mmp/polybuf/util"

	geojson "github.com/paulmach/go.geojson"
)

// Feature is a polygon read from a GeoJSON feature along with the
// feature's properties.
type Feature struct {
	Polygon    Polygon
	Properties map[string]any
	// Index of the GeoJSON feature the polygon came from; a MultiPolygon
	// feature gives one Feature per polygon, all with the same index.
	FeatureIndex int
}

// DecodeGeoJSON returns the polygons in a GeoJSON FeatureCollection.
// Polygon and MultiPolygon features are returned in document order;
// features with other geometry types are skipped and counted in
// skipped. All malformed coordinates are reported in the returned error.
func DecodeGeoJSON(data []byte) (features []Feature, skipped int, err error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, 0, err
	}

	var e util.ErrorLogger
	var errs []error
	report := func(err error) {
		e.Error(err)
		errs = append(errs, err)
	}

	for i, f := range fc.Features {
		e.Push(fmt.Sprintf("feature %d", i))

		g := f.Geometry
		switch {
		case g == nil:
			skipped++

		case g.Type == geojson.GeometryPolygon:
			if p, err := PolygonFromCoords(g.Polygon); err != nil {
				report(err)
			} else {
				features = append(features, Feature{Polygon: p, Properties: f.Properties, FeatureIndex: i})
			}

		case g.Type == geojson.GeometryMultiPolygon:
			for j, rings := range g.MultiPolygon {
				e.Push(fmt.Sprintf("polygon %d", j))
				if p, err := PolygonFromCoords(rings); err != nil {
					report(err)
				} else {
					features = append(features, Feature{Polygon: p, Properties: f.Properties, FeatureIndex: i})
				}
				e.Pop()
			}

		default:
			skipped++
		}

		e.Pop()
	}

	if e.HaveErrors() {
		return nil, skipped, &NormalizeError{Messages: e.Errors(), errs: errs}
	}
	return features, skipped, nil
}

// Polygons returns just the polygons of the given features.
func Polygons(features []Feature) []Polygon {
	return util.MapSlice(features, func(f Feature) Polygon { return f.Polygon })
}

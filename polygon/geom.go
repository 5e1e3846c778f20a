// polygon/geom.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package polygon

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// FromGeom converts a go-geom Polygon or MultiPolygon to Polygons.
// Z values are used if the geometry's layout has them.
func FromGeom(g geom.T) ([]Polygon, error) {
	switch g := g.(type) {
	case *geom.Polygon:
		p, err := fromGeomPolygon(g)
		if err != nil {
			return nil, err
		}
		return []Polygon{p}, nil

	case *geom.MultiPolygon:
		var polys []Polygon
		for i := 0; i < g.NumPolygons(); i++ {
			p, err := fromGeomPolygon(g.Polygon(i))
			if err != nil {
				return nil, fmt.Errorf("polygon %d: %w", i, err)
			}
			polys = append(polys, p)
		}
		return polys, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}
}

func fromGeomPolygon(p *geom.Polygon) (Polygon, error) {
	n := p.NumLinearRings()
	if n == 0 {
		return nil, fmt.Errorf("%w: no rings", ErrMalformedPolygon)
	}

	zi := p.Layout().ZIndex()
	rings := make([]Ring, n)
	for i := range n {
		coords := p.LinearRing(i).Coords()
		r := make(Ring, len(coords))
		for j, c := range coords {
			r[j] = Point{c[0], c[1], 0}
			if zi >= 0 {
				r[j][2] = c[zi]
			}
		}
		rings[i] = r
	}

	if n == 1 {
		return SimpleRing{Ring: rings[0]}, nil
	}
	return RingsWithHoles{Outer: rings[0], Holes: rings[1:]}, nil
}

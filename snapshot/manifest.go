// snapshot/manifest.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package snapshot

import (
	"github.com/mmp/polybuf/tessellator"

	"github.com/iancoleman/orderedmap"
)

// Manifest returns a JSON-encodable description of the snapshot's
// buffers. Keys are kept in a fixed order so that manifests can be
// diffed.
func (s *Snapshot) Manifest() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)

	m.Set("version", s.Version)
	m.Set("points", s.PointCount)
	m.Set("polygons", len(s.Offsets)-1)
	m.Set("triangles", len(s.Indices)/3)

	bounds := orderedmap.New()
	bounds.Set("min", s.BoundsMin)
	bounds.Set("max", s.BoundsMax)
	m.Set("bounds", bounds)

	buffers := orderedmap.New()
	add := func(a tessellator.Attribute, elementType string, n int) {
		b := orderedmap.New()
		b.Set("stride", a.Stride())
		b.Set("type", elementType)
		b.Set("length", n)
		buffers.Set(a.String(), b)
	}

	indices := orderedmap.New()
	indices.Set("stride", 1)
	indices.Set("type", s.IndexWidth.String())
	indices.Set("length", len(s.Indices))
	buffers.Set("indices", indices)

	add(tessellator.AttributePositions, "float64", len(s.Positions))
	if s.Options.FP64 {
		add(tessellator.AttributePositions64Low, "float32", len(s.Positions64Low))
	}
	if s.Options.Extruded {
		add(tessellator.AttributeNextPositions, "float64", len(s.NextPositions))
	}
	add(tessellator.AttributeColors, "uint8", len(s.Colors))
	add(tessellator.AttributeElevations, "float32", len(s.Elevations))
	add(tessellator.AttributePickingColors, "uint8", len(s.PickingColors))
	m.Set("buffers", buffers)

	return m
}

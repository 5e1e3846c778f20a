// polygon/polygon.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package polygon normalizes raw polygon input into ring sets and
// triangulates them; it reports the per-polygon vertex and triangle
// counts and the locally-scoped triangle indices that the buffer layout
// code in package tessellator re-offsets into a global index space.
package polygon

import (
	"github.com/mmp/polybuf/math"
)

// Point is a 2D or 3D vertex; 2D points have a zero Z.
type Point [3]float64

// Ring is an implicitly-closed sequence of points: the last point does not
// repeat the first.
type Ring []Point

// Polygon is raw polygon input. It is either a SimpleRing or a
// RingsWithHoles; it is normalized into a Complex once, when geometry is
// handed to the tessellator.
type Polygon interface {
	rings() []Ring
}

// SimpleRing is a polygon without holes.
type SimpleRing struct {
	Ring Ring
}

// RingsWithHoles is a polygon with an outer ring and zero or more holes.
type RingsWithHoles struct {
	Outer Ring
	Holes []Ring
}

func (s SimpleRing) rings() []Ring {
	return []Ring{s.Ring}
}

func (r RingsWithHoles) rings() []Ring {
	return append([]Ring{r.Outer}, r.Holes...)
}

// Complex is a normalized polygon: its outer ring followed by its holes,
// along with the triangulation of the filled area.
type Complex struct {
	// Rings holds the outer ring first and then the holes. Holes are not
	// part of the filled area but their vertices are part of the
	// polygon's vertex range.
	Rings []Ring

	nverts  int
	indices []int
}

// VertexCount returns the total number of vertices over all rings.
func (c *Complex) VertexCount() int {
	return c.nverts
}

// TriangleCount returns the number of triangles in the polygon's
// triangulation.
func (c *Complex) TriangleCount() int {
	return len(c.indices) / 3
}

// ForEachVertex calls visit for each vertex of the polygon, outer ring
// first and then the holes, in ring order. vertexIndex runs from 0 to
// VertexCount()-1 across all rings.
func (c *Complex) ForEachVertex(visit func(p Point, vertexIndex int)) {
	i := 0
	for _, r := range c.Rings {
		for _, p := range r {
			visit(p, i)
			i++
		}
	}
}

// SurfaceIndices returns the triangulation as triples of vertex indices
// in the polygon's local vertex numbering (the numbering used by
// ForEachVertex). The returned slice is shared and must not be modified.
func (c *Complex) SurfaceIndices() []int {
	return c.indices
}

// Bounds returns the bounding box of the polygon's vertices.
func (c *Complex) Bounds() math.Extent3D {
	e := math.EmptyExtent3D()
	c.ForEachVertex(func(p Point, _ int) { e = math.Union(e, p) })
	return e
}

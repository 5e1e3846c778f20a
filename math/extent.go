// math/extent.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// Extent3D

// Extent3D represents a 3D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent3D struct {
	P0, P1 [3]float64
}

// EmptyExtent3D returns an Extent3D representing an empty bounding box.
func EmptyExtent3D() Extent3D {
	// Degenerate bounds
	return Extent3D{P0: [3]float64{1e300, 1e300, 1e300}, P1: [3]float64{-1e300, -1e300, -1e300}}
}

// Extent3DFromPoints returns an Extent3D that bounds all of the provided
// points.
func Extent3DFromPoints(pts [][3]float64) Extent3D {
	e := EmptyExtent3D()
	for _, p := range pts {
		e = Union(e, p)
	}
	return e
}

func (e Extent3D) IsEmpty() bool {
	return e.P0[0] > e.P1[0] || e.P0[1] > e.P1[1] || e.P0[2] > e.P1[2]
}

func (e Extent3D) Width() float64 {
	return e.P1[0] - e.P0[0]
}

func (e Extent3D) Height() float64 {
	return e.P1[1] - e.P0[1]
}

func (e Extent3D) Depth() float64 {
	return e.P1[2] - e.P0[2]
}

func (e Extent3D) Center() [3]float64 {
	return [3]float64{(e.P0[0] + e.P1[0]) / 2, (e.P0[1] + e.P1[1]) / 2, (e.P0[2] + e.P1[2]) / 2}
}

func (e Extent3D) Inside(p [3]float64) bool {
	for d := range 3 {
		if p[d] < e.P0[d] || p[d] > e.P1[d] {
			return false
		}
	}
	return true
}

// Union returns the extent grown to include p.
func Union(e Extent3D, p [3]float64) Extent3D {
	for d := range 3 {
		e.P0[d] = min(e.P0[d], p[d])
		e.P1[d] = max(e.P1[d], p[d])
	}
	return e
}

// UnionExtents returns the smallest extent that bounds both a and b.
func UnionExtents(a, b Extent3D) Extent3D {
	if a.IsEmpty() {
		return b
	} else if b.IsEmpty() {
		return a
	}
	return Union(Union(a, b.P0), b.P1)
}

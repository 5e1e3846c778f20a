// polygon/normalize.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package polygon

import (
	"fmt"

	"github.com/mmp/polybuf/math"
	"github.com/mmp/polybuf/util"

	"github.com/brunoga/deep"
)

// Normalize converts raw polygon input into a Complex, triangulating it
// without going through a cache.
func Normalize(p Polygon) (Complex, error) {
	var t *Triangulator
	return t.Normalize(p)
}

// Normalize converts raw polygon input into a Complex. The input rings
// are copied, so later changes to them by the caller do not affect the
// result. A closing point that repeats a ring's first point is dropped,
// as are empty holes.
func (t *Triangulator) Normalize(p Polygon) (Complex, error) {
	if p == nil {
		return Complex{}, fmt.Errorf("%w: nil polygon", ErrMalformedPolygon)
	}

	rings := deep.MustCopy(p.rings())
	if len(rings) == 0 || len(rings[0]) == 0 {
		return Complex{}, fmt.Errorf("%w: empty outer ring", ErrMalformedPolygon)
	}

	c := Complex{Rings: make([]Ring, 0, len(rings))}
	for i, r := range rings {
		for j, pt := range r {
			if !math.IsFinite(pt[0]) || !math.IsFinite(pt[1]) || !math.IsFinite(pt[2]) {
				return Complex{}, fmt.Errorf("%w: ring %d, vertex %d: non-finite coordinate %v",
					ErrMalformedPolygon, i, j, pt)
			}
		}

		if n := len(r); n > 1 && r[0] == r[n-1] {
			r = r[:n-1]
		}
		if len(r) == 0 {
			continue
		}

		c.Rings = append(c.Rings, r)
		c.nverts += len(r)
	}

	var err error
	if c.indices, err = t.Triangulate(c.Rings); err != nil {
		return Complex{}, err
	}
	return c, nil
}

// NormalizeAll normalizes each of the given polygons, using t to
// triangulate them (t may be nil). All malformed polygons are reported
// in the returned error, which is then a *NormalizeError.
func NormalizeAll(t *Triangulator, polys []Polygon) ([]Complex, error) {
	var e util.ErrorLogger
	var errs []error

	cs := make([]Complex, len(polys))
	for i, p := range polys {
		e.Push(fmt.Sprintf("polygon %d", i))
		var err error
		if cs[i], err = t.Normalize(p); err != nil {
			e.Error(err)
			errs = append(errs, err)
		}
		e.Pop()
	}

	if e.HaveErrors() {
		return nil, &NormalizeError{Messages: e.Errors(), errs: errs}
	}
	return cs, nil
}

// PointFromCoords returns the Point given by a coordinate array holding
// x, y and optionally z; further values (e.g., GeoJSON measures) are
// ignored.
func PointFromCoords(c []float64) (Point, error) {
	switch {
	case len(c) < 2:
		return Point{}, fmt.Errorf("%w: %d coordinate values given for vertex", ErrMalformedPolygon, len(c))
	case len(c) == 2:
		return Point{c[0], c[1], 0}, nil
	default:
		return Point{c[0], c[1], c[2]}, nil
	}
}

// RingFromCoords returns the Ring given by an array of coordinate arrays.
func RingFromCoords(coords [][]float64) (Ring, error) {
	r := make(Ring, len(coords))
	for i, c := range coords {
		var err error
		if r[i], err = PointFromCoords(c); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	return r, nil
}

// PolygonFromCoords returns the Polygon given by GeoJSON-style ring
// coordinates: the outer ring first, then any holes.
func PolygonFromCoords(rings [][][]float64) (Polygon, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("%w: no rings", ErrMalformedPolygon)
	}

	rs := make([]Ring, len(rings))
	for i, coords := range rings {
		var err error
		if rs[i], err = RingFromCoords(coords); err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
	}

	if len(rs) == 1 {
		return SimpleRing{Ring: rs[0]}, nil
	}
	return RingsWithHoles{Outer: rs[0], Holes: rs[1:]}, nil
}

// math/math_test.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"testing"
)

func TestFp64Split(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 0.1, 1.0 / 3, -122.41941550000001, 37.7749295, 1e10 + 0.123456789, gomath.Pi} {
		hi, lo := SplitFloat64(v)
		if hi != float32(v) {
			t.Errorf("%g: got high part %g, expected %g", v, hi, float32(v))
		}
		if lo != Fp64LowPart(v) {
			t.Errorf("%g: SplitFloat64 low part %g doesn't match Fp64LowPart %g", v, lo, Fp64LowPart(v))
		}

		// hi+lo should be a much better approximation than hi alone.
		errHi := gomath.Abs(v - float64(hi))
		errSum := gomath.Abs(v - (float64(hi) + float64(lo)))
		if errSum > errHi {
			t.Errorf("%g: hi+lo error %g larger than hi error %g", v, errSum, errHi)
		}
		if errHi > 0 && errSum > errHi*1e-6 {
			t.Errorf("%g: hi+lo error %g not sufficiently smaller than %g", v, errSum, errHi)
		}
	}

	// Values exactly representable in float32 have no low part.
	for _, v := range []float64{0, 0.5, 1024, -3.25} {
		if lo := Fp64LowPart(v); lo != 0 {
			t.Errorf("%g: got low part %g, expected 0", v, lo)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) || IsFinite(gomath.NaN()) || IsFinite(gomath.Inf(1)) || IsFinite(gomath.Inf(-1)) {
		t.Errorf("IsFinite returned incorrect results")
	}
}

func TestExtent3D(t *testing.T) {
	e := EmptyExtent3D()
	if !e.IsEmpty() {
		t.Errorf("EmptyExtent3D is not empty")
	}

	e = Extent3DFromPoints([][3]float64{{0, 0, 0}, {2, -1, 3}, {1, 4, -2}})
	if e.P0 != [3]float64{0, -1, -2} || e.P1 != [3]float64{2, 4, 3} {
		t.Errorf("got extent %v, expected [0 -1 -2]-[2 4 3]", e)
	}
	if e.Width() != 2 || e.Height() != 5 || e.Depth() != 5 {
		t.Errorf("got dimensions %g %g %g, expected 2 5 5", e.Width(), e.Height(), e.Depth())
	}
	if c := e.Center(); c != [3]float64{1, 1.5, 0.5} {
		t.Errorf("got center %v, expected [1 1.5 0.5]", c)
	}
	if !e.Inside([3]float64{1, 1, 1}) || e.Inside([3]float64{3, 1, 1}) {
		t.Errorf("Inside returned incorrect results")
	}

	u := UnionExtents(EmptyExtent3D(), e)
	if u != e {
		t.Errorf("union with empty extent: got %v, expected %v", u, e)
	}
	u = UnionExtents(e, Extent3D{P0: [3]float64{5, 5, 5}, P1: [3]float64{6, 6, 6}})
	if u.P1 != [3]float64{6, 6, 6} || u.P0 != e.P0 {
		t.Errorf("got union %v", u)
	}
}

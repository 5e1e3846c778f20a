// tessellator/attributes.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tessellator

import (
	gomath "math"
)

// fillPerPolygon calls get once for each polygon and copies the returned
// values into all of the polygon's vertex slots. offsets is as returned
// by Offsets and stride must match the length of the returned slice.
func fillPerPolygon[T Numeric](dst []T, stride int, offsets []int, get func(polygonIndex int, v []T)) {
	v := make([]T, stride)
	for i := range len(offsets) - 1 {
		get(i, v)
		for slot := offsets[i]; slot < offsets[i+1]; slot++ {
			copy(dst[stride*slot:stride*slot+stride], v)
		}
	}
}

// ColorBytes returns the 8-bit RGBA representation of c: components are
// rounded half to even and clamped to [0,255], a NaN color component
// becomes 0 and a NaN alpha becomes 255.
func ColorBytes(c Color) [4]uint8 {
	if gomath.IsNaN(c[3]) {
		c[3] = 255
	}
	var b [4]uint8
	for i, v := range c {
		b[i] = clampByte(v)
	}
	return b
}

func clampByte(v float64) uint8 {
	switch {
	case gomath.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(gomath.RoundToEven(v))
	}
}

// math/fp64.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// fp64 emulation

// Shaders that emulate double precision receive each coordinate as a
// float32 "high" part plus a float32 "low" part holding the residual that
// was lost when the value was rounded to single precision; summing the
// two on the GPU side recovers most of the original precision.

// Fp64LowPart returns the residual x - float32(x), itself rounded to
// float32.
func Fp64LowPart(x float64) float32 {
	return float32(x - float64(float32(x)))
}

// SplitFloat64 returns the high and low parts of x.
func SplitFloat64(x float64) (hi, lo float32) {
	hi = float32(x)
	return hi, float32(x - float64(hi))
}

// IsFinite reports whether x is neither infinite nor NaN.
func IsFinite(x float64) bool {
	return !gomath.IsInf(x, 0) && !gomath.IsNaN(x)
}

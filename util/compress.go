// util/compress.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"golang.org/x/exp/constraints"
)

// DeltaEncode returns the differences between successive values of d
// (the first value is stored as-is). Triangle indices from neighboring
// polygons are close together, so the deltas are small and compress well.
func DeltaEncode[T constraints.Integer](d []T) []T {
	if len(d) == 0 {
		return nil
	}
	r := make([]T, len(d))

	var prev T
	for i, v := range d {
		r[i] = v - prev
		prev = v
	}
	return r
}

func DeltaDecode[T constraints.Integer](d []T) []T {
	if len(d) == 0 {
		return nil
	}
	r := make([]T, len(d))

	var prev T
	for i, delta := range d {
		r[i] = prev + delta
		prev = r[i]
	}
	return r
}

// MapSlice returns a new slice holding the result of applying xform to
// each element of from.
func MapSlice[F, T any](from []F, xform func(F) T) []T {
	if from == nil {
		return nil
	}
	to := make([]T, len(from))
	for i, v := range from {
		to[i] = xform(v)
	}
	return to
}

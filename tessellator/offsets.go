// tessellator/offsets.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tessellator

import (
	"github.com/mmp/polybuf/polygon"
)

// Offsets returns the starting global vertex index of each polygon:
// offsets[0] is 0 and offsets[i+1] = offsets[i] + polys[i].VertexCount(),
// so the last element is the total vertex count.
func Offsets(polys []polygon.Complex) []int {
	offsets := make([]int, len(polys)+1)
	for i := range polys {
		offsets[i+1] = offsets[i] + polys[i].VertexCount()
	}
	return offsets
}

func triangleCount(polys []polygon.Complex) int {
	n := 0
	for i := range polys {
		n += polys[i].TriangleCount()
	}
	return n
}

// tessellator/picking.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tessellator

import (
	"fmt"
)

// MaxPickingPolygons is the largest number of polygons that can be given
// distinct picking colors. Id 0 is reserved for "nothing picked".
const MaxPickingPolygons = 1<<24 - 1

// EncodePickingColor returns the picking color for the polygon with the
// given index: its id, polygonIndex+1, as little-endian bytes.
func EncodePickingColor(polygonIndex int) [3]uint8 {
	id := polygonIndex + 1
	return [3]uint8{uint8(id & 0xff), uint8((id >> 8) & 0xff), uint8((id >> 16) & 0xff)}
}

// DecodePickingColor returns the polygon id encoded by a picking color;
// it is one more than the polygon's index and 0 if no polygon was hit.
func DecodePickingColor(c [3]uint8) int {
	return int(c[0]) | int(c[1])<<8 | int(c[2])<<16
}

func checkPickingCapacity(npolys int) error {
	if npolys > MaxPickingPolygons {
		return fmt.Errorf("%d polygons, at most %d may be picked: %w", npolys, MaxPickingPolygons,
			ErrPickingCapacity)
	}
	return nil
}

func fillPickingColors(dst []uint8, offsets []int) {
	fillPerPolygon(dst, AttributePickingColors.Stride(), offsets, func(i int, v []uint8) {
		c := EncodePickingColor(i)
		copy(v, c[:])
	})
}

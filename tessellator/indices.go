// tessellator/indices.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tessellator

import (
	"fmt"

	"github.com/mmp/polybuf/polygon"
)

// IndexBuffer holds the triangle indices for all polygons, in the global
// vertex numbering. Only the slice matching Width is non-nil.
type IndexBuffer struct {
	width IndexWidth
	u16   []uint16
	u32   []uint32
}

func (b *IndexBuffer) Width() IndexWidth {
	return b.width
}

func (b *IndexBuffer) Len() int {
	if b.width == IndexUint16 {
		return len(b.u16)
	}
	return len(b.u32)
}

// At returns the i'th index.
func (b *IndexBuffer) At(i int) int {
	if b.width == IndexUint16 {
		return int(b.u16[i])
	}
	return int(b.u32[i])
}

// Uint16 returns the indices of a 16-bit buffer, or nil for a 32-bit one.
func (b *IndexBuffer) Uint16() []uint16 {
	return b.u16
}

// Uint32 returns the indices of a 32-bit buffer, or nil for a 16-bit one.
func (b *IndexBuffer) Uint32() []uint32 {
	return b.u32
}

// Ints returns a copy of the indices as ints.
func (b *IndexBuffer) Ints() []int {
	r := make([]int, b.Len())
	for i := range r {
		r[i] = b.At(i)
	}
	return r
}

// SizeBytes returns the size of the index data.
func (b *IndexBuffer) SizeBytes() int64 {
	return int64(b.Len()) * int64(b.width.Bytes())
}

// NewIndexBuffer returns an IndexBuffer holding the given indices, which
// must fit in the given width.
func NewIndexBuffer(width IndexWidth, indices []int) (*IndexBuffer, error) {
	b := &IndexBuffer{width: width}
	if width == IndexUint16 {
		b.u16 = make([]uint16, len(indices))
	} else {
		b.u32 = make([]uint32, len(indices))
	}

	for i, idx := range indices {
		if idx < 0 || uint64(idx) > width.MaxVertices() {
			return nil, fmt.Errorf("index %d: %w", idx, ErrIndexCapacity)
		}
		if width == IndexUint16 {
			b.u16[i] = uint16(idx)
		} else {
			b.u32[i] = uint32(idx)
		}
	}
	return b, nil
}

func checkIndexCapacity(pointCount int, width IndexWidth) error {
	if uint64(pointCount) > width.MaxVertices() {
		return fmt.Errorf("%d vertices, %s indices allow at most %d: %w", pointCount, width,
			width.MaxVertices(), ErrIndexCapacity)
	}
	return nil
}

func buildIndices(polys []polygon.Complex, offsets []int, width IndexWidth) *IndexBuffer {
	n := 3 * triangleCount(polys)
	b := &IndexBuffer{width: width}
	if width == IndexUint16 {
		b.u16 = fillIndices(make([]uint16, 0, n), polys, offsets)
	} else {
		b.u32 = fillIndices(make([]uint32, 0, n), polys, offsets)
	}
	return b
}

// fillIndices appends each polygon's local triangle indices, re-offset to
// the global vertex numbering, in triangulation order.
func fillIndices[T uint16 | uint32](dst []T, polys []polygon.Complex, offsets []int) []T {
	for i := range polys {
		o := offsets[i]
		for _, idx := range polys[i].SurfaceIndices() {
			dst = append(dst, T(o+idx))
		}
	}
	return dst
}

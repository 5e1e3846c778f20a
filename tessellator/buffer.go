// tessellator/buffer.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tessellator

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Attribute identifies one of the per-vertex buffers.
type Attribute int

const (
	AttributePositions Attribute = iota
	AttributePositions64Low
	AttributeNextPositions
	AttributeColors
	AttributeElevations
	AttributePickingColors
	NumAttributes
)

var attributeNames = [NumAttributes]string{
	AttributePositions:      "positions",
	AttributePositions64Low: "positions64Low",
	AttributeNextPositions:  "nextPositions",
	AttributeColors:         "colors",
	AttributeElevations:     "elevations",
	AttributePickingColors:  "pickingColors",
}

var attributeStrides = [NumAttributes]int{
	AttributePositions:      3,
	AttributePositions64Low: 2,
	AttributeNextPositions:  3,
	AttributeColors:         4,
	AttributeElevations:     1,
	AttributePickingColors:  3,
}

func (a Attribute) String() string {
	if a < 0 || a >= NumAttributes {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return attributeNames[a]
}

// Stride returns the number of values stored per vertex.
func (a Attribute) Stride() int {
	return attributeStrides[a]
}

// BufferState tracks whether a buffer's contents reflect the current
// geometry.
type BufferState int

const (
	BufferUncomputed BufferState = iota
	BufferComputed
	// BufferStale buffers hold values for a previous geometry with the
	// same vertex count; they are overwritten in place when next built.
	BufferStale
)

func (s BufferState) String() string {
	switch s {
	case BufferUncomputed:
		return "uncomputed"
	case BufferComputed:
		return "computed"
	case BufferStale:
		return "stale"
	default:
		return fmt.Sprintf("BufferState(%d)", int(s))
	}
}

type Numeric interface {
	constraints.Integer | constraints.Float
}

// Buffer is a per-vertex attribute buffer holding Stride values per
// vertex.
type Buffer[T Numeric] struct {
	Data   []T
	Stride int
	State  BufferState
}

// ensure makes sure the buffer has room for n vertices. Existing storage
// is reused if it is already the right size; it reports whether a new
// array was allocated.
func (b *Buffer[T]) ensure(n int) bool {
	if len(b.Data) == n*b.Stride && b.Data != nil {
		return false
	}
	b.Data = make([]T, n*b.Stride)
	return true
}

// invalidate is called after the geometry changes. If the vertex count
// changed, the storage is released and will be allocated when the buffer
// is next built.
func (b *Buffer[T]) invalidate(pointCountChanged bool) {
	if pointCountChanged {
		b.Data = nil
		b.State = BufferUncomputed
	} else if b.State == BufferComputed {
		b.State = BufferStale
	}
}

func (b *Buffer[T]) release() {
	b.Data = nil
	b.State = BufferUncomputed
}

func (b *Buffer[T]) state() BufferState {
	return b.State
}

func (b *Buffer[T]) sizeBytes() int64 {
	var t T
	return int64(len(b.Data)) * int64(unsafe.Sizeof(t))
}

type anyBuffer interface {
	invalidate(pointCountChanged bool)
	state() BufferState
	sizeBytes() int64
}

// registry holds the engine's per-vertex buffers, one per Attribute.
type registry struct {
	positions      Buffer[float64]
	positions64Low Buffer[float32]
	nextPositions  Buffer[float64]
	colors         Buffer[uint8]
	elevations     Buffer[float32]
	pickingColors  Buffer[uint8]
}

func newRegistry() registry {
	return registry{
		positions:      Buffer[float64]{Stride: AttributePositions.Stride()},
		positions64Low: Buffer[float32]{Stride: AttributePositions64Low.Stride()},
		nextPositions:  Buffer[float64]{Stride: AttributeNextPositions.Stride()},
		colors:         Buffer[uint8]{Stride: AttributeColors.Stride()},
		elevations:     Buffer[float32]{Stride: AttributeElevations.Stride()},
		pickingColors:  Buffer[uint8]{Stride: AttributePickingColors.Stride()},
	}
}

func (r *registry) buffer(a Attribute) anyBuffer {
	switch a {
	case AttributePositions:
		return &r.positions
	case AttributePositions64Low:
		return &r.positions64Low
	case AttributeNextPositions:
		return &r.nextPositions
	case AttributeColors:
		return &r.colors
	case AttributeElevations:
		return &r.elevations
	case AttributePickingColors:
		return &r.pickingColors
	default:
		panic(fmt.Sprintf("%d: unknown attribute", a))
	}
}

func (r *registry) invalidate(pointCountChanged bool) {
	for a := range NumAttributes {
		r.buffer(a).invalidate(pointCountChanged)
	}
}

func (r *registry) sizeBytes() int64 {
	var n int64
	for a := range NumAttributes {
		n += r.buffer(a).sizeBytes()
	}
	return n
}

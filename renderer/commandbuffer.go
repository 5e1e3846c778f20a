// renderer/commandbuffer.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	gomath "math"
	"sync"
	"unsafe"
)

// The command buffer stores a series of rendering commands, represented by
// the following values. Each one is followed in the buffer by a number of
// command arguments, after which the next command follows.  Comments
// after each command briefly describe its arguments.
//
// Buffers (vertex, index, color) are all stored directly in the
// CommandBuffer, following RendererFloatBuffer, RendererIntBuffer and
// RendererRawBuffer commands; the first argument after those commands is
// the length of the buffer and then its values follow directly. Commands
// that use buffers (e.g., RendererVertexArray or RendererDrawTriangles)
// are then directed to those buffers via integer parameters that encode
// the byte offset from the start of the command buffer where a buffer
// begins. One CommandBuffer thus cannot refer to a buffer in another
// CommandBuffer.

const (
	RendererSetRGBA            = iota // 4 float32: RGBA
	RendererBlend                     // no args: for now always src alpha, 1-src alpha
	RendererDisableBlend              // no args
	RendererFloatBuffer               // int32 size, then size*float32 values
	RendererIntBuffer                 // int32: size, then size*int32 values
	RendererRawBuffer                 // int32: size *in 32-bit words*, then that many values
	RendererVertexArray               // byte offset to array values, n components, stride (bytes)
	RendererDisableVertexArray        // no args
	RendererRGB8Array                 // byte offset to array values, n components, stride (bytes)
	RendererDisableColorArray         // no args
	RendererDrawTriangles             // 2 int32: offset to the index buffer, count
	RendererDrawQuads                 // 2 int32: offset to the index buffer, count
	RendererCallBuffer                // 1 int32: buffer index
	RendererResetState                // no args
)

// CommandBuffer encodes a sequence of rendering commands in an
// API-agnostic manner. It makes it possible to "pre-bake" the polygon
// buffers into a form that can be efficiently processed by a GPU backend
// and reused over multiple frames.
type CommandBuffer struct {
	Buf    []uint32
	called []CommandBuffer
}

// CommandBuffers are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var commandBufferPool = sync.Pool{New: func() any { return &CommandBuffer{} }}

func GetCommandBuffer() *CommandBuffer {
	return commandBufferPool.Get().(*CommandBuffer)
}

func ReturnCommandBuffer(cb *CommandBuffer) {
	cb.Reset()
	commandBufferPool.Put(cb)
}

// Reset resets the command buffer's length to zero so that it can be
// reused.
func (cb *CommandBuffer) Reset() {
	cb.Buf = cb.Buf[:0]
	cb.called = cb.called[:0]
}

// growFor ensures that at least n more values can be added to the end of
// the buffer without going past its capacity.
func (cb *CommandBuffer) growFor(n int) {
	if len(cb.Buf)+n > cap(cb.Buf) {
		sz := 2 * cap(cb.Buf)
		if sz < 1024 {
			sz = 1024
		}
		if sz < len(cb.Buf)+n {
			sz = 2 * (len(cb.Buf) + n)
		}
		b := make([]uint32, len(cb.Buf), sz)
		copy(b, cb.Buf)
		cb.Buf = b
	}
}

func (cb *CommandBuffer) appendFloats(floats ...float32) {
	for _, f := range floats {
		// Convert each one to a uint32 since that's the type that is
		// actually stored...
		cb.Buf = append(cb.Buf, gomath.Float32bits(f))
	}
}

func (cb *CommandBuffer) appendInts(ints ...int) {
	for _, i := range ints {
		if i != int(uint32(i)) {
			panic(fmt.Sprintf("%d: attempting to add non-32-bit value to CommandBuffer", i))
		}
		cb.Buf = append(cb.Buf, uint32(i))
	}
}

// SetRGBA adds a command to the command buffer to set the current RGBA
// color. Subsequent draw commands will inherit this color unless they
// specify per-vertex colors themselves.
func (cb *CommandBuffer) SetRGBA(rgba [4]float32) {
	cb.appendInts(RendererSetRGBA)
	cb.appendFloats(rgba[:]...)
}

// Blend adds a command to the command buffer enable blending.  The blend
// mode cannot be specified currently, since only one mode (alpha over
// blending) is used.
func (cb *CommandBuffer) Blend() {
	cb.appendInts(RendererBlend)
}

// DisableBlend adds a command to the command buffer that disables
// blending.
func (cb *CommandBuffer) DisableBlend() {
	cb.appendInts(RendererDisableBlend)
}

// FloatBuffer stores the provided float32 values in the CommandBuffer and
// returns the byte offset where the first value is stored; this offset
// can then be passed to commands like VertexArray to specify this array.
func (cb *CommandBuffer) FloatBuffer(buf []float32) int {
	cb.appendInts(RendererFloatBuffer, len(buf))
	offset := 4 * len(cb.Buf)

	n := len(buf)
	if n == 0 {
		return offset
	}
	cb.growFor(n)
	start := len(cb.Buf)
	cb.Buf = cb.Buf[:start+n]
	copy(cb.Buf[start:start+n], unsafe.Slice((*uint32)(unsafe.Pointer(&buf[0])), n))

	return offset
}

// IntBuffer stores the provided slice of int32 values in the command buffer
// and returns the byte offset where the first value of the slice is stored.
func (cb *CommandBuffer) IntBuffer(buf []int32) int {
	cb.appendInts(RendererIntBuffer, len(buf))
	offset := 4 * len(cb.Buf)

	n := len(buf)
	if n == 0 {
		return offset
	}
	cb.growFor(n)
	start := len(cb.Buf)
	cb.Buf = cb.Buf[:start+n]
	copy(cb.Buf[start:start+n], unsafe.Slice((*uint32)(unsafe.Pointer(&buf[0])), n))

	return offset
}

// RawBuffer stores the provided bytes, without further interpretation in
// the command buffer and returns the byte offset from the start of the
// buffer where they begin.
func (cb *CommandBuffer) RawBuffer(buf []byte) int {
	nints := (len(buf) + 3) / 4
	cb.appendInts(RendererRawBuffer, nints)
	offset := 4 * len(cb.Buf)

	if nints == 0 {
		return offset
	}
	cb.growFor(nints)
	start := len(cb.Buf)
	cb.Buf = cb.Buf[:start+nints]
	// Zero the padding in the last word, which may hold stale data from
	// a previous use of the buffer.
	cb.Buf[start+nints-1] = 0
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&cb.Buf[start])), 4*nints), buf)

	return offset
}

// VertexArray adds a command to the command buffer that specifies an array
// of vertex coordinates to use for a subsequent draw command. offset gives
// the offset into the current command buffer where the vertices begin
// (e.g., as returned by FloatBuffer), nComps is the number of components
// per vertex (3 for polygon positions), and stride gives the stride in
// bytes between vertices (e.g., 12 for densely packed 3D positions.)
func (cb *CommandBuffer) VertexArray(offset, nComps, stride int) {
	cb.appendInts(RendererVertexArray, offset, nComps, stride)
}

// DisableVertexArray adds a command to the command buffer to disable the
// current vertex array.
func (cb *CommandBuffer) DisableVertexArray() {
	cb.appendInts(RendererDisableVertexArray)
}

// RGB8Array adds a command to the command buffer that specifies an array
// of 8-bit colors to use for a subsequent draw command. Its arguments are
// analogous to the ones passed to VertexArray; nComps is 4 for RGBA
// colors and 3 for picking colors.
func (cb *CommandBuffer) RGB8Array(offset, nComps, stride int) {
	cb.appendInts(RendererRGB8Array, offset, nComps, stride)
}

// DisableColorArray adds a command to the command buffer that disables
// the current array of per-vertex colors.
func (cb *CommandBuffer) DisableColorArray() {
	cb.appendInts(RendererDisableColorArray)
}

// DrawTriangles adds a command to the command buffer to draw a number of
// triangles; each is specified by three vertices in the index
// buffer. offset gives the offset to the start of the index buffer in the
// current command buffer and count gives the total number of indices.
func (cb *CommandBuffer) DrawTriangles(offset, count int) {
	cb.appendInts(RendererDrawTriangles, offset, count)
}

// DrawQuads adds a command to the command buffer to draw a number of
// quads; each is specified by four vertices in the index buffer. offset
// gives the offset to the start of the index buffer in the current command
// buffer and count gives the total number of indices.
func (cb *CommandBuffer) DrawQuads(offset, count int) {
	cb.appendInts(RendererDrawQuads, offset, count)
}

// Call adds a command to the command buffer that causes the commands in
// the provided command buffer to be processed and executed. After the end
// of the command buffer is reached, processing of command in the current
// command buffer continues.
func (cb *CommandBuffer) Call(sub CommandBuffer) {
	if sub.Buf == nil {
		// make it a no-op
		return
	}

	cb.appendInts(RendererCallBuffer, len(cb.called))
	// Make our own copy of the slice to ensure it isn't garbage collected.
	cb.called = append(cb.called, sub)
}

// ResetState adds a command to the comment buffer that resets all of the
// assorted graphics state (blending, vertex and color arrays) to default
// values.
func (cb *CommandBuffer) ResetState() {
	cb.appendInts(RendererResetState)
}

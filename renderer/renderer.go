// renderer/renderer.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package renderer turns tessellated polygon buffers into draw commands
// and describes their vertex layouts for WebGPU pipelines.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrInvalidCommandBuffer = errors.New("invalid command buffer")

// RendererStats encapsulates assorted statistics from processing a
// CommandBuffer.
type RendererStats struct {
	nBuffers, bufferBytes int
	nDrawCalls            int
	nTriangles, nQuads    int
}

func (rs *RendererStats) String() string {
	return fmt.Sprintf("%d buffers (%.2f MB), %d draw calls: %d tris, %d quads",
		rs.nBuffers, float32(rs.bufferBytes)/(1024*1024), rs.nDrawCalls, rs.nTriangles, rs.nQuads)
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.nBuffers += s.nBuffers
	rs.bufferBytes += s.bufferBytes
	rs.nDrawCalls += s.nDrawCalls
	rs.nTriangles += s.nTriangles
	rs.nQuads += s.nQuads
}

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("buffers", rs.nBuffers),
		slog.Int("buffer_memory", rs.bufferBytes),
		slog.Int("draw_calls", rs.nDrawCalls),
		slog.Int("tris", rs.nTriangles),
		slog.Int("quads", rs.nQuads),
	)
}

func (rs RendererStats) DrawCalls() int { return rs.nDrawCalls }
func (rs RendererStats) Triangles() int { return rs.nTriangles }
func (rs RendererStats) Quads() int     { return rs.nQuads }

// Inspect walks the commands in cb the way a GPU backend would, checking
// that every array and draw command refers to a buffer stored in cb and
// that every index refers to a vertex in the current vertex array. It
// returns statistics about the commands.
func Inspect(cb *CommandBuffer) (RendererStats, error) {
	var stats RendererStats
	stats.nBuffers++
	stats.bufferBytes += 4 * len(cb.Buf)

	// Byte offset of each stored buffer to its length in 32-bit words.
	buffers := make(map[uint32]int)
	vertexCount := -1

	i := 0
	var err error
	ui32 := func() uint32 {
		if i >= len(cb.Buf) {
			if err == nil {
				err = fmt.Errorf("%w: truncated at word %d", ErrInvalidCommandBuffer, i)
			}
			return 0
		}
		v := cb.Buf[i]
		i++
		return v
	}
	lookup := func(offset uint32) (int, bool) {
		n, ok := buffers[offset]
		if !ok && err == nil {
			err = fmt.Errorf("%w: no buffer at offset %d", ErrInvalidCommandBuffer, offset)
		}
		return n, ok
	}
	checkIndices := func(offset uint32, count int) bool {
		n, ok := lookup(offset)
		if !ok {
			return false
		}
		if count > n {
			err = fmt.Errorf("%w: %d indices requested from buffer of %d", ErrInvalidCommandBuffer, count, n)
			return false
		}
		if vertexCount < 0 {
			err = fmt.Errorf("%w: draw without a vertex array", ErrInvalidCommandBuffer)
			return false
		}
		start := int(offset / 4)
		for _, idx := range cb.Buf[start : start+count] {
			if int(idx) >= vertexCount {
				err = fmt.Errorf("%w: index %d with %d vertices", ErrInvalidCommandBuffer, idx, vertexCount)
				return false
			}
		}
		return true
	}

	for i < len(cb.Buf) && err == nil {
		cmd := cb.Buf[i]
		i++
		switch cmd {
		case RendererSetRGBA:
			i += 4

		case RendererBlend, RendererDisableBlend, RendererDisableVertexArray, RendererDisableColorArray:

		case RendererFloatBuffer, RendererIntBuffer, RendererRawBuffer:
			n := int(ui32())
			if i+n > len(cb.Buf) {
				err = fmt.Errorf("%w: buffer of %d words extends past end", ErrInvalidCommandBuffer, n)
				break
			}
			buffers[uint32(4*i)] = n
			i += n

		case RendererVertexArray:
			offset := ui32()
			nc := int(ui32())
			stride := int(ui32())
			if n, ok := lookup(offset); ok {
				if nc == 0 || stride < 4*nc {
					err = fmt.Errorf("%w: %d components with stride %d", ErrInvalidCommandBuffer, nc, stride)
				} else {
					vertexCount = 4 * n / stride
				}
			}

		case RendererRGB8Array:
			offset := ui32()
			ui32()
			ui32()
			lookup(offset)

		case RendererDrawTriangles:
			offset := ui32()
			count := int(ui32())
			if checkIndices(offset, count) {
				stats.nDrawCalls++
				stats.nTriangles += count / 3
			}

		case RendererDrawQuads:
			offset := ui32()
			count := int(ui32())
			if checkIndices(offset, count) {
				stats.nDrawCalls++
				stats.nQuads += count / 4
			}

		case RendererResetState:
			vertexCount = -1

		case RendererCallBuffer:
			idx := int(ui32())
			if idx >= len(cb.called) {
				err = fmt.Errorf("%w: call to buffer %d of %d", ErrInvalidCommandBuffer, idx, len(cb.called))
				break
			}
			s2, cerr := Inspect(&cb.called[idx])
			if cerr != nil {
				err = cerr
			}
			stats.Merge(s2)

		default:
			err = fmt.Errorf("%w: unknown command %d", ErrInvalidCommandBuffer, cmd)
		}
	}

	return stats, err
}

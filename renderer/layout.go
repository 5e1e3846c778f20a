// renderer/layout.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/polybuf/tessellator"

	"github.com/gogpu/gputypes"
)

// Shader locations of the polygon vertex attributes.
const (
	PositionLocation      = 0
	Position64LowLocation = 1
	NextPositionLocation  = 2
	ColorLocation         = 3
	ElevationLocation     = 4
)

// VertexBufferLayouts returns the layouts of the vertex buffers for
// polygons built with the given options, one buffer per attribute.
// Positions are uploaded as single precision high parts; the low parts
// follow when opts.FP64 is set and the next positions when opts.Extruded
// is set.
func VertexBufferLayouts(opts tessellator.PositionOptions) []gputypes.VertexBufferLayout {
	layouts := []gputypes.VertexBufferLayout{
		{
			ArrayStride: 12,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: PositionLocation},
			},
		},
	}

	if opts.FP64 {
		layouts = append(layouts, gputypes.VertexBufferLayout{
			ArrayStride: 8,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: Position64LowLocation},
			},
		})
	}
	if opts.Extruded {
		layouts = append(layouts, gputypes.VertexBufferLayout{
			ArrayStride: 12,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: NextPositionLocation},
			},
		})
	}

	return append(layouts,
		gputypes.VertexBufferLayout{
			ArrayStride: 4,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatUnorm8x4, Offset: 0, ShaderLocation: ColorLocation},
			},
		},
		gputypes.VertexBufferLayout{
			ArrayStride: 4,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: ElevationLocation},
			},
		})
}

// IndexFormat returns the index buffer format for the given index width.
func IndexFormat(w tessellator.IndexWidth) gputypes.IndexFormat {
	if w == tessellator.IndexUint16 {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

// HighPositions returns the single precision positions that are uploaded
// for the vertex buffer at PositionLocation.
func HighPositions(t *tessellator.Tessellator) []float32 {
	pos := t.Positions()
	hi := make([]float32, len(pos))
	for i, v := range pos {
		hi[i] = float32(v)
	}
	return hi
}

// renderer/builders.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
	"sync"

	"github.com/mmp/polybuf/tessellator"
)

///////////////////////////////////////////////////////////////////////////
// DrawBuilders

// The *DrawBuilder types accumulate the buffers of one or more
// Tessellators and then generate corresponding buffer storage and draw
// commands in a CommandBuffer. This allows batching up many polygon
// collections to be drawn in a single draw command.

var ErrNotExtruded = errors.New("side walls require extruded positions")

// PolygonDrawBuilder accumulates polygon surfaces to be drawn together.
// In picking mode, each vertex is colored with its polygon's picking
// color rather than its color.
type PolygonDrawBuilder struct {
	Picking bool

	p       []float32
	rgb     []uint8
	indices []int32
}

// Reset resets the internal arrays used for accumulating polygons,
// maintaining the initial allocations.
func (pd *PolygonDrawBuilder) Reset() {
	pd.Picking = false
	pd.p = pd.p[:0]
	pd.rgb = pd.rgb[:0]
	pd.indices = pd.indices[:0]
}

func (pd *PolygonDrawBuilder) colorComponents() int {
	if pd.Picking {
		return tessellator.AttributePickingColors.Stride()
	}
	return tessellator.AttributeColors.Stride()
}

// AddTessellation adds all of t's polygons, using t's configured color
// accessor.
func (pd *PolygonDrawBuilder) AddTessellation(t *tessellator.Tessellator) {
	base := int32(len(pd.p) / 3)
	for _, v := range t.Positions() {
		pd.p = append(pd.p, float32(v))
	}

	if pd.Picking {
		pd.rgb = append(pd.rgb, t.PickingColors()...)
	} else {
		pd.rgb = append(pd.rgb, t.Colors(nil)...)
	}

	ib := t.Indices()
	for i := range ib.Len() {
		pd.indices = append(pd.indices, base+int32(ib.At(i)))
	}
}

// GenerateCommands adds commands to the specified command buffer to draw
// the polygons stored in the PolygonDrawBuilder.
func (pd *PolygonDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(pd.indices) == 0 {
		return
	}

	p := cb.FloatBuffer(pd.p)
	cb.VertexArray(p, 3, 3*4)

	nc := pd.colorComponents()
	rgb := cb.RawBuffer(pd.rgb)
	cb.RGB8Array(rgb, nc, nc)

	ind := cb.IntBuffer(pd.indices)
	cb.DrawTriangles(ind, len(pd.indices))

	cb.DisableColorArray()
	cb.DisableVertexArray()
}

// PolygonDrawBuilders are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var polygonDrawBuilderPool = sync.Pool{New: func() any { return &PolygonDrawBuilder{} }}

func GetPolygonDrawBuilder() *PolygonDrawBuilder {
	return polygonDrawBuilderPool.Get().(*PolygonDrawBuilder)
}

func ReturnPolygonDrawBuilder(pd *PolygonDrawBuilder) {
	pd.Reset()
	polygonDrawBuilderPool.Put(pd)
}

// SideWallDrawBuilder accumulates the vertical walls of extruded
// polygons. Each ring edge from a vertex v to the next vertex n in its
// ring gives a quad (v, n, n+h, v+h), where h is the polygon's elevation
// along z.
type SideWallDrawBuilder struct {
	p       []float32
	rgba    []uint8
	indices []int32
}

func (sw *SideWallDrawBuilder) Reset() {
	sw.p = sw.p[:0]
	sw.rgba = sw.rgba[:0]
	sw.indices = sw.indices[:0]
}

// AddTessellation adds walls for every ring edge of t's polygons, using
// t's configured elevation and color accessors. t's positions must have
// been built with extrusion enabled.
func (sw *SideWallDrawBuilder) AddTessellation(t *tessellator.Tessellator) error {
	if !t.PositionOptions().Extruded {
		return ErrNotExtruded
	}

	pos, next := t.Positions(), t.NextPositions()
	elev := t.Elevations(nil)
	colors := t.Colors(nil)

	for v := range t.PointCount() {
		h := float64(elev[v])
		pv := [3]float64(pos[3*v : 3*v+3])
		pn := [3]float64(next[3*v : 3*v+3])

		base := int32(len(sw.p) / 3)
		for _, q := range [4][3]float64{pv, pn, {pn[0], pn[1], pn[2] + h}, {pv[0], pv[1], pv[2] + h}} {
			sw.p = append(sw.p, float32(q[0]), float32(q[1]), float32(q[2]))
			sw.rgba = append(sw.rgba, colors[4*v:4*v+4]...)
		}
		sw.indices = append(sw.indices, base, base+1, base+2, base+3)
	}
	return nil
}

// Quads returns the number of wall quads that have been added.
func (sw *SideWallDrawBuilder) Quads() int {
	return len(sw.indices) / 4
}

func (sw *SideWallDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(sw.indices) == 0 {
		return
	}

	p := cb.FloatBuffer(sw.p)
	cb.VertexArray(p, 3, 3*4)

	rgba := cb.RawBuffer(sw.rgba)
	cb.RGB8Array(rgba, 4, 4)

	ind := cb.IntBuffer(sw.indices)
	cb.DrawQuads(ind, len(sw.indices))

	cb.DisableColorArray()
	cb.DisableVertexArray()
}

var sideWallDrawBuilderPool = sync.Pool{New: func() any { return &SideWallDrawBuilder{} }}

func GetSideWallDrawBuilder() *SideWallDrawBuilder {
	return sideWallDrawBuilderPool.Get().(*SideWallDrawBuilder)
}

func ReturnSideWallDrawBuilder(sw *SideWallDrawBuilder) {
	sw.Reset()
	sideWallDrawBuilderPool.Put(sw)
}

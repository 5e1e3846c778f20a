// renderer/renderer_test.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
	gomath "math"
	"testing"
	"unsafe"

	"github.com/mmp/polybuf/polygon"
	"github.com/mmp/polybuf/tessellator"

	"github.com/gogpu/gputypes"
)

func testTessellation(t *testing.T, opts tessellator.PositionOptions) *tessellator.Tessellator {
	t.Helper()
	tess, err := tessellator.New([]polygon.Polygon{
		polygon.SimpleRing{Ring: polygon.Ring{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
		polygon.RingsWithHoles{
			Outer: polygon.Ring{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}},
			Holes: []polygon.Ring{{{3, 3, 0}, {6, 3, 0}, {3, 6, 0}}},
		},
	}, tessellator.Config{
		Positions:    opts,
		GetElevation: func(i int) float64 { return float64(5 * (i + 1)) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tess
}

func TestCommandBufferBuffers(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)

	fo := cb.FloatBuffer([]float32{1.5, -2})
	if fo != 8 {
		t.Errorf("got float buffer offset %d, expected 8", fo)
	}
	if cb.Buf[0] != RendererFloatBuffer || cb.Buf[1] != 2 || gomath.Float32frombits(cb.Buf[2]) != 1.5 {
		t.Errorf("unexpected float buffer encoding %v", cb.Buf[:4])
	}

	ro := cb.RawBuffer([]byte{1, 2, 3, 4, 5})
	if cb.Buf[ro/4-1] != 2 {
		t.Errorf("got raw buffer length %d words, expected 2", cb.Buf[ro/4-1])
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&cb.Buf[ro/4])), 8)
	for i, b := range []byte{1, 2, 3, 4, 5, 0, 0, 0} {
		if raw[i] != b {
			t.Errorf("raw byte %d: got %d, expected %d", i, raw[i], b)
		}
	}

	io := cb.IntBuffer([]int32{7, 8, 9})
	if cb.Buf[io/4] != 7 || cb.Buf[io/4+2] != 9 {
		t.Errorf("unexpected int buffer contents")
	}

	// Empty buffers are allowed.
	cb.IntBuffer(nil)
	cb.FloatBuffer(nil)
	cb.RawBuffer(nil)
	if _, err := Inspect(cb); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPolygonDrawBuilder(t *testing.T) {
	tess := testTessellation(t, tessellator.PositionOptions{})

	pd := GetPolygonDrawBuilder()
	defer ReturnPolygonDrawBuilder(pd)
	pd.AddTessellation(tess)
	pd.AddTessellation(tess)

	if len(pd.p) != 2*3*tess.PointCount() {
		t.Errorf("got %d position values, expected %d", len(pd.p), 2*3*tess.PointCount())
	}
	// The second copy's indices refer to its own vertices.
	n := tess.Indices().Len()
	for i := n; i < 2*n; i++ {
		if int(pd.indices[i]) < tess.PointCount() {
			t.Errorf("index %d of second tessellation refers to first: %d", i, pd.indices[i])
		}
	}

	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)
	pd.GenerateCommands(cb)

	stats, err := Inspect(cb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.DrawCalls() != 1 {
		t.Errorf("got %d draw calls, expected 1", stats.DrawCalls())
	}
	tris := 0
	for i := range tess.PolygonCount() {
		tris += tess.Polygon(i).TriangleCount()
	}
	if stats.Triangles() != 2*tris {
		t.Errorf("got %d triangles, expected %d", stats.Triangles(), 2*tris)
	}
}

func TestPolygonDrawBuilderPicking(t *testing.T) {
	tess := testTessellation(t, tessellator.PositionOptions{})

	pd := &PolygonDrawBuilder{Picking: true}
	pd.AddTessellation(tess)

	if len(pd.rgb) != 3*tess.PointCount() {
		t.Fatalf("got %d color values, expected %d", len(pd.rgb), 3*tess.PointCount())
	}
	if id := tessellator.DecodePickingColor([3]uint8(pd.rgb[3*5 : 3*5+3])); id != 2 {
		t.Errorf("vertex 5: got picking id %d, expected 2", id)
	}

	var cb CommandBuffer
	pd.GenerateCommands(&cb)
	// The color array has 3 components in picking mode.
	found := false
	for i := 0; i+3 < len(cb.Buf); i++ {
		if cb.Buf[i] == RendererRGB8Array && cb.Buf[i+2] == 3 && cb.Buf[i+3] == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("no 3-component color array command found")
	}

	pd.Reset()
	if pd.Picking || len(pd.indices) != 0 {
		t.Errorf("Reset didn't clear builder")
	}
	cb.Reset()
	pd.GenerateCommands(&cb)
	if len(cb.Buf) != 0 {
		t.Errorf("empty builder generated commands")
	}
}

func TestSideWalls(t *testing.T) {
	tess := testTessellation(t, tessellator.PositionOptions{Extruded: true})

	sw := GetSideWallDrawBuilder()
	defer ReturnSideWallDrawBuilder(sw)
	if err := sw.AddTessellation(tess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One quad per ring edge: 3 + 4 + 3.
	if sw.Quads() != 10 {
		t.Errorf("got %d quads, expected 10", sw.Quads())
	}

	// The triangle's last edge wraps from (0,1) to (0,0), with height 5.
	q := sw.p[3*4*2 : 3*4*3]
	expected := []float32{0, 1, 0, 0, 0, 0, 0, 0, 5, 0, 1, 5}
	for i := range expected {
		if q[i] != expected[i] {
			t.Errorf("quad 2: got %v, expected %v", q, expected)
			break
		}
	}
	// The square's walls are 10 high.
	if z := sw.p[3*4*3+3*2+2]; z != 10 {
		t.Errorf("got wall top %g, expected 10", z)
	}

	var cb CommandBuffer
	sw.GenerateCommands(&cb)
	stats, err := Inspect(&cb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Quads() != 10 || stats.DrawCalls() != 1 {
		t.Errorf("got %d quads in %d draw calls, expected 10 in 1", stats.Quads(), stats.DrawCalls())
	}

	flat := testTessellation(t, tessellator.PositionOptions{})
	if err := sw.AddTessellation(flat); !errors.Is(err, ErrNotExtruded) {
		t.Errorf("expected ErrNotExtruded, got %v", err)
	}
}

func TestInspectErrors(t *testing.T) {
	for name, build := range map[string]func(cb *CommandBuffer){
		"unknown command": func(cb *CommandBuffer) { cb.appendInts(1000) },
		"missing buffer":  func(cb *CommandBuffer) { cb.VertexArray(4, 3, 12) },
		"no vertex array": func(cb *CommandBuffer) {
			ind := cb.IntBuffer([]int32{0, 1, 2})
			cb.DrawTriangles(ind, 3)
		},
		"index out of range": func(cb *CommandBuffer) {
			p := cb.FloatBuffer(make([]float32, 9))
			cb.VertexArray(p, 3, 12)
			ind := cb.IntBuffer([]int32{0, 1, 3})
			cb.DrawTriangles(ind, 3)
		},
		"count too large": func(cb *CommandBuffer) {
			p := cb.FloatBuffer(make([]float32, 9))
			cb.VertexArray(p, 3, 12)
			ind := cb.IntBuffer([]int32{0, 1, 2})
			cb.DrawTriangles(ind, 6)
		},
		"truncated": func(cb *CommandBuffer) { cb.appendInts(RendererIntBuffer, 10, 1) },
	} {
		var cb CommandBuffer
		build(&cb)
		if _, err := Inspect(&cb); !errors.Is(err, ErrInvalidCommandBuffer) {
			t.Errorf("%s: expected ErrInvalidCommandBuffer, got %v", name, err)
		}
	}
}

func TestCall(t *testing.T) {
	tess := testTessellation(t, tessellator.PositionOptions{})
	var pd PolygonDrawBuilder
	pd.AddTessellation(tess)

	var sub, cb CommandBuffer
	pd.GenerateCommands(&sub)
	cb.Call(sub)
	cb.Call(sub)
	cb.Call(CommandBuffer{})

	stats, err := Inspect(&cb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.DrawCalls() != 2 {
		t.Errorf("got %d draw calls, expected 2", stats.DrawCalls())
	}
}

func TestVertexBufferLayouts(t *testing.T) {
	for _, tc := range []struct {
		opts      tessellator.PositionOptions
		locations []uint32
	}{
		{tessellator.PositionOptions{}, []uint32{PositionLocation, ColorLocation, ElevationLocation}},
		{tessellator.PositionOptions{FP64: true, Extruded: true},
			[]uint32{PositionLocation, Position64LowLocation, NextPositionLocation, ColorLocation, ElevationLocation}},
	} {
		layouts := VertexBufferLayouts(tc.opts)
		if len(layouts) != len(tc.locations) {
			t.Errorf("%+v: got %d layouts, expected %d", tc.opts, len(layouts), len(tc.locations))
			continue
		}
		for i, l := range layouts {
			if len(l.Attributes) != 1 || uint32(l.Attributes[0].ShaderLocation) != tc.locations[i] {
				t.Errorf("%+v: layout %d has unexpected attributes %+v", tc.opts, i, l.Attributes)
			}
		}
	}

	if layouts := VertexBufferLayouts(tessellator.PositionOptions{}); layouts[1].Attributes[0].Format != gputypes.VertexFormatUnorm8x4 {
		t.Errorf("expected unorm8x4 colors")
	}

	if IndexFormat(tessellator.IndexUint16) != gputypes.IndexFormatUint16 {
		t.Errorf("expected uint16 index format")
	}
	if IndexFormat(tessellator.IndexUint32) != gputypes.IndexFormatUint32 {
		t.Errorf("expected uint32 index format")
	}
}

func TestHighPositions(t *testing.T) {
	tess := testTessellation(t, tessellator.PositionOptions{FP64: true})
	hi, low, pos := HighPositions(tess), tess.Positions64Low(), tess.Positions()
	for v := range tess.PointCount() {
		for c := range 2 {
			if float64(hi[3*v+c])+float64(low[2*v+c]) != pos[3*v+c] {
				t.Errorf("vertex %d: high and low parts don't sum to position", v)
			}
		}
	}
}

// tessellator/tessellator.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package tessellator lays out a collection of polygons as flat GPU
// buffers: positions, triangle indices, per-vertex colors, elevations and
// picking colors, as well as the next-position buffer used to draw
// extruded side walls and the low-part buffer for emulated double
// precision.
//
// Vertices are numbered globally in polygon order, then ring order (outer
// ring first), then vertex order; every per-vertex buffer uses that
// numbering. A Tessellator is not safe for concurrent use.
package tessellator

import (
	"log/slog"

	"github.com/mmp/polybuf/log"
	"github.com/mmp/polybuf/math"
	"github.com/mmp/polybuf/polygon"
)

type Tessellator struct {
	cfg        Config
	lg         *log.Logger
	polys      []polygon.Complex
	offsets    []int
	pointCount int
	buffers    registry
	stats      Stats
}

// Stats summarizes the engine's current geometry and buffer usage.
type Stats struct {
	Polygons    int
	Points      int
	Triangles   int
	IndexWidth  IndexWidth
	BufferBytes int64
	// Allocations counts buffer arrays allocated since the Tessellator
	// was created.
	Allocations int
	// GeometryUpdates counts successful calls to UpdateGeometry.
	GeometryUpdates int
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("polygons", s.Polygons),
		slog.Int("points", s.Points),
		slog.Int("triangles", s.Triangles),
		slog.String("index_width", s.IndexWidth.String()),
		slog.Int64("buffer_bytes", s.BufferBytes),
		slog.Int("allocations", s.Allocations),
		slog.Int("geometry_updates", s.GeometryUpdates))
}

// New returns a Tessellator for the given polygons. The polygons are
// normalized and triangulated and the picking colors are built; the other
// buffers are built when they are first requested.
//
// An error is returned if any polygon is malformed (wrapping
// polygon.ErrMalformedPolygon), if there are more vertices than the
// configured index width can address (ErrIndexCapacity) or too many
// polygons to assign picking colors (ErrPickingCapacity).
func New(polys []polygon.Polygon, cfg Config) (*Tessellator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	t := &Tessellator{
		cfg:     cfg.withDefaults(),
		lg:      cfg.Logger,
		buffers: newRegistry(),
		offsets: []int{0},
	}
	t.stats.IndexWidth = cfg.IndexWidth

	if err := t.UpdateGeometry(polys); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateGeometry replaces the polygon collection. If the vertex count is
// unchanged, existing buffers are kept and overwritten in place when next
// requested; otherwise they are reallocated. The picking colors are
// rebuilt immediately. If an error is returned, the Tessellator is left
// unchanged.
func (t *Tessellator) UpdateGeometry(polys []polygon.Polygon) error {
	cs, offsets, err := t.prepareGeometry(polys)
	if err != nil {
		t.lg.Info("geometry update rejected", slog.Int("polygons", len(polys)), slog.Any("error", err))
		return err
	}
	pointCount := offsets[len(offsets)-1]

	pointCountChanged := pointCount != t.pointCount || t.polys == nil
	t.polys, t.offsets, t.pointCount = cs, offsets, pointCount
	t.buffers.invalidate(pointCountChanged)

	t.updatePickingColors()

	t.stats.Polygons = len(cs)
	t.stats.Points = pointCount
	t.stats.Triangles = triangleCount(cs)
	t.stats.GeometryUpdates++
	t.updateBufferBytes()

	t.lg.Info("geometry updated", slog.Any("stats", t.stats),
		slog.Bool("point_count_changed", pointCountChanged))
	return nil
}

// prepareGeometry normalizes polys and checks that the result fits the
// configured buffers without modifying t.
func (t *Tessellator) prepareGeometry(polys []polygon.Polygon) ([]polygon.Complex, []int, error) {
	cs, err := polygon.NormalizeAll(t.cfg.Triangulator, polys)
	if err != nil {
		return nil, nil, err
	}

	offsets := Offsets(cs)
	if err := checkIndexCapacity(offsets[len(offsets)-1], t.cfg.IndexWidth); err != nil {
		return nil, nil, err
	}
	if err := checkPickingCapacity(len(cs)); err != nil {
		return nil, nil, err
	}
	return cs, offsets, nil
}

// ensure prepares b to hold the current vertices, logging any
// allocation.
func ensure[T Numeric](t *Tessellator, a Attribute, b *Buffer[T]) {
	if b.ensure(t.pointCount) {
		t.stats.Allocations++
		t.lg.Debug("allocated buffer", slog.String("attribute", a.String()),
			slog.Int("points", t.pointCount), slog.Int("length", len(b.Data)))
	}
}

func (t *Tessellator) updateBufferBytes() {
	t.stats.BufferBytes = t.buffers.sizeBytes()
}

func (t *Tessellator) updatePickingColors() {
	b := &t.buffers.pickingColors
	ensure(t, AttributePickingColors, b)
	fillPickingColors(b.Data, t.offsets)
	b.State = BufferComputed
}

// PointCount returns the total number of vertices over all polygons.
func (t *Tessellator) PointCount() int {
	return t.pointCount
}

// PolygonCount returns the number of polygons.
func (t *Tessellator) PolygonCount() int {
	return len(t.polys)
}

// Polygon returns the i'th normalized polygon.
func (t *Tessellator) Polygon(i int) *polygon.Complex {
	return &t.polys[i]
}

// Offsets returns the starting vertex index of each polygon followed by
// the total vertex count. The returned slice must not be modified.
func (t *Tessellator) Offsets() []int {
	return t.offsets
}

func (t *Tessellator) IndexWidth() IndexWidth {
	return t.cfg.IndexWidth
}

// PositionOptions returns the options most recently passed to
// UpdatePositions (or given in the Config).
func (t *Tessellator) PositionOptions() PositionOptions {
	return t.cfg.Positions
}

// State returns the state of the given attribute's buffer.
func (t *Tessellator) State(a Attribute) BufferState {
	return t.buffers.buffer(a).state()
}

func (t *Tessellator) Stats() Stats {
	return t.stats
}

// Bounds returns the bounding box of all of the vertices.
func (t *Tessellator) Bounds() math.Extent3D {
	e := math.EmptyExtent3D()
	for i := range t.polys {
		e = math.UnionExtents(e, t.polys[i].Bounds())
	}
	return e
}

// Indices builds and returns the index buffer. It is rebuilt on each
// call; only the per-polygon triangulations are retained.
func (t *Tessellator) Indices() *IndexBuffer {
	return buildIndices(t.polys, t.offsets, t.cfg.IndexWidth)
}

// UpdatePositions rebuilds the position buffers with the given options.
// The low-part buffer is only maintained when opts.FP64 is set and the
// next-position buffer only when opts.Extruded is set; otherwise they
// are released.
func (t *Tessellator) UpdatePositions(opts PositionOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	t.cfg.Positions = opts

	b := &t.buffers
	ensure(t, AttributePositions, &b.positions)

	var low []float32
	if opts.FP64 {
		ensure(t, AttributePositions64Low, &b.positions64Low)
		low = b.positions64Low.Data
	} else {
		b.positions64Low.release()
	}

	var next []float64
	if opts.Extruded {
		ensure(t, AttributeNextPositions, &b.nextPositions)
		next = b.nextPositions.Data
	} else {
		b.nextPositions.release()
	}

	fillPositions(t.polys, b.positions.Data, low, next)

	b.positions.State = BufferComputed
	if opts.FP64 {
		b.positions64Low.State = BufferComputed
	}
	if opts.Extruded {
		b.nextPositions.State = BufferComputed
	}
	t.updateBufferBytes()
	return nil
}

func (t *Tessellator) positionsCurrent() bool {
	b := &t.buffers
	return b.positions.State == BufferComputed &&
		(!t.cfg.Positions.FP64 || b.positions64Low.State == BufferComputed) &&
		(!t.cfg.Positions.Extruded || b.nextPositions.State == BufferComputed)
}

func (t *Tessellator) ensurePositions() {
	if !t.positionsCurrent() {
		// The options were validated when they were set.
		_ = t.UpdatePositions(t.cfg.Positions)
	}
}

// Positions returns the x, y, z coordinates of each vertex, building
// them if necessary.
func (t *Tessellator) Positions() []float64 {
	t.ensurePositions()
	return t.buffers.positions.Data
}

// Positions64Low returns the low parts of each vertex's x and y
// coordinates, or nil if double precision emulation is disabled.
func (t *Tessellator) Positions64Low() []float32 {
	if !t.cfg.Positions.FP64 {
		return nil
	}
	t.ensurePositions()
	return t.buffers.positions64Low.Data
}

// NextPositions returns, for each vertex, the position of the following
// vertex in its ring, wrapping around at the end of the ring. It returns
// nil if extrusion is disabled.
func (t *Tessellator) NextPositions() []float64 {
	if !t.cfg.Positions.Extruded {
		return nil
	}
	t.ensurePositions()
	return t.buffers.nextPositions.Data
}

// Elevations builds and returns the elevation of each vertex, calling
// get once per polygon. If get is nil, the configured accessor is used.
func (t *Tessellator) Elevations(get ElevationFunc) []float32 {
	if get == nil {
		get = t.cfg.GetElevation
	}

	b := &t.buffers.elevations
	ensure(t, AttributeElevations, b)
	fillPerPolygon(b.Data, b.Stride, t.offsets, func(i int, v []float32) {
		v[0] = float32(get(i))
	})
	b.State = BufferComputed
	t.updateBufferBytes()
	return b.Data
}

// Colors builds and returns the RGBA color of each vertex, calling get
// once per polygon. If get is nil, the configured accessor is used. See
// ColorBytes for how colors are converted to bytes.
func (t *Tessellator) Colors(get ColorFunc) []uint8 {
	if get == nil {
		get = t.cfg.GetColor
	}

	b := &t.buffers.colors
	ensure(t, AttributeColors, b)
	fillPerPolygon(b.Data, b.Stride, t.offsets, func(i int, v []uint8) {
		c := ColorBytes(get(i))
		copy(v, c[:])
	})
	b.State = BufferComputed
	t.updateBufferBytes()
	return b.Data
}

// PickingColors returns the picking color of each vertex; see
// EncodePickingColor.
func (t *Tessellator) PickingColors() []uint8 {
	return t.buffers.pickingColors.Data
}

// snapshot/snapshot.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package snapshot saves and restores the complete set of buffers built
// for a polygon collection so that they can be loaded by a renderer
// without repeating the tessellation.
package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/mmp/polybuf/tessellator"
	"github.com/mmp/polybuf/util"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Version is incremented when the encoding changes incompatibly.
const Version = 1

var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshot holds copies of all of a Tessellator's buffers.
type Snapshot struct {
	Version        int
	IndexWidth     tessellator.IndexWidth
	Options        tessellator.PositionOptions
	PointCount     int
	Offsets        []int
	Indices        []uint32 `msgpack:"-"`
	Positions      []float64
	Positions64Low []float32
	NextPositions  []float64
	Colors         []uint8
	Elevations     []float32
	PickingColors  []uint8
	BoundsMin      [3]float64
	BoundsMax      [3]float64
}

// wireSnapshot is the encoded form of a Snapshot; indices are stored as
// deltas, which are mostly small since neighboring triangles share
// vertices.
type wireSnapshot struct {
	Snapshot    *Snapshot
	IndexDeltas []int64
}

// Capture builds all of t's buffers, using its configured accessors, and
// returns copies of them.
func Capture(t *tessellator.Tessellator) *Snapshot {
	b := t.Bounds()
	s := &Snapshot{
		Version:        Version,
		IndexWidth:     t.IndexWidth(),
		Options:        t.PositionOptions(),
		PointCount:     t.PointCount(),
		Offsets:        clone(t.Offsets()),
		Positions:      clone(t.Positions()),
		Positions64Low: clone(t.Positions64Low()),
		NextPositions:  clone(t.NextPositions()),
		Colors:         clone(t.Colors(nil)),
		Elevations:     clone(t.Elevations(nil)),
		PickingColors:  clone(t.PickingColors()),
		BoundsMin:      b.P0,
		BoundsMax:      b.P1,
	}

	ib := t.Indices()
	s.Indices = make([]uint32, ib.Len())
	for i := range s.Indices {
		s.Indices[i] = uint32(ib.At(i))
	}
	return s
}

func clone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}

// IndexBuffer returns the snapshot's indices in its index width.
func (s *Snapshot) IndexBuffer() (*tessellator.IndexBuffer, error) {
	return tessellator.NewIndexBuffer(s.IndexWidth, util.MapSlice(s.Indices, func(i uint32) int { return int(i) }))
}

// Write encodes s to w.
func Write(w io.Writer, s *Snapshot) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}

	ws := wireSnapshot{
		Snapshot:    s,
		IndexDeltas: util.DeltaEncode(util.MapSlice(s.Indices, func(i uint32) int64 { return int64(i) })),
	}
	if err := msgpack.NewEncoder(zw).Encode(&ws); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Read decodes a snapshot written by Write and checks that its buffers
// are consistent with each other.
func Read(r io.Reader) (*Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ws wireSnapshot
	if err := msgpack.NewDecoder(zr).Decode(&ws); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	s := ws.Snapshot
	if s == nil {
		return nil, fmt.Errorf("%w: no buffers", ErrCorruptSnapshot)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: version %d, expected %d", ErrCorruptSnapshot, s.Version, Version)
	}

	s.Indices = make([]uint32, len(ws.IndexDeltas))
	for i, idx := range util.DeltaDecode(ws.IndexDeltas) {
		if idx < 0 || idx >= int64(s.PointCount) {
			return nil, fmt.Errorf("%w: index %d with %d points", ErrCorruptSnapshot, idx, s.PointCount)
		}
		s.Indices[i] = uint32(idx)
	}

	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) check() error {
	var e util.ErrorLogger

	if len(s.Offsets) == 0 || s.Offsets[0] != 0 || s.Offsets[len(s.Offsets)-1] != s.PointCount {
		e.ErrorString("offsets %v don't match %d points", s.Offsets, s.PointCount)
	}
	checkLen := func(a tessellator.Attribute, n int, present bool) {
		if !present && n == 0 {
			return
		}
		if expected := s.PointCount * a.Stride(); n != expected {
			e.ErrorString("%s: %d values, expected %d", a, n, expected)
		}
	}
	checkLen(tessellator.AttributePositions, len(s.Positions), true)
	checkLen(tessellator.AttributePositions64Low, len(s.Positions64Low), s.Options.FP64)
	checkLen(tessellator.AttributeNextPositions, len(s.NextPositions), s.Options.Extruded)
	checkLen(tessellator.AttributeColors, len(s.Colors), true)
	checkLen(tessellator.AttributeElevations, len(s.Elevations), true)
	checkLen(tessellator.AttributePickingColors, len(s.PickingColors), true)
	if len(s.Indices)%3 != 0 {
		e.ErrorString("%d indices is not a multiple of 3", len(s.Indices))
	}

	if e.HaveErrors() {
		return fmt.Errorf("%w: %s", ErrCorruptSnapshot, e.String())
	}
	return nil
}

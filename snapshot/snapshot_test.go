// snapshot/snapshot_test.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mmp/polybuf/polygon"
	"github.com/mmp/polybuf/tessellator"
)

func testTessellator(t *testing.T, cfg tessellator.Config) *tessellator.Tessellator {
	t.Helper()
	tess, err := tessellator.New([]polygon.Polygon{
		polygon.SimpleRing{Ring: polygon.Ring{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
		polygon.RingsWithHoles{
			Outer: polygon.Ring{{0, 0, 2}, {10, 0, 2}, {10, 10, 2}, {0, 10, 2}},
			Holes: []polygon.Ring{{{3, 3, 2}, {6, 3, 2}, {3, 6, 2}}},
		},
	}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tess
}

func TestRoundTrip(t *testing.T) {
	for _, cfg := range []tessellator.Config{
		{},
		{
			IndexWidth: tessellator.IndexUint16,
			Positions:  tessellator.PositionOptions{FP64: true, Extruded: true},
			GetColor:   tessellator.ConstantColor(tessellator.Color{10, 20, 30, 40}),
		},
	} {
		s := Capture(testTessellator(t, cfg))

		var buf bytes.Buffer
		if err := Write(&buf, s); err != nil {
			t.Fatalf("Write: %v", err)
		}
		r, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}

		if r.IndexWidth != s.IndexWidth || r.Options != s.Options || r.PointCount != s.PointCount {
			t.Errorf("got header %v %+v %d, expected %v %+v %d", r.IndexWidth, r.Options, r.PointCount,
				s.IndexWidth, s.Options, s.PointCount)
		}
		if r.BoundsMin != s.BoundsMin || r.BoundsMax != s.BoundsMax {
			t.Errorf("got bounds %v-%v, expected %v-%v", r.BoundsMin, r.BoundsMax, s.BoundsMin, s.BoundsMax)
		}
		if !slices.Equal(r.Indices, s.Indices) {
			t.Errorf("got indices %v, expected %v", r.Indices, s.Indices)
		}
		if !slices.Equal(r.Offsets, s.Offsets) ||
			!slices.Equal(r.Positions, s.Positions) ||
			!slices.Equal(r.Positions64Low, s.Positions64Low) ||
			!slices.Equal(r.NextPositions, s.NextPositions) ||
			!slices.Equal(r.Colors, s.Colors) ||
			!slices.Equal(r.Elevations, s.Elevations) ||
			!slices.Equal(r.PickingColors, s.PickingColors) {
			t.Errorf("buffers differ after round trip")
		}

		ib, err := r.IndexBuffer()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ib.Width() != cfg.IndexWidth || ib.Len() != len(s.Indices) {
			t.Errorf("got %d %s indices, expected %d %s", ib.Len(), ib.Width(), len(s.Indices), cfg.IndexWidth)
		}
	}
}

func TestCaptureCopies(t *testing.T) {
	tess := testTessellator(t, tessellator.Config{})
	s := Capture(tess)
	s.Positions[0] = 1000
	if tess.Positions()[0] == 1000 {
		t.Errorf("snapshot shares storage with the tessellator")
	}
	if len(s.Colors) != 4*tess.PointCount() || len(s.Elevations) != tess.PointCount() {
		t.Errorf("attribute buffers not captured")
	}
	if s.Positions64Low != nil || s.NextPositions != nil {
		t.Errorf("disabled buffers captured")
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(strings.NewReader("not a snapshot")); err == nil {
		t.Errorf("expected error for garbage input")
	}

	corrupt := func(f func(s *Snapshot)) error {
		s := Capture(testTessellator(t, tessellator.Config{}))
		f(s)
		var buf bytes.Buffer
		if err := Write(&buf, s); err != nil {
			t.Fatalf("Write: %v", err)
		}
		_, err := Read(&buf)
		return err
	}

	for name, f := range map[string]func(s *Snapshot){
		"version":   func(s *Snapshot) { s.Version = Version + 1 },
		"index":     func(s *Snapshot) { s.Indices[1] = uint32(s.PointCount) },
		"positions": func(s *Snapshot) { s.Positions = s.Positions[:3] },
		"colors":    func(s *Snapshot) { s.Colors = append(s.Colors, 1) },
		"offsets":   func(s *Snapshot) { s.Offsets[len(s.Offsets)-1]++ },
		"triangles": func(s *Snapshot) { s.Indices = s.Indices[:4] },
	} {
		if err := corrupt(f); !errors.Is(err, ErrCorruptSnapshot) {
			t.Errorf("%s: expected ErrCorruptSnapshot, got %v", name, err)
		}
	}
}

func TestManifest(t *testing.T) {
	s := Capture(testTessellator(t, tessellator.Config{Positions: tessellator.PositionOptions{Extruded: true}}))

	b, err := json.Marshal(s.Manifest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	js := string(b)

	// Keys are written in a fixed order.
	last := -1
	for _, key := range []string{`"version"`, `"points":10`, `"polygons":2`, `"triangles"`, `"bounds"`, `"buffers"`,
		`"indices"`, `"positions"`, `"nextPositions"`, `"colors"`, `"elevations"`, `"pickingColors"`} {
		i := strings.Index(js, key)
		if i == -1 {
			t.Errorf("%s not found in %s", key, js)
		} else if i < last {
			t.Errorf("%s out of order in %s", key, js)
		} else {
			last = i
		}
	}
	if strings.Contains(js, "positions64Low") {
		t.Errorf("manifest includes disabled buffer: %s", js)
	}
	if !strings.Contains(js, `"nextPositions":{"stride":3,"type":"float64","length":30}`) {
		t.Errorf("unexpected nextPositions entry in %s", js)
	}
	if !strings.Contains(js, `"indices":{"stride":1,"type":"uint32"`) {
		t.Errorf("unexpected indices entry in %s", js)
	}
}

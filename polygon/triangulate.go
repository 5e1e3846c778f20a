// polygon/triangulate.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package polygon

import (
	"encoding/binary"
	"fmt"
	gomath "math"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rclancey/earcut"
)

// DefaultTriangulationCacheSize is the number of polygon triangulations
// that NewTriangulator keeps by default.
const DefaultTriangulationCacheSize = 4096

const triangulationCacheTTL = 30 * time.Minute

// Triangulator triangulates ring sets, remembering recent results so
// that polygons that survive a geometry update are not triangulated
// again. A nil *Triangulator triangulates without caching. It is safe for
// concurrent use.
type Triangulator struct {
	cache *expirable.LRU[uint64, triangulation]
}

type triangulation struct {
	// The inputs are stored as well so that a hash collision can't return
	// the wrong triangles.
	coords  []float64
	holes   []int
	indices []int
}

func NewTriangulator(size int) *Triangulator {
	if size <= 0 {
		size = DefaultTriangulationCacheSize
	}
	return &Triangulator{
		cache: expirable.NewLRU[uint64, triangulation](size, nil, triangulationCacheTTL),
	}
}

// Len returns the number of cached triangulations.
func (t *Triangulator) Len() int {
	if t == nil {
		return 0
	}
	return t.cache.Len()
}

// Triangulate returns triples of indices into the vertices of rings (the
// first ring is the outer boundary, the rest are holes), numbered
// consecutively across the rings.
func (t *Triangulator) Triangulate(rings []Ring) ([]int, error) {
	coords, holes := flattenRings(rings)
	if t == nil {
		return earClip(coords, holes)
	}

	key := hashRings(coords, holes)
	if tri, ok := t.cache.Get(key); ok && slices.Equal(tri.coords, coords) && slices.Equal(tri.holes, holes) {
		return tri.indices, nil
	}

	indices, err := earClip(coords, holes)
	if err != nil {
		return nil, err
	}
	t.cache.Add(key, triangulation{coords: coords, holes: holes, indices: indices})
	return indices, nil
}

// flattenRings returns the vertex coordinates as a flat x,y,z array along
// with the starting vertex index of each hole, which is the layout earcut
// expects.
func flattenRings(rings []Ring) ([]float64, []int) {
	var coords []float64
	var holes []int
	nv := 0
	for i, r := range rings {
		if i > 0 {
			holes = append(holes, nv)
		}
		for _, p := range r {
			coords = append(coords, p[0], p[1], p[2])
		}
		nv += len(r)
	}
	return coords, holes
}

func hashRings(coords []float64, holes []int) uint64 {
	buf := make([]byte, 0, 8*(len(coords)+len(holes)+1))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(holes)))
	for _, h := range holes {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(h))
	}
	for _, v := range coords {
		buf = binary.LittleEndian.AppendUint64(buf, gomath.Float64bits(v))
	}
	return xxhash.Sum64(buf)
}

func earClip(coords []float64, holes []int) ([]int, error) {
	nv := len(coords) / 3
	if nv < 3 {
		return nil, nil
	}

	indices, err := earcut.Earcut(coords, holes, 3)
	if err != nil {
		return nil, fmt.Errorf("%w: triangulation failed: %w", ErrMalformedPolygon, err)
	}

	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: triangulation returned %d indices", ErrMalformedPolygon, len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= nv {
			return nil, fmt.Errorf("%w: triangulation returned index %d for %d vertices",
				ErrMalformedPolygon, idx, nv)
		}
	}
	return indices, nil
}

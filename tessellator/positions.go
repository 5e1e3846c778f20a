// tessellator/positions.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tessellator

import (
	"github.com/mmp/polybuf/math"
	"github.com/mmp/polybuf/polygon"
)

// ringAccumulator fills in the next-position buffer while a ring is
// traversed. Each vertex's next position is only known once the
// following vertex is seen, and the ring's last vertex wraps around to
// its first, so the first vertex is held until the ring ends.
type ringAccumulator struct {
	next  []float64
	first polygon.Point
	// Global slot of the most recent vertex in the ring, or -1 if no
	// vertex has been added yet.
	prev int
}

func (r *ringAccumulator) begin() {
	r.prev = -1
}

func (r *ringAccumulator) add(slot int, p polygon.Point) {
	if r.prev == -1 {
		r.first = p
	} else {
		copy(r.next[3*r.prev:3*r.prev+3], p[:])
	}
	r.prev = slot
}

// flush closes the ring.
func (r *ringAccumulator) flush() {
	if r.prev != -1 {
		copy(r.next[3*r.prev:3*r.prev+3], r.first[:])
	}
	r.prev = -1
}

// fillPositions writes every vertex of polys, polygon by polygon and then
// ring by ring with the outer ring first. low and next are optional.
func fillPositions(polys []polygon.Complex, pos []float64, low []float32, next []float64) {
	acc := ringAccumulator{next: next}
	slot := 0
	for i := range polys {
		for _, ring := range polys[i].Rings {
			acc.begin()
			for _, p := range ring {
				copy(pos[3*slot:3*slot+3], p[:])
				if low != nil {
					low[2*slot] = math.Fp64LowPart(p[0])
					low[2*slot+1] = math.Fp64LowPart(p[1])
				}
				if next != nil {
					acc.add(slot, p)
				}
				slot++
			}
			if next != nil {
				acc.flush()
			}
		}
	}
}

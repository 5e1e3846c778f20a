// tessellator/config.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tessellator

import (
	"fmt"
	gomath "math"

	"github.com/mmp/polybuf/log"
	"github.com/mmp/polybuf/polygon"
)

// IndexWidth is the integer type used for the index buffer.
type IndexWidth int

const (
	IndexUint32 IndexWidth = iota
	IndexUint16
)

func (w IndexWidth) String() string {
	switch w {
	case IndexUint32:
		return "uint32"
	case IndexUint16:
		return "uint16"
	default:
		return fmt.Sprintf("IndexWidth(%d)", int(w))
	}
}

// Bytes returns the size of a single index.
func (w IndexWidth) Bytes() int {
	if w == IndexUint16 {
		return 2
	}
	return 4
}

// MaxVertices returns the largest vertex count that can be indexed with
// indices of width w.
func (w IndexWidth) MaxVertices() uint64 {
	if w == IndexUint16 {
		return gomath.MaxUint16
	}
	return gomath.MaxUint32
}

// ParseIndexWidth returns the IndexWidth for a bit count of 16 or 32.
func ParseIndexWidth(bits int) (IndexWidth, error) {
	switch bits {
	case 16:
		return IndexUint16, nil
	case 32:
		return IndexUint32, nil
	default:
		return 0, fmt.Errorf("%d: invalid index width; must be 16 or 32", bits)
	}
}

// ElevationFunc returns the extrusion height of the polygon with the
// given index.
type ElevationFunc func(polygonIndex int) float64

// Color is an RGBA color with components in [0,255]. A NaN alpha is
// treated as fully opaque.
type Color [4]float64

// ColorFunc returns the color of the polygon with the given index.
type ColorFunc func(polygonIndex int) Color

const DefaultElevation = 100

var DefaultColor = Color{0, 0, 0, 255}

func ConstantElevation(e float64) ElevationFunc {
	return func(int) float64 { return e }
}

func ConstantColor(c Color) ColorFunc {
	return func(int) Color { return c }
}

// PositionOptions selects the optional position buffers.
type PositionOptions struct {
	// FP64 enables the low-part buffer for emulated double precision.
	FP64 bool
	// Extruded enables the next-position buffer used for side walls.
	Extruded bool
	// Wireframe requests line rendering; it cannot be combined with
	// Extruded.
	Wireframe bool
}

func (o PositionOptions) validate() error {
	if o.Wireframe && o.Extruded {
		return ErrWireframeUnsupported
	}
	return nil
}

// Config holds every option that New recognizes. The zero value is
// valid; unset fields take the defaults noted below.
type Config struct {
	// IndexWidth defaults to IndexUint32.
	IndexWidth IndexWidth
	// Positions defaults to single precision without extrusion.
	Positions PositionOptions
	// GetElevation defaults to ConstantElevation(DefaultElevation).
	GetElevation ElevationFunc
	// GetColor defaults to ConstantColor(DefaultColor).
	GetColor ColorFunc
	// Triangulator caches polygon triangulations across geometry
	// updates. If nil, polygons are triangulated without caching.
	Triangulator *polygon.Triangulator
	// Logger may be nil.
	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.GetElevation == nil {
		c.GetElevation = ConstantElevation(DefaultElevation)
	}
	if c.GetColor == nil {
		c.GetColor = ConstantColor(DefaultColor)
	}
	return c
}

func (c Config) validate() error {
	if c.IndexWidth != IndexUint16 && c.IndexWidth != IndexUint32 {
		return fmt.Errorf("%s: invalid index width", c.IndexWidth)
	}
	return c.Positions.validate()
}

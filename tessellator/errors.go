// tessellator/errors.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tessellator

import (
	"errors"
)

var (
	ErrIndexCapacity        = errors.New("vertex count exceeds index width capacity")
	ErrPickingCapacity      = errors.New("polygon count exceeds picking color capacity")
	ErrWireframeUnsupported = errors.New("wireframe rendering of extruded polygons is not supported")
)

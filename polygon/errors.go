// polygon/errors.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package polygon

import (
	"errors"
	"strings"
)

var (
	ErrMalformedPolygon    = errors.New("malformed polygon")
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")
)

// NormalizeError reports all of the malformed polygons found in a
// collection. Each message is prefixed with the index of the polygon it
// refers to.
type NormalizeError struct {
	Messages []string
	errs     []error
}

func (e *NormalizeError) Error() string {
	return strings.Join(e.Messages, "\n")
}

func (e *NormalizeError) Unwrap() []error {
	return append([]error{ErrMalformedPolygon}, e.errs...)
}

// cmd/polybuf/properties.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"github.com/mmp/polybuf/polygon"
	"github.com/mmp/polybuf/tessellator"
	"github.com/mmp/polybuf/util"
)

// parseColor parses a color given as "#rrggbb" or "#rrggbbaa" (the '#' is
// optional). If alpha is not given, it is returned as NaN, which the
// tessellator treats as opaque.
func parseColor(s string) (tessellator.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return tessellator.Color{}, fmt.Errorf("%q: expected #rrggbb or #rrggbbaa", s)
	}

	c := tessellator.Color{0, 0, 0, gomath.NaN()}
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return tessellator.Color{}, fmt.Errorf("%q: %w", s, err)
		}
		c[i] = float64(v)
	}
	return c, nil
}

// colorFromProperty converts a GeoJSON property value to a color: either
// a string handled by parseColor or an array of 3 or 4 numbers.
func colorFromProperty(v any) (tessellator.Color, error) {
	switch v := v.(type) {
	case string:
		return parseColor(v)

	case []any:
		if len(v) != 3 && len(v) != 4 {
			return tessellator.Color{}, fmt.Errorf("%d color components given; expected 3 or 4", len(v))
		}
		c := tessellator.Color{0, 0, 0, gomath.NaN()}
		for i, comp := range v {
			f, ok := comp.(float64)
			if !ok {
				return tessellator.Color{}, fmt.Errorf("color component %v is not a number", comp)
			}
			c[i] = f
		}
		return c, nil

	default:
		return tessellator.Color{}, fmt.Errorf("%v: unexpected color type %T", v, v)
	}
}

// featureColors returns the color of each feature, taken from the given
// property if present and the default otherwise.
func featureColors(features []polygon.Feature, property string, def tessellator.Color,
	e *util.ErrorLogger) []tessellator.Color {
	colors := make([]tessellator.Color, len(features))
	for i, f := range features {
		colors[i] = def
		if v, ok := f.Properties[property]; ok && v != nil {
			var err error
			if colors[i], err = colorFromProperty(v); err != nil {
				e.ErrorString("feature %d: %s: %v", f.FeatureIndex, property, err)
			}
		}
	}
	return colors
}

// featureElevations returns the scaled elevation of each feature, taken
// from the given property if present and the default otherwise.
func featureElevations(features []polygon.Feature, property string, def, scale float64,
	e *util.ErrorLogger) []float64 {
	elevations := make([]float64, len(features))
	for i, f := range features {
		elevations[i] = def
		if v, ok := f.Properties[property]; ok && v != nil {
			if el, ok := v.(float64); ok {
				elevations[i] = el
			} else {
				e.ErrorString("feature %d: %s: %v is not a number", f.FeatureIndex, property, v)
			}
		}
		elevations[i] *= scale
	}
	return elevations
}

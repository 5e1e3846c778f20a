// cmd/polybuf/config.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"os"

	"github.com/mmp/polybuf/polygon"
	"github.com/mmp/polybuf/tessellator"
	"github.com/mmp/polybuf/util"
)

// Config is the JSON configuration file format. Command-line flags
// override the corresponding settings.
type Config struct {
	IndexBits         int     `json:"index_bits"`
	FP64              bool    `json:"fp64"`
	Extruded          bool    `json:"extruded"`
	ElevationProperty string  `json:"elevation_property"`
	ColorProperty     string  `json:"color_property"`
	DefaultElevation  float64 `json:"default_elevation"`
	DefaultColor      string  `json:"default_color"`
	ElevationScale    float64 `json:"elevation_scale"`
	CacheSize         int     `json:"triangulation_cache_size"`
}

func defaultConfig() Config {
	return Config{
		IndexBits:         32,
		ElevationProperty: "elevation",
		ColorProperty:     "color",
		DefaultElevation:  tessellator.DefaultElevation,
		DefaultColor:      "#000000ff",
		ElevationScale:    1,
		CacheSize:         polygon.DefaultTriangulationCacheSize,
	}
}

// loadConfig returns the default configuration updated with the settings
// in the given file. Problems with the file are reported to e.
func loadConfig(path string, e *util.ErrorLogger) Config {
	cfg := defaultConfig()
	if path == "" {
		return cfg
	}

	e.Push(path)
	defer e.Pop()

	contents, err := os.ReadFile(path)
	if err != nil {
		e.Error(err)
		return cfg
	}

	util.CheckJSON[Config](contents, e)
	if e.HaveErrors() {
		return cfg
	}
	if err := util.UnmarshalJSONBytes(contents, &cfg); err != nil {
		e.Error(err)
	}
	return cfg
}

// validate checks the configuration and returns the corresponding
// tessellator settings.
func (c Config) validate(e *util.ErrorLogger) (tessellator.IndexWidth, tessellator.Color) {
	w, err := tessellator.ParseIndexWidth(c.IndexBits)
	if err != nil {
		e.Error(err)
	}

	color, err := parseColor(c.DefaultColor)
	if err != nil {
		e.ErrorString("default_color: %v", err)
	}

	if c.CacheSize < 0 {
		e.ErrorString("triangulation_cache_size: %d: must be non-negative", c.CacheSize)
	}

	return w, color
}

func (c Config) String() string {
	return fmt.Sprintf("index=%d fp64=%v extruded=%v elevation=%q color=%q", c.IndexBits, c.FP64, c.Extruded,
		c.ElevationProperty, c.ColorProperty)
}

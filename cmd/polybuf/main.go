// cmd/polybuf/main.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// polybuf reads polygons from GeoJSON files and writes the GPU buffers
// built for them, along with a JSON manifest describing the buffers.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmp/polybuf/log"
	"github.com/mmp/polybuf/polygon"
	"github.com/mmp/polybuf/renderer"
	"github.com/mmp/polybuf/snapshot"
	"github.com/mmp/polybuf/tessellator"
	"github.com/mmp/polybuf/util"

	"github.com/goforj/godump"
	"golang.org/x/sync/errgroup"
)

var (
	configFile = flag.String("config", "", "JSON configuration file")
	indexBits  = flag.Int("index", 32, "index buffer width in bits (16 or 32)")
	fp64       = flag.Bool("fp64", false, "write low parts for emulated double precision positions")
	extruded   = flag.Bool("extruded", false, "write next positions for extruded side walls")
	outDir     = flag.String("out", ".", "output directory")
	logLevel   = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir     = flag.String("logdir", "", "log file directory")
	dump       = flag.Bool("dump", false, "print buffer statistics for each file")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: polybuf [flags] file.geojson...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	lg := log.New(*logLevel, *logDir)

	var e util.ErrorLogger
	cfg := loadConfig(*configFile, &e)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "index":
			cfg.IndexBits = *indexBits
		case "fp64":
			cfg.FP64 = *fp64
		case "extruded":
			cfg.Extruded = *extruded
		}
	})
	width, defaultColor := cfg.validate(&e)
	if e.HaveErrors() {
		e.PrintErrors(os.Stderr, lg)
		os.Exit(1)
	}
	lg.Info("starting", slog.String("config", cfg.String()), slog.Int("files", flag.NArg()))

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	p := processor{
		cfg:          cfg,
		width:        width,
		defaultColor: defaultColor,
		tri:          polygon.NewTriangulator(cfg.CacheSize),
		outDir:       *outDir,
		lg:           lg,
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	results := make([]*result, flag.NArg())
	for i, path := range flag.Args() {
		eg.Go(func() error {
			r, err := p.process(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Printf("%s: %d polygons, %d points, %d triangles -> %s\n", r.path, r.stats.Polygons, r.stats.Points,
			r.stats.Triangles, r.snapshotPath)
		if *dump {
			godump.Dump(r.stats)
			fmt.Println(r.render.String())
		}
	}
}

type processor struct {
	cfg          Config
	width        tessellator.IndexWidth
	defaultColor tessellator.Color
	tri          *polygon.Triangulator
	outDir       string
	lg           *log.Logger
}

type result struct {
	path         string
	snapshotPath string
	stats        tessellator.Stats
	render       renderer.RendererStats
}

// process builds the buffers for a single GeoJSON file and writes its
// snapshot and manifest.
func (p *processor) process(path string) (*result, error) {
	lg := p.lg.With(slog.String("file", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	features, skipped, err := polygon.DecodeGeoJSON(data)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		lg.Infof("skipped %d non-polygon features", skipped)
	}

	var e util.ErrorLogger
	colors := featureColors(features, p.cfg.ColorProperty, p.defaultColor, &e)
	elevations := featureElevations(features, p.cfg.ElevationProperty, p.cfg.DefaultElevation,
		p.cfg.ElevationScale, &e)
	if e.HaveErrors() {
		return nil, fmt.Errorf("%s", e.String())
	}

	tess, err := tessellator.New(polygon.Polygons(features), tessellator.Config{
		IndexWidth:   p.width,
		Positions:    tessellator.PositionOptions{FP64: p.cfg.FP64, Extruded: p.cfg.Extruded},
		GetElevation: func(i int) float64 { return elevations[i] },
		GetColor:     func(i int) tessellator.Color { return colors[i] },
		Triangulator: p.tri,
		Logger:       lg,
	})
	if err != nil {
		return nil, err
	}

	render, err := p.checkCommands(tess)
	if err != nil {
		return nil, err
	}

	s := snapshot.Capture(tess)
	base := filepath.Join(p.outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	r := &result{
		path:         path,
		snapshotPath: base + ".polybuf.msgpack.zst",
		stats:        tess.Stats(),
		render:       render,
	}

	if err := writeSnapshot(r.snapshotPath, s); err != nil {
		return nil, err
	}
	manifest, err := json.MarshalIndent(s.Manifest(), "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(base+".manifest.json", manifest, 0644); err != nil {
		return nil, err
	}

	lg.Info("wrote buffers", slog.Any("stats", r.stats), slog.Any("render", render))
	return r, nil
}

// checkCommands encodes the surface and side wall draw commands for
// tess and verifies them.
func (p *processor) checkCommands(tess *tessellator.Tessellator) (renderer.RendererStats, error) {
	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	pd := renderer.GetPolygonDrawBuilder()
	defer renderer.ReturnPolygonDrawBuilder(pd)
	pd.AddTessellation(tess)
	pd.GenerateCommands(cb)

	if p.cfg.Extruded {
		sw := renderer.GetSideWallDrawBuilder()
		defer renderer.ReturnSideWallDrawBuilder(sw)
		if err := sw.AddTessellation(tess); err != nil {
			return renderer.RendererStats{}, err
		}
		sw.GenerateCommands(cb)
	}

	return renderer.Inspect(cb)
}

func writeSnapshot(path string, s *snapshot.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := snapshot.Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command depthdemo runs synthetic depth frames through a depthmesh
// pipeline and saves the last frame as a shaded PNG preview.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/depthmesh"
	"github.com/gogpu/depthmesh/internal/synth"
	"github.com/gogpu/depthmesh/preview"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		width      = flag.Int("width", 800, "preview width")
		height     = flag.Int("height", 600, "preview height")
		output     = flag.String("output", "depthmesh.png", "output file")
		frames     = flag.Int("frames", 30, "frames to process")
		factor     = flag.Int("factor", 1, "downsample factor")
		threshold  = flag.Float64("threshold", depthmesh.DefaultTriangleThreshold, "triangle depth threshold")
		mode       = flag.String("mode", "pruned", "pruned or unpruned")
		normals    = flag.Bool("normals", false, "compute vertex normals")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	depthmesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s := defaultSettings()
	if *configPath != "" {
		var err error
		if s, err = loadFile(s, *configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Flags given on the command line win over the file.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			s.width = *width
		case "height":
			s.height = *height
		case "output":
			s.output = *output
		case "frames":
			s.frames = *frames
		case "factor":
			s.pipeline.DownsampleFactor = *factor
		case "threshold":
			s.pipeline.TriangleThreshold = float32(*threshold)
		case "mode":
			m, err := depthmesh.ParseMode(*mode)
			if err != nil {
				flagErr = err
			}
			s.pipeline.Mode = m
		case "normals":
			s.pipeline.Normals = *normals
		}
	})
	if flagErr != nil {
		log.Fatalf("Invalid flag: %v", flagErr)
	}

	stats, err := run(s)
	if err != nil {
		log.Fatalf("depthdemo: %v", err)
	}
	log.Printf("Preview saved to %s (%dx%d), %s\n", s.output, s.width, s.height, summary(stats))
}

// run processes s.frames synthetic frames and writes the preview.
func run(s settings) (depthmesh.Stats, error) {
	scene := synth.KinectScene()
	src, err := synth.NewSource(scene)
	if err != nil {
		return depthmesh.Stats{}, err
	}
	r, err := preview.New(s.width, s.height, preview.WithBands(s.bands))
	if err != nil {
		return depthmesh.Stats{}, err
	}
	p, err := depthmesh.NewPipeline(s.pipeline, r, depthmesh.WithMapper(scene.Mapper(12)))
	if err != nil {
		return depthmesh.Stats{}, err
	}

	for range s.frames {
		if err := p.ProcessFrame(src.Next()); err != nil {
			return p.Stats(), err
		}
	}
	if err := r.SavePNG(s.output); err != nil {
		return p.Stats(), err
	}
	return p.Stats(), nil
}

func summary(st depthmesh.Stats) string {
	return fmt.Sprintf("%d frames, %d tiles, %d/%d triangles active",
		st.Seq, st.Tiles, st.ActiveTriangles, st.DefaultTriangles)
}

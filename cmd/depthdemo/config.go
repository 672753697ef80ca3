// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/depthmesh"
)

// fileConfig is the TOML layout of a -config file. Omitted keys keep their
// defaults.
type fileConfig struct {
	Pipeline struct {
		MaxVerticesPerTile int     `toml:"max_vertices_per_tile"`
		DownsampleFactor   int     `toml:"downsample_factor"`
		TriangleThreshold  float32 `toml:"triangle_threshold"`
		DepthScale         float64 `toml:"depth_scale"`
		FarDepth           uint16  `toml:"far_depth"`
		Mode               string  `toml:"mode"`
		Normals            bool    `toml:"normals"`
	} `toml:"pipeline"`

	Preview struct {
		Width  int    `toml:"width"`
		Height int    `toml:"height"`
		Bands  int    `toml:"bands"`
		Output string `toml:"output"`
	} `toml:"preview"`

	Frames int `toml:"frames"`
}

// settings is everything main needs to run.
type settings struct {
	pipeline depthmesh.Config
	width    int
	height   int
	bands    int
	output   string
	frames   int
}

func defaultSettings() settings {
	return settings{
		pipeline: depthmesh.DefaultConfig(),
		width:    800,
		height:   600,
		bands:    8,
		output:   "depthmesh.png",
		frames:   30,
	}
}

// loadFile applies the TOML file at path on top of s.
func loadFile(s settings, path string) (settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return s, err
	}
	return decode(s, data)
}

func decode(s settings, data []byte) (settings, error) {
	var fc fileConfig
	fc.Pipeline.MaxVerticesPerTile = s.pipeline.MaxVerticesPerTile
	fc.Pipeline.DownsampleFactor = s.pipeline.DownsampleFactor
	fc.Pipeline.TriangleThreshold = s.pipeline.TriangleThreshold
	fc.Pipeline.DepthScale = s.pipeline.DepthScale
	fc.Pipeline.FarDepth = s.pipeline.FarDepth
	fc.Pipeline.Mode = s.pipeline.Mode.String()
	fc.Pipeline.Normals = s.pipeline.Normals
	fc.Preview.Width = s.width
	fc.Preview.Height = s.height
	fc.Preview.Bands = s.bands
	fc.Preview.Output = s.output
	fc.Frames = s.frames

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return s, fmt.Errorf("depthdemo: config: %w", err)
	}

	mode, err := depthmesh.ParseMode(fc.Pipeline.Mode)
	if err != nil {
		return s, fmt.Errorf("depthdemo: config: %w", err)
	}
	s.pipeline = depthmesh.Config{
		MaxVerticesPerTile: fc.Pipeline.MaxVerticesPerTile,
		DownsampleFactor:   fc.Pipeline.DownsampleFactor,
		TriangleThreshold:  fc.Pipeline.TriangleThreshold,
		DepthScale:         fc.Pipeline.DepthScale,
		FarDepth:           fc.Pipeline.FarDepth,
		Mode:               mode,
		Normals:            fc.Pipeline.Normals,
	}
	s.width = fc.Preview.Width
	s.height = fc.Preview.Height
	s.bands = fc.Preview.Bands
	s.output = fc.Preview.Output
	s.frames = fc.Frames
	return s, s.pipeline.Validate()
}

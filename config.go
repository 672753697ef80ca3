// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import (
	"fmt"

	"github.com/gogpu/depthmesh/depth"
)

// Default configuration values.
const (
	// DefaultMaxVerticesPerTile sits just under a 65535 per-draw vertex
	// ceiling and is a multiple of 3.
	DefaultMaxVerticesPerTile = 64998

	DefaultTriangleThreshold = 20
	DefaultDepthScale        = 0.2

	// DefaultFarDepth is the far distance, in millimeters, substituted for
	// pixels without a depth reading.
	DefaultFarDepth = 4500
)

// Config holds the fixed parameters of a Pipeline.
type Config struct {
	// MaxVerticesPerTile bounds the vertex count of every tile.
	MaxVerticesPerTile int

	// DownsampleFactor averages Factor x Factor depth blocks into one
	// vertex. 1 keeps full resolution.
	DownsampleFactor int

	// TriangleThreshold is the largest |dz| a triangle may span and still
	// be drawn, in world units.
	TriangleThreshold float32

	// DepthScale converts raw depth units to world units.
	DepthScale float64

	// FarDepth replaces raw samples of 0 and defines the rest plane z = 0.
	FarDepth uint16

	// Mode selects pruned or unpruned output.
	Mode Mode

	// Normals enables per-vertex normal computation after pruning.
	Normals bool
}

// DefaultConfig returns the configuration used by the tiled depth viewer.
func DefaultConfig() Config {
	return Config{
		MaxVerticesPerTile: DefaultMaxVerticesPerTile,
		DownsampleFactor:   1,
		TriangleThreshold:  DefaultTriangleThreshold,
		DepthScale:         DefaultDepthScale,
		FarDepth:           DefaultFarDepth,
		Mode:               ModePruned,
	}
}

// Validate reports the first unusable field, wrapped in ErrInvalidConfig.
// Grid-dependent limits (width against MaxVerticesPerTile) are checked
// when the topology is built.
func (c Config) Validate() error {
	switch {
	case c.MaxVerticesPerTile < 1:
		return fmt.Errorf("%w: MaxVerticesPerTile=%d", ErrInvalidConfig, c.MaxVerticesPerTile)
	case c.DownsampleFactor < 1:
		return fmt.Errorf("%w: DownsampleFactor=%d", ErrInvalidConfig, c.DownsampleFactor)
	case !(c.TriangleThreshold > 0):
		return fmt.Errorf("%w: TriangleThreshold=%v", ErrInvalidConfig, c.TriangleThreshold)
	case !c.sampler().IsFinite():
		return fmt.Errorf("%w: DepthScale=%v", ErrInvalidConfig, c.DepthScale)
	case c.FarDepth == 0:
		return fmt.Errorf("%w: FarDepth must be non-zero", ErrInvalidConfig)
	case !c.Mode.valid():
		return fmt.Errorf("%w: Mode=%d", ErrInvalidConfig, c.Mode)
	}
	return nil
}

func (c Config) sampler() depth.Sampler {
	return depth.Sampler{
		Factor: c.DownsampleFactor,
		Far:    c.FarDepth,
		Scale:  c.DepthScale,
	}
}

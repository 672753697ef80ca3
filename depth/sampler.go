// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package depth converts raw depth-camera samples into surface offsets.
//
// A raw sample is an unsigned 16-bit distance in millimeters; 0 means the
// sensor produced no reading for that pixel. Before any arithmetic a 0 is
// replaced with the configured far distance, so a dropout reads as "far
// away" instead of "touching the lens".
package depth

import (
	"errors"
	"fmt"
	"math"
)

// NoReading is the raw sample value that marks a pixel without data.
const NoReading uint16 = 0

var (
	// ErrInvalidFactor is returned for a downsample factor below 1.
	ErrInvalidFactor = errors.New("depth: downsample factor must be >= 1")

	// ErrGridTooSmall is returned when the source is smaller than one block.
	ErrGridTooSmall = errors.New("depth: source smaller than one downsample block")
)

// Sampler block-averages a depth buffer and maps each average to a z offset:
//
//	z = (avg - Far) * Scale
//
// so a surface at the far distance, including every no-reading pixel,
// rests at z = 0 and nearer surfaces have negative z.
type Sampler struct {
	// Factor is the edge length of the averaged block. 1 disables
	// downsampling but still substitutes no-reading samples.
	Factor int

	// Far replaces NoReading samples before averaging.
	Far uint16

	// Scale converts raw depth units to world units.
	Scale float64
}

// Validate checks the sampler parameters.
func (s Sampler) Validate() error {
	if s.Factor < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidFactor, s.Factor)
	}
	return nil
}

// GridSize returns the dimensions of the downsampled grid for a
// width x height source. Partial blocks at the right and bottom edges are
// dropped.
func (s Sampler) GridSize(width, height int) (int, int, error) {
	if err := s.Validate(); err != nil {
		return 0, 0, err
	}
	gw, gh := width/s.Factor, height/s.Factor
	if gw < 1 || gh < 1 {
		return 0, 0, fmt.Errorf("%w: %dx%d source, factor %d", ErrGridTooSmall, width, height, s.Factor)
	}
	return gw, gh, nil
}

// sample returns raw with NoReading replaced by far.
func sample(raw, far uint16) float64 {
	if raw == NoReading {
		return float64(far)
	}
	return float64(raw)
}

// BlockAverage returns the mean of the Factor x Factor block whose top-left
// source pixel is (x, y) in a row-major buffer of the given width, with
// NoReading samples counted as Far.
func (s Sampler) BlockAverage(src []uint16, width, x, y int) float64 {
	f := s.Factor
	if f == 1 {
		return sample(src[y*width+x], s.Far)
	}
	sum := 0.0
	for y1 := y; y1 < y+f; y1++ {
		row := src[y1*width+x : y1*width+x+f]
		for _, v := range row {
			sum += sample(v, s.Far)
		}
	}
	return sum / float64(f*f)
}

// Z maps a (substituted, averaged) depth value to a surface offset.
func (s Sampler) Z(avg float64) float32 {
	return float32(avg*s.Scale - float64(s.Far)*s.Scale)
}

// RestZ is the z offset of the far plane, where no-reading pixels land.
func (s Sampler) RestZ() float32 { return s.Z(float64(s.Far)) }

// Sample fills dst with one z offset per downsampled grid pixel, row-major
// over GridSize(width, height). dst must hold at least gw*gh values; src
// must hold width*height samples. Sample does not allocate.
func (s Sampler) Sample(dst []float32, src []uint16, width, height int) error {
	gw, gh, err := s.GridSize(width, height)
	if err != nil {
		return err
	}
	if len(src) < width*height {
		return fmt.Errorf("depth: source has %d samples, want %d", len(src), width*height)
	}
	if len(dst) < gw*gh {
		return fmt.Errorf("depth: destination has %d values, want %d", len(dst), gw*gh)
	}
	f := s.Factor
	for gy := 0; gy < gh; gy++ {
		out := dst[gy*gw : (gy+1)*gw]
		for gx := range out {
			out[gx] = s.Z(s.BlockAverage(src, width, gx*f, gy*f))
		}
	}
	return nil
}

// IsFinite reports whether the scale is usable.
func (s Sampler) IsFinite() bool {
	return s.Scale > 0 && !math.IsInf(s.Scale, 0) && !math.IsNaN(s.Scale)
}

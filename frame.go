// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import (
	"fmt"

	"github.com/gogpu/depthmesh/mesh"
)

// ColorPoint is a depth pixel's position in color-image pixel space.
type ColorPoint = mesh.ColorPoint

// Frame is one depth capture handed to Pipeline.ProcessFrame.
//
// The pipeline reads Depth and ColorPoints during the call and keeps no
// reference to them afterwards.
type Frame struct {
	// Depth holds Width*Height raw samples, row-major, in millimeters.
	// 0 means no reading.
	Depth  []uint16
	Width  int
	Height int

	// ColorPoints optionally maps every depth pixel to color space. When
	// nil, the pipeline's CoordinateMapper is used.
	ColorPoints []ColorPoint

	// ColorWidth and ColorHeight are the color image dimensions used to
	// normalize color points into UVs.
	ColorWidth  int
	ColorHeight int

	// Texture is an opaque reference to the color image. It is passed
	// through to the sink untouched.
	Texture any
}

// validate checks buffer lengths against the declared dimensions.
func (f *Frame) validate(haveMapper bool) error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrMalformedFrame)
	}
	if f.Width < 1 || f.Height < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedFrame, f.Width, f.Height)
	}
	n := f.Width * f.Height
	if len(f.Depth) != n {
		return fmt.Errorf("%w: depth has %d samples, want %dx%d=%d", ErrMalformedFrame, len(f.Depth), f.Width, f.Height, n)
	}
	if f.ColorPoints != nil && len(f.ColorPoints) != n {
		return fmt.Errorf("%w: %d color points, want %d", ErrMalformedFrame, len(f.ColorPoints), n)
	}
	if f.ColorPoints == nil && !haveMapper {
		return fmt.Errorf("%w: no color points and no coordinate mapper", ErrMalformedFrame)
	}
	if f.ColorWidth < 1 || f.ColorHeight < 1 {
		return fmt.Errorf("%w: color dimensions %dx%d", ErrMalformedFrame, f.ColorWidth, f.ColorHeight)
	}
	return nil
}

// CoordinateMapper maps depth pixels to color-image space. It is supplied
// by the camera platform; depthmesh never implements the projection.
type CoordinateMapper interface {
	// MapDepthToColor fills out[i] with the color-space position of depth
	// pixel i for a width x height frame. len(out) == len(depth).
	MapDepthToColor(depth []uint16, width, height int, out []ColorPoint) error
}

// MapperFunc adapts a per-pixel mapping function to CoordinateMapper.
type MapperFunc func(index int) (x, y float32)

// MapDepthToColor calls f for every pixel.
func (f MapperFunc) MapDepthToColor(depth []uint16, width, height int, out []ColorPoint) error {
	n := width * height
	if len(out) < n {
		return fmt.Errorf("depthmesh: mapper output has %d points, want %d", len(out), n)
	}
	for i := range out[:n] {
		x, y := f(i)
		out[i] = ColorPoint{X: x, Y: y}
	}
	return nil
}

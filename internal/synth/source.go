// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package synth generates synthetic depth frames for demos and tests: a
// flat back wall with a round foreground object that moves on a Lissajous
// path. The object casts a dropout shadow on one side, and a sparse pattern
// of dropouts is sprinkled over the whole frame, the way structured-light
// sensors lose pixels.
package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/depthmesh"
)

// ErrInvalidScene is returned for unusable scene parameters.
var ErrInvalidScene = errors.New("synth: invalid scene")

// domeHeight is how far the disc center bulges toward the camera, in
// millimeters.
const domeHeight = 40

// Scene describes the generated frames. Depths are in millimeters.
type Scene struct {
	Width, Height           int
	ColorWidth, ColorHeight int

	// Wall is the depth of the background plane.
	Wall uint16
	// Object is the depth of the foreground disc rim. It must exceed the
	// dome height so the disc center still reads as a valid depth.
	Object uint16
	// Radius is the disc radius as a fraction of the frame height.
	Radius float64
	// Shadow is the width of the dropout band on the right of the disc,
	// in pixels.
	Shadow int
	// DropoutEvery makes roughly one in DropoutEvery pixels read 0. Zero
	// disables sparse dropouts.
	DropoutEvery int
}

// KinectScene returns a scene with 512x424 depth and 1920x1080 color
// frames.
func KinectScene() Scene {
	return Scene{
		Width:        512,
		Height:       424,
		ColorWidth:   1920,
		ColorHeight:  1080,
		Wall:         2500,
		Object:       1200,
		Radius:       0.18,
		Shadow:       6,
		DropoutEvery: 97,
	}
}

// Validate checks the scene parameters.
func (s Scene) Validate() error {
	switch {
	case s.Width < 1 || s.Height < 1:
		return fmt.Errorf("%w: depth size %dx%d", ErrInvalidScene, s.Width, s.Height)
	case s.ColorWidth < 1 || s.ColorHeight < 1:
		return fmt.Errorf("%w: color size %dx%d", ErrInvalidScene, s.ColorWidth, s.ColorHeight)
	case s.Object <= domeHeight:
		return fmt.Errorf("%w: object depth %d must exceed %d", ErrInvalidScene, s.Object, domeHeight)
	case s.Radius < 0 || s.Shadow < 0 || s.DropoutEvery < 0:
		return fmt.Errorf("%w: negative radius, shadow or dropout rate", ErrInvalidScene)
	}
	return nil
}

// Source produces one frame per Next call. It reuses a single depth
// buffer, so a frame is only valid until the next call.
type Source struct {
	scene Scene
	frame depthmesh.Frame
	tick  int
}

// NewSource validates s and returns a Source at tick 0.
func NewSource(s Scene) (*Source, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Source{
		scene: s,
		frame: depthmesh.Frame{
			Depth:       make([]uint16, s.Width*s.Height),
			Width:       s.Width,
			Height:      s.Height,
			ColorWidth:  s.ColorWidth,
			ColorHeight: s.ColorHeight,
		},
	}, nil
}

// Scene returns the source's scene.
func (src *Source) Scene() Scene { return src.scene }

// Tick returns the number of frames produced so far.
func (src *Source) Tick() int { return src.tick }

// Center returns the disc center, in pixels, at the given tick.
func (s Scene) Center(tick int) (float64, float64) {
	t := float64(tick) / 30
	cx := float64(s.Width) * (0.5 + 0.25*math.Sin(t*1.3))
	cy := float64(s.Height) * (0.5 + 0.2*math.Sin(t*0.7+1))
	return cx, cy
}

// Next renders the next frame. The frame carries no color points; use
// Mapper to project it into color space.
func (src *Source) Next() *depthmesh.Frame {
	s := src.scene
	cx, cy := s.Center(src.tick)
	r := s.Radius * float64(s.Height)
	r2 := r * r
	shadow := r + float64(s.Shadow)

	for y := 0; y < s.Height; y++ {
		row := src.frame.Depth[y*s.Width : y*s.Width+s.Width]
		dy := float64(y) + 0.5 - cy
		for x := range row {
			dx := float64(x) + 0.5 - cx
			d2 := dx*dx + dy*dy
			switch {
			case r2 > 0 && d2 <= r2:
				// Slight dome so the object is not a flat cut-out.
				row[x] = s.Object - uint16(domeHeight*(1-d2/r2))
			case dx > 0 && d2 <= shadow*shadow && math.Abs(dy) < r:
				row[x] = 0
			default:
				row[x] = s.Wall
			}
			if s.DropoutEvery > 0 && dropout(x, y, src.tick, s.DropoutEvery) {
				row[x] = 0
			}
		}
	}
	src.tick++
	return &src.frame
}

// dropout is a cheap deterministic per-pixel hash.
func dropout(x, y, tick, every int) bool {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(tick)*83492791
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return h%uint32(every) == 0
}

// Mapper returns a coordinate mapper that stretches the depth frame over
// the color frame, offset by parallax pixels to the right.
func (s Scene) Mapper(parallax float32) depthmesh.CoordinateMapper {
	sx := float32(s.ColorWidth) / float32(s.Width)
	sy := float32(s.ColorHeight) / float32(s.Height)
	w := s.Width
	return depthmesh.MapperFunc(func(i int) (float32, float32) {
		x, y := i%w, i/w
		return float32(x)*sx + parallax, float32(y) * sy
	})
}

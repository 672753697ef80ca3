// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import (
	"github.com/gogpu/depthmesh/grid"
	"github.com/gogpu/depthmesh/mesh"
)

// Sink consumes finished tile geometry.
//
// The pipeline owns every tile. A sink reads the tiles during Publish (or
// keeps the pointers and reads them between frames on the pipeline's
// goroutine) and never modifies them.
type Sink interface {
	// Rebuild is called each time the pipeline allocates a new set of
	// tiles, before the first Publish that uses them. Sinks create their
	// per-tile display objects here.
	Rebuild(topo grid.Topology, tiles []*mesh.Tile) error

	// Publish delivers one completed frame.
	Publish(out *Output) error
}

// Output is the result of one pipeline pass. The pipeline reuses the same
// Output value for every frame.
type Output struct {
	// Seq numbers published frames from 1.
	Seq uint64

	Topology grid.Topology
	Tiles    []*mesh.Tile

	// Texture, ColorWidth and ColorHeight are passed through from the Frame.
	Texture     any
	ColorWidth  int
	ColorHeight int

	Stats Stats
}

// SinkFuncs adapts a pair of functions to Sink. Nil fields are no-ops.
type SinkFuncs struct {
	RebuildFunc func(topo grid.Topology, tiles []*mesh.Tile) error
	PublishFunc func(out *Output) error
}

// Rebuild calls s.RebuildFunc.
func (s SinkFuncs) Rebuild(topo grid.Topology, tiles []*mesh.Tile) error {
	if s.RebuildFunc == nil {
		return nil
	}
	return s.RebuildFunc(topo, tiles)
}

// Publish calls s.PublishFunc.
func (s SinkFuncs) Publish(out *Output) error {
	if s.PublishFunc == nil {
		return nil
	}
	return s.PublishFunc(out)
}

// NopSink discards everything.
type NopSink struct{}

// Rebuild does nothing.
func (NopSink) Rebuild(grid.Topology, []*mesh.Tile) error { return nil }

// Publish does nothing.
func (NopSink) Publish(*Output) error { return nil }

var (
	_ Sink = SinkFuncs{}
	_ Sink = NopSink{}
)

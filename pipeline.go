// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/depthmesh/depth"
	"github.com/gogpu/depthmesh/grid"
	"github.com/gogpu/depthmesh/mesh"
)

// State is the lifecycle state of a Pipeline.
type State int

const (
	// StateUninitialized means no topology exists yet.
	StateUninitialized State = iota

	// StateReady means tiles are allocated for the current frame size.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Pipeline turns depth frames into tiled triangle meshes.
//
// Each accepted frame runs, in order: depth sampling, vertex update,
// triangle pruning (or reset, in ModeUnpruned), optional normals, publish.
// Tile buffers are allocated when the frame size is first seen or changes
// and are rewritten in place afterwards; the steady-state frame path does
// not allocate.
//
// A Pipeline processes one frame at a time. A frame that arrives while a
// pass is running, from another goroutine or from inside the sink, is
// dropped with ErrFrameDropped. Apart from that, methods other than Stats
// must be called from a single goroutine.
type Pipeline struct {
	cfg     Config
	sampler depth.Sampler
	sink    Sink
	mapper  CoordinateMapper
	log     *slog.Logger
	now     func() time.Time

	busy    atomic.Bool
	dropped atomic.Uint64
	skipped atomic.Uint64

	state    State
	srcW     int
	srcH     int
	topo     grid.Topology
	tiles    []*mesh.Tile
	z        []float32
	points   []ColorPoint
	spare    []ColorPoint
	src      mesh.Source
	out      Output
	seq      uint64
	hasFrame bool

	statsMu sync.Mutex
	stats   Stats
}

// NewPipeline validates cfg and returns a pipeline in StateUninitialized.
func NewPipeline(cfg Config, sink Sink, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, ErrNilSink
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return &Pipeline{
		cfg:     cfg,
		sampler: cfg.sampler(),
		sink:    sink,
		mapper:  o.mapper,
		log:     o.logger,
		now:     o.now,
	}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// State returns the current lifecycle state.
func (p *Pipeline) State() State { return p.state }

// Topology returns the current tile topology, or the zero Topology before
// the pipeline is ready.
func (p *Pipeline) Topology() grid.Topology { return p.topo }

// Tiles returns the current tiles. The slice and tiles are owned by the
// pipeline and must not be modified.
func (p *Pipeline) Tiles() []*mesh.Tile { return p.tiles }

// Stats returns the statistics of the last published frame together with
// the drop and skip counters. It is safe to call from any goroutine.
func (p *Pipeline) Stats() Stats {
	p.statsMu.Lock()
	s := p.stats
	p.statsMu.Unlock()
	s.Dropped = p.dropped.Load()
	s.Skipped = p.skipped.Load()
	return s
}

// Prepare builds the topology and tiles for width x height source frames
// without waiting for the first frame. Configuration errors, such as a
// frame too wide for the tile budget, are returned before any buffer is
// allocated and leave the pipeline uninitialized.
func (p *Pipeline) Prepare(width, height int) error {
	if !p.busy.CompareAndSwap(false, true) {
		return ErrFrameDropped
	}
	defer p.busy.Store(false)
	return p.rebuild(width, height)
}

func (p *Pipeline) rebuild(width, height int) error {
	if p.state == StateReady {
		p.log.Info("depthmesh: frame size changed, rebuilding tiles",
			"from", fmt.Sprintf("%dx%d", p.srcW, p.srcH),
			"to", fmt.Sprintf("%dx%d", width, height))
	}
	p.reset()

	gw, gh, err := p.sampler.GridSize(width, height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	topo, err := grid.Build(gw, gh, p.cfg.MaxVerticesPerTile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	tiles := mesh.Allocate(topo, p.cfg.Normals)
	if err := p.sink.Rebuild(topo, tiles); err != nil {
		return fmt.Errorf("depthmesh: sink rebuild: %w", err)
	}

	p.srcW, p.srcH = width, height
	p.topo = topo
	p.tiles = tiles
	p.z = make([]float32, gw*gh)
	p.points = make([]ColorPoint, width*height)
	p.spare = make([]ColorPoint, width*height)
	p.src = mesh.Source{
		Z:           p.z,
		SourceWidth: width,
		Factor:      p.cfg.DownsampleFactor,
	}
	p.out = Output{Topology: topo, Tiles: tiles}
	p.state = StateReady

	p.log.Info("depthmesh: topology built",
		"source", fmt.Sprintf("%dx%d", width, height),
		"grid", fmt.Sprintf("%dx%d", gw, gh),
		"tiles", topo.TileCount(),
		"rowsPerTile", topo.RowsPerTile,
		"vertices", topo.TotalVertices())
	return nil
}

// reset returns the pipeline to StateUninitialized and releases tiles.
func (p *Pipeline) reset() {
	p.state = StateUninitialized
	p.topo = grid.Topology{}
	p.tiles = nil
	p.z, p.points, p.spare = nil, nil, nil
	p.src = mesh.Source{}
	p.out = Output{}
	p.hasFrame = false
}

// ProcessFrame runs one frame through the pipeline and publishes the
// result to the sink.
//
// Errors:
//   - ErrFrameDropped: another pass is running; nothing changed.
//   - ErrMalformedFrame: the frame was skipped; tiles keep the previous
//     frame's geometry.
//   - ErrInvalidConfig: the frame size cannot be tiled; the pipeline is
//     left uninitialized.
//   - a wrapped sink error: the tiles hold the new frame, but Publish failed.
func (p *Pipeline) ProcessFrame(f *Frame) error {
	if !p.busy.CompareAndSwap(false, true) {
		p.dropped.Add(1)
		p.log.Warn("depthmesh: frame dropped, pipeline busy")
		return ErrFrameDropped
	}
	defer p.busy.Store(false)

	if err := f.validate(p.mapper != nil); err != nil {
		p.skip(err)
		return err
	}
	start := p.now()

	// Color points go to a spare buffer first so a failing mapper leaves
	// the retained frame, its tiles and the sink intact. A resized frame
	// maps into a fresh buffer before the old topology is torn down.
	resize := p.state != StateReady || f.Width != p.srcW || f.Height != p.srcH
	spare := p.spare
	if resize {
		spare = make([]ColorPoint, f.Width*f.Height)
	}
	if f.ColorPoints != nil {
		copy(spare, f.ColorPoints)
	} else if err := p.mapper.MapDepthToColor(f.Depth, f.Width, f.Height, spare); err != nil {
		err = fmt.Errorf("%w: coordinate mapper: %w", ErrMalformedFrame, err)
		p.skip(err)
		return err
	}
	if resize {
		if err := p.rebuild(f.Width, f.Height); err != nil {
			return err
		}
		p.spare = spare
	}
	p.points, p.spare = p.spare, p.points

	if err := p.sampler.Sample(p.z, f.Depth, f.Width, f.Height); err != nil {
		// Unreachable after validation; keep the frame out of the tiles.
		err = fmt.Errorf("%w: %w", ErrMalformedFrame, err)
		p.skip(err)
		return err
	}

	p.src.ColorPoints = p.points
	p.src.ColorWidth = f.ColorWidth
	p.src.ColorHeight = f.ColorHeight
	p.out.Texture = f.Texture
	p.out.ColorWidth = f.ColorWidth
	p.out.ColorHeight = f.ColorHeight
	p.hasFrame = true

	return p.pass(start)
}

// Reprocess reruns vertex update, pruning and publish on the last accepted
// frame. The result is identical to the previous pass.
func (p *Pipeline) Reprocess() error {
	if !p.busy.CompareAndSwap(false, true) {
		return ErrFrameDropped
	}
	defer p.busy.Store(false)
	if p.state != StateReady || !p.hasFrame {
		return ErrNotReady
	}
	return p.pass(p.now())
}

// pass runs every per-tile stage and publishes.
func (p *Pipeline) pass(start time.Time) error {
	for _, t := range p.tiles {
		t.Update(&p.src)
	}
	for _, t := range p.tiles {
		switch p.cfg.Mode {
		case ModeUnpruned:
			t.ResetActive()
		default:
			t.Prune(p.cfg.TriangleThreshold)
		}
	}
	if p.cfg.Normals {
		for _, t := range p.tiles {
			t.RecalculateNormals()
		}
	}

	p.seq++
	s := Stats{Seq: p.seq, Tiles: len(p.tiles)}
	for _, t := range p.tiles {
		s.Vertices += t.VertexCount()
		s.DefaultTriangles += len(t.DefaultTriangles()) / 3
		s.ActiveTriangles += t.TriangleCount()
	}
	s.Pruned = s.DefaultTriangles - s.ActiveTriangles
	s.Duration = p.now().Sub(start)
	s.Dropped = p.dropped.Load()
	s.Skipped = p.skipped.Load()

	p.statsMu.Lock()
	p.stats = s
	p.statsMu.Unlock()

	p.out.Seq = p.seq
	p.out.Stats = s
	if p.log.Enabled(context.Background(), slog.LevelDebug) {
		p.log.Debug("depthmesh: frame", "stats", s)
	}

	if err := p.sink.Publish(&p.out); err != nil {
		p.log.Warn("depthmesh: publish failed", "seq", p.seq, "err", err)
		return fmt.Errorf("depthmesh: publish frame %d: %w", p.seq, err)
	}
	return nil
}

func (p *Pipeline) skip(err error) {
	p.skipped.Add(1)
	p.log.Warn("depthmesh: frame skipped", "err", err)
}

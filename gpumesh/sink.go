// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpumesh

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/depthmesh"
	"github.com/gogpu/depthmesh/grid"
	"github.com/gogpu/depthmesh/mesh"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Common errors returned by Sink operations.
var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpumesh: nil DeviceProvider")

	// ErrNilWriter is returned when a nil BufferWriter is passed.
	ErrNilWriter = errors.New("gpumesh: nil BufferWriter")

	// ErrSinkClosed is returned when operations are attempted on a closed sink.
	ErrSinkClosed = errors.New("gpumesh: sink is closed")

	// ErrTileMismatch is returned when Publish receives tiles that were not
	// announced through Rebuild.
	ErrTileMismatch = errors.New("gpumesh: tiles do not match last rebuild")
)

// BufferWriter copies packed tile data into GPU buffers.
//
// The byte slices are only valid during the call.
type BufferWriter interface {
	// WriteTile uploads the vertices and indices of one tile. indexCount
	// is the number of indices to draw.
	WriteTile(tile int, vertices, indices []byte, indexCount int) error
}

// TileAllocator is implemented by writers that create fixed-size buffers
// up front. AllocateTile is called once per tile on every rebuild with the
// largest byte sizes WriteTile will receive.
type TileAllocator interface {
	AllocateTile(tile int, vertexSize, indexSize int) error
}

// bufferReleaser is implemented by writers that hold per-tile buffers.
type bufferReleaser interface {
	ReleaseTiles()
}

// Option configures a Sink.
type Option func(*sinkOptions)

type sinkOptions struct {
	logger *slog.Logger
}

// WithLogger sets the sink's logger. By default depthmesh.Logger() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *sinkOptions) {
		o.logger = l
	}
}

// Sink is a depthmesh.Sink that packs every tile into reusable staging
// buffers and hands them to a BufferWriter.
//
// Sink is NOT safe for concurrent use. It is driven by the pipeline's
// goroutine.
type Sink struct {
	provider gpucontext.DeviceProvider
	writer   BufferWriter
	log      *slog.Logger

	normals  bool
	vertices [][]byte
	indices  [][]byte
	texture  any
	frames   uint64
	closed   bool
}

var _ depthmesh.Sink = (*Sink)(nil)

// NewSink creates a Sink that uploads through writer on the device of
// provider. The provider should come from the host application's GPU
// context.
func NewSink(provider gpucontext.DeviceProvider, writer BufferWriter, opts ...Option) (*Sink, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if writer == nil {
		return nil, ErrNilWriter
	}
	var o sinkOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = depthmesh.Logger()
	}
	return &Sink{
		provider: provider,
		writer:   writer,
		log:      o.logger,
	}, nil
}

// Rebuild allocates staging buffers sized for the new topology. Buffers of
// the previous topology are released after in-flight GPU work completes.
func (s *Sink) Rebuild(topo grid.Topology, tiles []*mesh.Tile) error {
	if s.closed {
		return ErrSinkClosed
	}
	if s.vertices != nil {
		s.waitIdle()
		s.release()
	}

	s.normals = len(tiles) > 0 && tiles[0].Normals() != nil
	stride := Stride(s.normals)
	s.vertices = make([][]byte, len(tiles))
	s.indices = make([][]byte, len(tiles))

	alloc, _ := s.writer.(TileAllocator)
	for i := range tiles {
		vsize := topo.VertexCount(i) * stride
		isize := topo.TriangleIndexCount(i) * IndexSize
		s.vertices[i] = make([]byte, 0, vsize)
		s.indices[i] = make([]byte, 0, isize)
		if alloc != nil {
			if err := alloc.AllocateTile(i, vsize, isize); err != nil {
				s.release()
				return fmt.Errorf("gpumesh: allocate tile %d: %w", i, err)
			}
		}
	}

	s.log.Info("gpumesh: tile buffers allocated",
		"tiles", len(tiles),
		"stride", stride,
		"surfaceFormat", s.provider.SurfaceFormat())
	return nil
}

// Publish packs and uploads every tile of out.
func (s *Sink) Publish(out *depthmesh.Output) error {
	if s.closed {
		return ErrSinkClosed
	}
	if len(out.Tiles) != len(s.vertices) {
		return fmt.Errorf("%w: got %d tiles, have %d", ErrTileMismatch, len(out.Tiles), len(s.vertices))
	}
	for i, t := range out.Tiles {
		s.vertices[i] = PackVertices(s.vertices[i], t, s.normals)
		s.indices[i] = PackIndices(s.indices[i], t)
		if err := s.writer.WriteTile(i, s.vertices[i], s.indices[i], len(t.ActiveTriangles())); err != nil {
			return fmt.Errorf("gpumesh: write tile %d: %w", i, err)
		}
	}
	s.texture = out.Texture
	s.frames++
	return nil
}

// Texture returns the color texture of the last published frame.
func (s *Sink) Texture() any { return s.texture }

// Frames returns the number of frames uploaded.
func (s *Sink) Frames() uint64 { return s.frames }

// Normals reports whether vertices carry normals.
func (s *Sink) Normals() bool { return s.normals }

// Layout returns the vertex buffer layout of the current tiles.
func (s *Sink) Layout() gputypes.VertexBufferLayout { return Layout(s.normals) }

// Provider returns the DeviceProvider associated with this sink.
// Returns nil if the sink is closed.
func (s *Sink) Provider() gpucontext.DeviceProvider {
	if s.closed {
		return nil
	}
	return s.provider
}

// Close waits for the device and releases all tile buffers. Close is
// idempotent.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.waitIdle()
	s.release()
	s.provider = nil
	return nil
}

// devicePoller matches devices that can block until queued work is done.
type devicePoller interface {
	Poll(wait bool)
}

func (s *Sink) waitIdle() {
	if d, ok := s.provider.Device().(devicePoller); ok {
		d.Poll(true)
	}
}

func (s *Sink) release() {
	if r, ok := s.writer.(bufferReleaser); ok {
		r.ReleaseTiles()
	}
	s.vertices, s.indices = nil, nil
}

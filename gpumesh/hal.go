// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpumesh

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrNilDevice is returned when a HAL device or queue is nil.
	ErrNilDevice = errors.New("gpumesh: nil HAL device or queue")

	// ErrNoHAL is returned when a DeviceProvider does not expose its HAL
	// device and queue.
	ErrNoHAL = errors.New("gpumesh: provider does not expose HAL types")

	// ErrTileTooLarge is returned when WriteTile receives more bytes than
	// AllocateTile reserved.
	ErrTileTooLarge = errors.New("gpumesh: tile data exceeds allocated buffer")
)

// HALWriter is a BufferWriter that keeps one vertex buffer and one index
// buffer per tile on a wgpu HAL device. Buffers are created by
// AllocateTile, filled through the queue by WriteTile and destroyed by
// ReleaseTiles.
//
// HALWriter is NOT safe for concurrent use. The renderer reads the
// buffers between publishes on the goroutine that drives the pipeline.
type HALWriter struct {
	device hal.Device
	queue  hal.Queue
	tiles  []halTile
}

type halTile struct {
	allocated  bool
	vertices   hal.Buffer
	indices    hal.Buffer
	vertexSize int
	indexSize  int
	indexCount int
}

var (
	_ BufferWriter   = (*HALWriter)(nil)
	_ TileAllocator  = (*HALWriter)(nil)
	_ bufferReleaser = (*HALWriter)(nil)
)

// NewHALWriter returns a writer that creates buffers on device and uploads
// through queue.
func NewHALWriter(device hal.Device, queue hal.Queue) (*HALWriter, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &HALWriter{device: device, queue: queue}, nil
}

// halProvider matches providers that share their HAL device and queue,
// such as the gogpu application context.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// HALWriterFromProvider extracts the HAL device and queue of provider.
func HALWriterFromProvider(provider gpucontext.DeviceProvider) (*HALWriter, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}
	return NewHALWriter(device, queue)
}

// NewHALSink returns a Sink that uploads tiles into HAL buffers on the
// device of provider.
func NewHALSink(provider gpucontext.DeviceProvider, opts ...Option) (*Sink, *HALWriter, error) {
	w, err := HALWriterFromProvider(provider)
	if err != nil {
		return nil, nil, err
	}
	s, err := NewSink(provider, w, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, w, nil
}

// AllocateTile creates the vertex and index buffers of one tile.
func (w *HALWriter) AllocateTile(tile int, vertexSize, indexSize int) error {
	if tile < 0 {
		return fmt.Errorf("%w: tile %d", ErrTileMismatch, tile)
	}
	if tile >= len(w.tiles) {
		w.tiles = append(w.tiles, make([]halTile, tile+1-len(w.tiles))...)
	}
	t := &w.tiles[tile]
	if t.allocated {
		w.destroy(t)
	}

	vb, err := w.createBuffer(fmt.Sprintf("depthmesh_tile%d_vertices", tile), vertexSize, VertexUsage())
	if err != nil {
		return err
	}
	ib, err := w.createBuffer(fmt.Sprintf("depthmesh_tile%d_indices", tile), indexSize, IndexUsage())
	if err != nil {
		w.device.DestroyBuffer(vb)
		return err
	}
	*t = halTile{allocated: true, vertices: vb, indices: ib, vertexSize: vertexSize, indexSize: indexSize}
	return nil
}

func (w *HALWriter) createBuffer(label string, size int, usage gputypes.BufferUsage) (hal.Buffer, error) {
	// Buffers are never empty; a tile one vertex wide has no indices.
	size = max(size, IndexSize)
	buf, err := w.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return buf, nil
}

// WriteTile uploads one tile's packed data into its buffers.
func (w *HALWriter) WriteTile(tile int, vertices, indices []byte, indexCount int) error {
	if tile < 0 || tile >= len(w.tiles) || !w.tiles[tile].allocated {
		return fmt.Errorf("%w: tile %d not allocated", ErrTileMismatch, tile)
	}
	t := &w.tiles[tile]
	if len(vertices) > t.vertexSize || len(indices) > t.indexSize {
		return fmt.Errorf("%w: tile %d got %d+%d bytes, have %d+%d",
			ErrTileTooLarge, tile, len(vertices), len(indices), t.vertexSize, t.indexSize)
	}
	if len(vertices) > 0 {
		w.queue.WriteBuffer(t.vertices, 0, vertices)
	}
	if len(indices) > 0 {
		w.queue.WriteBuffer(t.indices, 0, indices)
	}
	t.indexCount = indexCount
	return nil
}

// ReleaseTiles destroys every tile buffer.
func (w *HALWriter) ReleaseTiles() {
	for i := range w.tiles {
		w.destroy(&w.tiles[i])
	}
	w.tiles = w.tiles[:0]
}

func (w *HALWriter) destroy(t *halTile) {
	if t.allocated {
		w.device.DestroyBuffer(t.vertices)
		w.device.DestroyBuffer(t.indices)
	}
	*t = halTile{}
}

// Tiles returns the number of allocated tiles.
func (w *HALWriter) Tiles() int { return len(w.tiles) }

// VertexBuffer returns the vertex buffer of tile, or nil.
func (w *HALWriter) VertexBuffer(tile int) hal.Buffer {
	if tile < 0 || tile >= len(w.tiles) {
		return nil
	}
	return w.tiles[tile].vertices
}

// IndexBuffer returns the index buffer of tile, or nil.
func (w *HALWriter) IndexBuffer(tile int) hal.Buffer {
	if tile < 0 || tile >= len(w.tiles) {
		return nil
	}
	return w.tiles[tile].indices
}

// IndexCount returns the number of indices to draw for tile.
func (w *HALWriter) IndexCount(tile int) int {
	if tile < 0 || tile >= len(w.tiles) {
		return 0
	}
	return w.tiles[tile].indexCount
}

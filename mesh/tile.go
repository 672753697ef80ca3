// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package mesh holds the per-tile geometry of a depth surface.
//
// Each Tile covers one row band of a grid.Topology. Its buffers are sized
// once by Allocate and then rewritten in place every frame:
//
//   - positions: (x, -y, z) per vertex, x/y fixed, z from depth
//   - uvs: color-image coordinates per vertex
//   - default triangles: every quad of the band, two triangles each
//   - active triangles: the subset of the default list drawn this frame
//
// The default list is never modified after allocation. The active list is
// rebuilt from it every frame, so a triangle culled on one frame comes back
// as soon as its depths agree again.
package mesh

import (
	"github.com/gogpu/depthmesh/grid"
)

// Vec3 is a vertex position or normal.
type Vec3 struct {
	X, Y, Z float32
}

// UV is a normalized texture coordinate.
type UV struct {
	U, V float32
}

// ColorPoint is a position in color-image pixel space, as produced by a
// depth-to-color coordinate mapper.
type ColorPoint struct {
	X, Y float32
}

// Tile is one bounded-size mesh over a contiguous row band.
//
// Slices returned by the accessors alias the tile's buffers. They stay
// valid until the tile is discarded and are overwritten by the next frame;
// readers must not modify them.
type Tile struct {
	index      int
	span       grid.Span
	width      int
	gridHeight int

	positions []Vec3
	uvs       []UV
	normals   []Vec3

	defaults []uint32
	active   []uint32
}

// Allocate creates one Tile per span of topo. When withNormals is set each
// tile also carries a normal buffer for RecalculateNormals.
func Allocate(topo grid.Topology, withNormals bool) []*Tile {
	tiles := make([]*Tile, topo.TileCount())
	for i := range tiles {
		tiles[i] = newTile(topo, i, withNormals)
	}
	return tiles
}

func newTile(topo grid.Topology, i int, withNormals bool) *Tile {
	span := topo.Span(i)
	width := topo.Width
	n := topo.VertexCount(i)

	t := &Tile{
		index:      i,
		span:       span,
		width:      width,
		gridHeight: topo.Height,
		positions:  make([]Vec3, n),
		uvs:        make([]UV, n),
		defaults:   make([]uint32, 0, topo.TriangleIndexCount(i)),
	}
	if withNormals {
		t.normals = make([]Vec3, n)
	}

	for y := 0; y < span.Rows; y++ {
		gy := span.FirstRow + y
		for x := 0; x < width; x++ {
			idx := y*width + x
			t.positions[idx] = Vec3{X: float32(x), Y: -float32(gy)}
			t.uvs[idx] = UV{
				U: float32(x) / float32(width),
				V: float32(gy) / float32(topo.Height),
			}

			// Skip the last row and column.
			if x == width-1 || y == span.Rows-1 {
				continue
			}
			topLeft := uint32(idx)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(width)
			bottomRight := bottomLeft + 1
			t.defaults = append(t.defaults,
				topLeft, topRight, bottomLeft,
				bottomLeft, topRight, bottomRight,
			)
		}
	}

	t.active = make([]uint32, len(t.defaults))
	copy(t.active, t.defaults)
	return t
}

// Index returns the tile's position in the topology.
func (t *Tile) Index() int { return t.index }

// Span returns the global rows owned by the tile.
func (t *Tile) Span() grid.Span { return t.span }

// Width returns the number of vertices per row.
func (t *Tile) Width() int { return t.width }

// VertexCount returns the number of vertices in the tile.
func (t *Tile) VertexCount() int { return len(t.positions) }

// Positions returns the vertex positions.
func (t *Tile) Positions() []Vec3 { return t.positions }

// UVs returns the texture coordinates, one per vertex.
func (t *Tile) UVs() []UV { return t.uvs }

// Normals returns the vertex normals, or nil when the tile was allocated
// without them.
func (t *Tile) Normals() []Vec3 { return t.normals }

// DefaultTriangles returns the full, unpruned triangle index list.
func (t *Tile) DefaultTriangles() []uint32 { return t.defaults }

// ActiveTriangles returns the triangle indices selected for this frame.
// Its length is always a multiple of 3.
func (t *Tile) ActiveTriangles() []uint32 { return t.active }

// TriangleCount returns the number of active triangles.
func (t *Tile) TriangleCount() int { return len(t.active) / 3 }

// ResetActive makes every default triangle active.
func (t *Tile) ResetActive() {
	t.active = append(t.active[:0], t.defaults...)
}

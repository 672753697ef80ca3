// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package grid partitions a row-major pixel grid into row bands that each
// fit a per-draw vertex budget.
//
// Consecutive bands share exactly one row so that meshes built from them
// meet without a visible seam:
//
//	band 0: rows [0, R)
//	band 1: rows [R-1, 2R-1)
//	band i: rows [i(R-1), i(R-1)+R) clipped to the grid height
//
// where R is RowsPerTile = floor(maxVerticesPerTile / width).
package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when width, height or the vertex
	// budget is not positive.
	ErrInvalidDimensions = errors.New("grid: invalid dimensions")

	// ErrTileBudget is returned when the vertex budget cannot hold two full
	// rows of the grid, which is the minimum for a triangle strip.
	ErrTileBudget = errors.New("grid: vertex budget too small for grid width")
)

// Span is the contiguous range of source rows owned by one tile.
type Span struct {
	// FirstRow is the global index of the tile's first row.
	FirstRow int

	// Rows is the number of rows in the tile.
	Rows int
}

// End returns the first row past the span.
func (s Span) End() int { return s.FirstRow + s.Rows }

// Topology describes how a width x height grid is split into tiles.
// It is an immutable value; build it with Build.
type Topology struct {
	Width              int
	Height             int
	MaxVerticesPerTile int

	// RowsPerTile is floor(MaxVerticesPerTile / Width). Every tile except
	// possibly the last has exactly this many rows.
	RowsPerTile int

	spans []Span
}

// Build computes the topology for a width x height grid under the given
// per-tile vertex budget. Configuration errors are reported before anything
// proportional to the grid size is allocated.
func Build(width, height, maxVerticesPerTile int) (Topology, error) {
	if width < 1 || height < 1 || maxVerticesPerTile < 1 {
		return Topology{}, fmt.Errorf("%w: width=%d height=%d maxVerticesPerTile=%d",
			ErrInvalidDimensions, width, height, maxVerticesPerTile)
	}
	rowsPerTile := maxVerticesPerTile / width
	if rowsPerTile < 2 {
		return Topology{}, fmt.Errorf("%w: width=%d needs at least %d vertices per tile, have %d",
			ErrTileBudget, width, 2*width, maxVerticesPerTile)
	}

	count := TileCount(height, rowsPerTile)
	spans := make([]Span, count)
	step := rowsPerTile - 1
	for i := range spans {
		first := i * step
		spans[i] = Span{FirstRow: first, Rows: min(rowsPerTile, height-first)}
	}

	return Topology{
		Width:              width,
		Height:             height,
		MaxVerticesPerTile: maxVerticesPerTile,
		RowsPerTile:        rowsPerTile,
		spans:              spans,
	}, nil
}

// TileCount returns ceil((height-1) / (rowsPerTile-1)) with a floor of 1.
// rowsPerTile must be at least 2.
func TileCount(height, rowsPerTile int) int {
	step := rowsPerTile - 1
	n := (height - 1 + step - 1) / step
	return max(n, 1)
}

// TileCount returns the number of tiles.
func (t Topology) TileCount() int { return len(t.spans) }

// Span returns the row span of tile i.
func (t Topology) Span(i int) Span { return t.spans[i] }

// Spans returns a copy of all tile spans in order.
func (t Topology) Spans() []Span {
	out := make([]Span, len(t.spans))
	copy(out, t.spans)
	return out
}

// VertexCount returns the number of vertices in tile i.
func (t Topology) VertexCount(i int) int { return t.spans[i].Rows * t.Width }

// TriangleIndexCount returns the length of tile i's default triangle list:
// six indices per interior quad.
func (t Topology) TriangleIndexCount(i int) int {
	rows := t.spans[i].Rows
	if rows < 2 || t.Width < 2 {
		return 0
	}
	return 6 * (rows - 1) * (t.Width - 1)
}

// TotalVertices returns the vertex count summed over all tiles, shared rows
// counted once per tile that owns them.
func (t Topology) TotalVertices() int {
	n := 0
	for i := range t.spans {
		n += t.VertexCount(i)
	}
	return n
}

// TileOf returns the index of the first tile that owns global row y, or -1
// when y is outside the grid. A seam row belongs to two tiles; TileOf
// reports the one where it is the last row.
func (t Topology) TileOf(y int) int {
	if y < 0 || y >= t.Height {
		return -1
	}
	if y == 0 {
		return 0
	}
	i := (y - 1) / (t.RowsPerTile - 1)
	return min(i, len(t.spans)-1)
}

// Equal reports whether two topologies describe the same partition.
func (t Topology) Equal(o Topology) bool {
	return t.Width == o.Width && t.Height == o.Height && t.MaxVerticesPerTile == o.MaxVerticesPerTile
}

// IsZero reports whether t is the zero Topology.
func (t Topology) IsZero() bool { return len(t.spans) == 0 }

// String returns a compact description, e.g. "512x424/64998: 3 tiles of 126 rows".
func (t Topology) String() string {
	return fmt.Sprintf("%dx%d/%d: %d tiles of %d rows", t.Width, t.Height, t.MaxVerticesPerTile, len(t.spans), t.RowsPerTile)
}

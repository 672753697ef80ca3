// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package braille draws line art into a grid of Unicode braille cells.
// Each terminal cell holds a 2x4 block of dots.
package braille

import "strings"

const (
	// DotsX is the horizontal dot count per cell.
	DotsX = 2
	// DotsY is the vertical dot count per cell.
	DotsY = 4

	blank = 0x2800
)

// dotBits maps a dot position inside a cell to its braille bit, [row][col].
var dotBits = [DotsY][DotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot raster. The zero value is an empty 0x0 canvas.
type Canvas struct {
	w, h  int // in cells
	cells []uint8
	sb    strings.Builder
}

// New returns a canvas of w x h cells.
func New(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize changes the cell dimensions and clears the canvas.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	c.w, c.h = w, h
	if cap(c.cells) < w*h {
		c.cells = make([]uint8, w*h)
		return
	}
	c.cells = c.cells[:w*h]
	c.Clear()
}

// Clear removes every dot.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// Cells returns the canvas size in cells.
func (c *Canvas) Cells() (w, h int) { return c.w, c.h }

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (w, h int) { return c.w * DotsX, c.h * DotsY }

// Set turns on the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/DotsX, y/DotsY
	if cx >= c.w || cy >= c.h {
		return
	}
	c.cells[cy*c.w+cx] |= dotBits[y%DotsY][x%DotsX]
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/DotsX >= c.w || y/DotsY >= c.h {
		return false
	}
	return c.cells[(y/DotsY)*c.w+x/DotsX]&dotBits[y%DotsY][x%DotsX] != 0
}

// Line draws a line between two dots using Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Lines renders one string per cell row. Empty cells become spaces.
func (c *Canvas) Lines() []string {
	out := make([]string, c.h)
	for y := range out {
		c.sb.Reset()
		c.writeRow(y)
		out[y] = c.sb.String()
	}
	return out
}

// String renders the canvas as newline-separated rows.
func (c *Canvas) String() string {
	c.sb.Reset()
	for y := 0; y < c.h; y++ {
		if y > 0 {
			c.sb.WriteByte('\n')
		}
		c.writeRow(y)
	}
	return c.sb.String()
}

func (c *Canvas) writeRow(y int) {
	for _, mask := range c.cells[y*c.w : y*c.w+c.w] {
		if mask == 0 {
			c.sb.WriteByte(' ')
			continue
		}
		c.sb.WriteRune(rune(blank + int(mask)))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

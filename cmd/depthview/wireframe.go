// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/gogpu/depthmesh"
	"github.com/gogpu/depthmesh/grid"
	"github.com/gogpu/depthmesh/internal/braille"
	"github.com/gogpu/depthmesh/mesh"
)

// wireframe is a depthmesh.Sink that draws the edges of every active
// triangle into a braille canvas.
type wireframe struct {
	canvas *braille.Canvas

	gridW, gridH int
	scale        float32
	offsetX      float32
	offsetY      float32

	triangles int
}

var _ depthmesh.Sink = (*wireframe)(nil)

func newWireframe(c *braille.Canvas) *wireframe {
	return &wireframe{canvas: c}
}

func (w *wireframe) Rebuild(topo grid.Topology, _ []*mesh.Tile) error {
	w.gridW, w.gridH = topo.Width, topo.Height
	w.fit()
	return nil
}

// fit scales the grid to the canvas, keeping its aspect ratio. Braille
// dots are close to square, so no terminal cell correction is needed.
func (w *wireframe) fit() {
	dw, dh := w.canvas.Dots()
	spanX := float32(max(w.gridW-1, 1))
	spanY := float32(max(w.gridH-1, 1))
	w.scale = min(float32(max(dw-1, 0))/spanX, float32(max(dh-1, 0))/spanY)
	w.offsetX = (float32(dw-1) - spanX*w.scale) / 2
	w.offsetY = (float32(dh-1) - spanY*w.scale) / 2
}

func (w *wireframe) Publish(out *depthmesh.Output) error {
	w.canvas.Clear()
	w.triangles = 0
	for _, t := range out.Tiles {
		pos := t.Positions()
		active := t.ActiveTriangles()
		for i := 0; i+2 < len(active); i += 3 {
			x1, y1 := w.project(pos[active[i]])
			x2, y2 := w.project(pos[active[i+1]])
			x3, y3 := w.project(pos[active[i+2]])
			w.canvas.Line(x1, y1, x2, y2)
			w.canvas.Line(x2, y2, x3, y3)
			w.canvas.Line(x3, y3, x1, y1)
		}
		w.triangles += len(active) / 3
	}
	return nil
}

func (w *wireframe) project(p mesh.Vec3) (int, int) {
	x := w.offsetX + p.X*w.scale
	y := w.offsetY - p.Y*w.scale
	return int(x + 0.5), int(y + 0.5)
}

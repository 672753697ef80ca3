// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mesh

// Source is the per-frame input of Update.
type Source struct {
	// Z holds one surface offset per grid pixel, row-major, with the same
	// width as the tiles it feeds.
	Z []float32

	// ColorPoints maps every source-resolution depth pixel to color-image
	// space, row-major with SourceWidth columns.
	ColorPoints []ColorPoint

	// SourceWidth is the width of the full-resolution depth image.
	SourceWidth int

	// Factor is the downsample factor between the source and the grid.
	// Zero is treated as 1.
	Factor int

	// ColorWidth and ColorHeight normalize color points into UVs.
	ColorWidth  int
	ColorHeight int
}

// Update rewrites every vertex z and UV of the tile from src. Grid pixel
// (gx, gy) takes its UV from source pixel (gx*Factor, gy*Factor). The
// caller guarantees that src covers the tile's rows. Update does not
// allocate.
func (t *Tile) Update(src *Source) {
	f := src.Factor
	if f < 1 {
		f = 1
	}
	invW := 1 / float32(src.ColorWidth)
	invH := 1 / float32(src.ColorHeight)
	w := t.width

	for y := 0; y < t.span.Rows; y++ {
		gy := t.span.FirstRow + y
		zrow := src.Z[gy*w : gy*w+w]
		crow := src.ColorPoints[gy*f*src.SourceWidth:]
		pos := t.positions[y*w : y*w+w]
		uvs := t.uvs[y*w : y*w+w]
		for x := range pos {
			pos[x].Z = zrow[x]
			cp := crow[x*f]
			uvs[x] = UV{U: cp.X * invW, V: cp.Y * invH}
		}
	}
}

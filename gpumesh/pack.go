// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpumesh

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/depthmesh/mesh"
)

// PackVertices writes the tile's vertices into dst, growing it only when
// its capacity is too small, and returns the filled slice. Normals are
// written as (0, 0, -1) when requested but not computed on the tile.
func PackVertices(dst []byte, t *mesh.Tile, withNormals bool) []byte {
	stride := Stride(withNormals)
	positions := t.Positions()
	uvs := t.UVs()
	normals := t.Normals()

	dst = grow(dst, len(positions)*stride)
	offset := 0
	for i, p := range positions {
		buf := dst[offset : offset+stride]
		putFloat(buf[0:4], p.X)
		putFloat(buf[4:8], p.Y)
		putFloat(buf[8:12], p.Z)
		putFloat(buf[12:16], uvs[i].U)
		putFloat(buf[16:20], uvs[i].V)
		if withNormals {
			n := mesh.Vec3{Z: -1}
			if normals != nil {
				n = normals[i]
			}
			putFloat(buf[20:24], n.X)
			putFloat(buf[24:28], n.Y)
			putFloat(buf[28:32], n.Z)
		}
		offset += stride
	}
	return dst
}

// PackIndices writes the tile's active triangle indices into dst, growing
// it only when its capacity is too small, and returns the filled slice.
func PackIndices(dst []byte, t *mesh.Tile) []byte {
	active := t.ActiveTriangles()
	dst = grow(dst, len(active)*IndexSize)
	for i, idx := range active {
		binary.LittleEndian.PutUint32(dst[i*IndexSize:], idx)
	}
	return dst
}

func putFloat(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

func grow(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mesh

import "math"

// facingCamera is the normal given to vertices no active triangle touches.
var facingCamera = Vec3{Z: -1}

// RecalculateNormals recomputes per-vertex normals as the normalized sum of
// the (area weighted) face normals of the active triangles sharing each
// vertex. It is a no-op for tiles allocated without normals.
func (t *Tile) RecalculateNormals() {
	if t.normals == nil {
		return
	}
	n := t.normals
	clear(n)
	pos := t.positions
	a := t.active
	for i := 0; i+2 < len(a); i += 3 {
		i1, i2, i3 := a[i], a[i+1], a[i+2]
		p1, p2, p3 := pos[i1], pos[i2], pos[i3]
		fn := cross(sub(p2, p1), sub(p3, p1))
		n[i1] = add(n[i1], fn)
		n[i2] = add(n[i2], fn)
		n[i3] = add(n[i3], fn)
	}
	for i := range n {
		n[i] = normalize(n[i])
	}
}

func sub(a, b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func add(a, b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func normalize(v Vec3) Vec3 {
	l := float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
	if l < 1e-12 {
		return facingCamera
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

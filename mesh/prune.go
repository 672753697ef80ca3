// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mesh

// Prune rebuilds the active triangle list from the default list, keeping a
// triangle (v1, v2, v3) only when both |z1-z2| and |z1-z3| are below
// threshold. Only depth is compared; x/y spans are ignored.
//
// The active list is rebuilt from scratch in its existing storage, so Prune
// does not allocate.
func (t *Tile) Prune(threshold float32) {
	active := t.active[:0]
	pos := t.positions
	d := t.defaults
	for i := 0; i+2 < len(d); i += 3 {
		v1, v2, v3 := d[i], d[i+1], d[i+2]
		z1 := pos[v1].Z
		if abs32(z1-pos[v2].Z) < threshold && abs32(z1-pos[v3].Z) < threshold {
			active = append(active, v1, v2, v3)
		}
	}
	t.active = active
}

// Pruned returns how many default triangles are currently inactive.
func (t *Tile) Pruned() int {
	return (len(t.defaults) - len(t.active)) / 3
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

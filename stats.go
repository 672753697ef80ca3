// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import (
	"log/slog"
	"time"
)

// Stats describes the most recent pipeline pass.
type Stats struct {
	Seq              uint64
	Tiles            int
	Vertices         int
	DefaultTriangles int
	ActiveTriangles  int
	Pruned           int
	Duration         time.Duration

	// Dropped and Skipped count, since creation, frames discarded because
	// the pipeline was busy and frames rejected as malformed.
	Dropped uint64
	Skipped uint64
}

// LogValue renders the stats as a slog group.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("seq", s.Seq),
		slog.Int("tiles", s.Tiles),
		slog.Int("vertices", s.Vertices),
		slog.Int("defaultTriangles", s.DefaultTriangles),
		slog.Int("triangles", s.ActiveTriangles),
		slog.Int("pruned", s.Pruned),
		slog.Uint64("dropped", s.Dropped),
		slog.Uint64("skipped", s.Skipped),
		slog.Duration("duration", s.Duration),
	)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import (
	"log/slog"
	"sync/atomic"
)

// silent discards every record. Its handler reports every level as
// disabled, so the per-frame Debug call in the pipeline never builds the
// Stats group.
var silent = slog.New(slog.DiscardHandler)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(silent)
}

// SetLogger replaces the logger that NewPipeline, gpumesh.NewSink and
// preview.New fall back to when no WithLogger option is given. Each of
// those captures the logger once at construction, so SetLogger only
// affects pipelines and sinks built afterwards. A nil logger restores the
// silent default.
//
// Records emitted by a pipeline:
//   - [slog.LevelDebug]: "depthmesh: frame" with a stats group per pass
//   - [slog.LevelInfo]: topology built or rebuilt for a new frame size
//   - [slog.LevelWarn]: frame dropped while busy, frame skipped as
//     malformed, publish failed
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	defaultLogger.Store(l)
}

// Logger returns the logger new pipelines and sinks capture. It never
// returns nil.
func Logger() *slog.Logger {
	return defaultLogger.Load()
}

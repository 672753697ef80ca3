// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import "errors"

var (
	// ErrInvalidConfig is returned by NewPipeline and Config.Validate for
	// unusable configuration values.
	ErrInvalidConfig = errors.New("depthmesh: invalid config")

	// ErrNilSink is returned by NewPipeline when no sink is given.
	ErrNilSink = errors.New("depthmesh: nil sink")

	// ErrMalformedFrame is returned for a frame whose buffers do not match
	// its declared dimensions. The frame is skipped and the tiles keep the
	// previous frame's geometry.
	ErrMalformedFrame = errors.New("depthmesh: malformed frame")

	// ErrFrameDropped is returned when a frame arrives while another pass
	// is still running. The frame is discarded.
	ErrFrameDropped = errors.New("depthmesh: frame dropped, pipeline busy")

	// ErrNotReady is returned by operations that need a topology or a
	// previously accepted frame.
	ErrNotReady = errors.New("depthmesh: pipeline not ready")
)

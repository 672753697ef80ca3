// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package depthmesh

import (
	"log/slog"
	"time"
)

// Option configures a Pipeline during creation.
//
// Example:
//
//	p, err := depthmesh.NewPipeline(depthmesh.DefaultConfig(), sink,
//	    depthmesh.WithMapper(mapper),
//	    depthmesh.WithLogger(logger),
//	)
type Option func(*pipelineOptions)

type pipelineOptions struct {
	logger *slog.Logger
	mapper CoordinateMapper
	now    func() time.Time
}

func defaultOptions() pipelineOptions {
	return pipelineOptions{
		logger: nil, // Logger() at construction
		now:    time.Now,
	}
}

// WithLogger sets the pipeline's logger. Nil keeps the package default.
func WithLogger(l *slog.Logger) Option {
	return func(o *pipelineOptions) {
		o.logger = l
	}
}

// WithMapper sets the coordinate mapper used for frames that do not carry
// precomputed color points.
func WithMapper(m CoordinateMapper) Option {
	return func(o *pipelineOptions) {
		o.mapper = m
	}
}

// WithClock replaces time.Now for frame timing.
func WithClock(now func() time.Time) Option {
	return func(o *pipelineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

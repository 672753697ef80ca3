// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package depthmesh turns depth-camera frames into tiled, textured triangle
// meshes.
//
// # Overview
//
// A depth frame is a grid of 16-bit distances. depthmesh lays one vertex
// over every sample (or every Factor x Factor block), connects neighbours
// into two triangles per quad and removes the triangles that span a depth
// discontinuity, so foreground objects do not smear into the background.
// Each vertex also gets a texture coordinate into the matching color image.
//
// Graphics APIs limit how many vertices one draw call may index, so the
// grid is split into horizontal tiles. Neighbouring tiles share exactly one
// row of vertices, which keeps the surface gap-free at tile seams.
//
// # Quick Start
//
//	p, err := depthmesh.NewPipeline(depthmesh.DefaultConfig(), sink,
//	    depthmesh.WithMapper(cameraMapper),
//	)
//	if err != nil {
//	    return err
//	}
//	for frame := range frames {
//	    if err := p.ProcessFrame(frame); err != nil {
//	        // Malformed and dropped frames are skipped; keep going.
//	    }
//	}
//
// # Architecture
//
// The library is organized into:
//   - grid: tile topology (rows per tile, seams, vertex and index counts)
//   - depth: sentinel substitution, block averaging, depth-to-z scaling
//   - mesh: per-tile vertex, UV, triangle and normal buffers
//   - depthmesh: the per-frame pipeline, its configuration and Sink contract
//   - gpumesh: GPU vertex and index buffer packing for a Sink
//   - preview: a software depth-band rasterizer for a Sink
//
// # Threading
//
// A Pipeline processes one frame at a time on the caller's goroutine. A
// frame that arrives during a pass is dropped with ErrFrameDropped. Tiles
// are published read-only to the Sink after every pass.
//
// # Logging
//
// depthmesh logs through log/slog and is silent by default. See SetLogger.
package depthmesh

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package preview rasterizes depthmesh tiles into an image without a GPU.
//
// Renderer is a depthmesh.Sink. Every published frame is drawn as filled
// active triangles, shaded in depth bands from bright (near) to dark
// (far). Pruned triangles leave the background visible, which makes depth
// edges easy to inspect in headless tools and tests.
package preview

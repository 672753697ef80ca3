// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpumesh uploads depthmesh tiles as GPU vertex and index buffers.
//
// The data flow is:
//
//	depthmesh.Pipeline -> mesh.Tile (CPU) -> staging bytes -> BufferWriter -> GPU
//
// Vertices are interleaved little-endian float32:
//
//	offset  0  position  float32x3  location 0
//	offset 12  uv        float32x2  location 1
//	offset 20  normal    float32x3  location 2 (only when normals are enabled)
//
// Indices are uint32, three per active triangle. One tile is one draw call.
//
// # Usage
//
//	sink, err := gpumesh.NewSink(app.GPUContextProvider(), writer)
//	if err != nil {
//	    return err
//	}
//	defer sink.Close()
//
//	p, err := depthmesh.NewPipeline(depthmesh.DefaultConfig(), sink)
//
// The BufferWriter owns the actual GPU buffers. Sink only prepares bytes
// and tells the writer how many indices to draw.
//
// HALWriter is a BufferWriter over a wgpu HAL device. With a provider
// that shares its HAL device and queue, NewHALSink wires both:
//
//	sink, writer, err := gpumesh.NewHALSink(app.GPUContextProvider())
//	...
//	for i := range writer.Tiles() {
//	    pass.SetVertexBuffer(0, writer.VertexBuffer(i), 0)
//	    pass.SetIndexBuffer(writer.IndexBuffer(i), gpumesh.IndexFormat(), 0)
//	    pass.DrawIndexed(uint32(writer.IndexCount(i)), 1, 0, 0, 0)
//	}
package gpumesh

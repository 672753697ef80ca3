// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpumesh

import "github.com/gogpu/gputypes"

const (
	// VertexStride is the size of one vertex without normals.
	VertexStride = 20

	// VertexStrideWithNormals is the size of one vertex with normals.
	VertexStrideWithNormals = 32

	// IndexSize is the size of one index.
	IndexSize = 4
)

// Stride returns the vertex stride for the given normal setting.
func Stride(withNormals bool) int {
	if withNormals {
		return VertexStrideWithNormals
	}
	return VertexStride
}

// Layout returns the vertex buffer layout matching PackVertices.
func Layout(withNormals bool) gputypes.VertexBufferLayout {
	l := gputypes.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // uv
		},
	}
	if withNormals {
		l.ArrayStride = VertexStrideWithNormals
		l.Attributes = append(l.Attributes,
			gputypes.VertexAttribute{Format: gputypes.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2}) // normal
	}
	return l
}

// Primitive returns the primitive state for drawing tiles. Pruning leaves
// holes whose winding is irrelevant, so nothing is culled.
func Primitive() gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology: gputypes.PrimitiveTopologyTriangleList,
		CullMode: gputypes.CullModeNone,
	}
}

// IndexFormat returns the index format matching PackIndices.
func IndexFormat() gputypes.IndexFormat { return gputypes.IndexFormatUint32 }

// VertexUsage is the buffer usage for tile vertex buffers.
func VertexUsage() gputypes.BufferUsage {
	return gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
}

// IndexUsage is the buffer usage for tile index buffers.
func IndexUsage() gputypes.BufferUsage {
	return gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
}

package transport

import (
	"fmt"

	"github.com/roman01la/ps1ender-sub000/common"
)

// vertexStride is the interleaved wire layout: position (3), normal (3),
// uv (2), color (4) — twelve float32 per vertex. Color bytes are carried as
// whole-number floats in [0, 255], which float32 represents exactly, so the
// round trip is lossless.
const vertexStride = 12

// EncodeMesh flattens a mesh buffer into the interleaved vertex layout plus
// its index array. The returned slices share no memory with the input.
//
// Parameters:
//   - m: the mesh to encode (assumed to satisfy its Validate invariants)
//
// Returns:
//   - []float32: interleaved vertex data, vertexStride floats per vertex
//   - []uint32: copied triangle indices
func EncodeMesh(m *common.MeshBuffer) ([]float32, []uint32) {
	n := m.VertexCount()
	verts := make([]float32, n*vertexStride)
	for i := 0; i < n; i++ {
		off := i * vertexStride
		copy(verts[off:off+3], m.Positions[i*3:i*3+3])
		copy(verts[off+3:off+6], m.Normals[i*3:i*3+3])
		copy(verts[off+6:off+8], m.UVs[i*2:i*2+2])
		verts[off+8] = float32(m.Colors[i*4])
		verts[off+9] = float32(m.Colors[i*4+1])
		verts[off+10] = float32(m.Colors[i*4+2])
		verts[off+11] = float32(m.Colors[i*4+3])
	}
	indices := append([]uint32(nil), m.Indices...)
	return verts, indices
}

// DecodeMesh reconstructs a mesh buffer from the interleaved layout.
//
// Parameters:
//   - verts: interleaved vertex data, a multiple of vertexStride long
//   - indices: triangle indices
//
// Returns:
//   - *common.MeshBuffer: the reconstructed mesh
//   - error: an error when the vertex data is misaligned or an index is out
//     of range
func DecodeMesh(verts []float32, indices []uint32) (*common.MeshBuffer, error) {
	if len(verts)%vertexStride != 0 {
		return nil, fmt.Errorf("vertex data length %d not a multiple of stride %d", len(verts), vertexStride)
	}
	n := len(verts) / vertexStride

	m := &common.MeshBuffer{
		Positions: make([]float32, n*3),
		Normals:   make([]float32, n*3),
		UVs:       make([]float32, n*2),
		Colors:    make([]uint8, n*4),
		Indices:   append([]uint32(nil), indices...),
	}
	for i := 0; i < n; i++ {
		off := i * vertexStride
		copy(m.Positions[i*3:i*3+3], verts[off:off+3])
		copy(m.Normals[i*3:i*3+3], verts[off+3:off+6])
		copy(m.UVs[i*2:i*2+2], verts[off+6:off+8])
		m.Colors[i*4] = uint8(verts[off+8])
		m.Colors[i*4+1] = uint8(verts[off+9])
		m.Colors[i*4+2] = uint8(verts[off+10])
		m.Colors[i*4+3] = uint8(verts[off+11])
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("decoded mesh invalid: %w", err)
	}
	return m, nil
}

// VertexBytes reinterprets encoded vertex data as raw bytes for transports
// that move untyped buffers. The byte slice aliases the input.
func VertexBytes(verts []float32) []byte {
	return common.SliceToBytes(verts)
}

// VertexFloats is the inverse of VertexBytes.
func VertexFloats(data []byte) []float32 {
	return common.BytesToSlice[float32](data)
}

// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "fmt"

// BackgroundAlpha is the alpha value written by Clear. A pixel whose alpha
// still equals this sentinel has never been touched by geometry, which the
// post-process stage uses to restrict color quantization to drawn pixels.
const BackgroundAlpha = 0

// MeshBuffer holds a mesh as parallel flat arrays, the layout every stage of
// the pipeline shares: positions are 3 floats per vertex, normals 3, UVs 2,
// colors 4 bytes per vertex, and Indices addresses vertices in groups of
// three per triangle.
type MeshBuffer struct {
	// Positions holds x,y,z per vertex (length 3*N).
	Positions []float32
	// Normals holds nx,ny,nz per vertex (length 3*N).
	Normals []float32
	// UVs holds u,v per vertex (length 2*N).
	UVs []float32
	// Colors holds r,g,b,a bytes per vertex (length 4*N).
	Colors []uint8
	// Indices holds triangle vertex indices (length 3*T, each < N).
	Indices []uint32
}

// VertexCount returns the number of vertices described by the position array.
//
// Returns:
//   - int: the vertex count
func (m *MeshBuffer) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of whole triangles in the index array.
//
// Returns:
//   - int: the triangle count
func (m *MeshBuffer) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the parallel-array invariants: positions length divisible
// by three, sibling arrays sized consistently with the vertex count, and
// every index inside range.
//
// Returns:
//   - error: a description of the first violated invariant, or nil
func (m *MeshBuffer) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d is not a multiple of 3", len(m.Positions))
	}
	n := m.VertexCount()
	if len(m.Normals) != 3*n {
		return fmt.Errorf("normals length %d, want %d", len(m.Normals), 3*n)
	}
	if len(m.UVs) != 2*n {
		return fmt.Errorf("uvs length %d, want %d", len(m.UVs), 2*n)
	}
	if len(m.Colors) != 4*n {
		return fmt.Errorf("colors length %d, want %d", len(m.Colors), 4*n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("indices length %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d at position %d out of range (vertex count %d)", idx, i, n)
		}
	}
	return nil
}

// PackRGBA packs four 8-bit channels into the pipeline's pixel word. R sits
// in the low byte so the buffer is RGBA byte order in memory on
// little-endian hosts, matching the RGBA8 texture upload convention.
//
// Parameters:
//   - r, g, b, a: the channel values
//
// Returns:
//   - uint32: the packed pixel
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// UnpackRGBA splits a packed pixel word into its four channels.
//
// Parameters:
//   - p: the packed pixel
//
// Returns:
//   - r, g, b, a: the channel values
func UnpackRGBA(p uint32) (r, g, b, a uint8) {
	return uint8(p), uint8(p >> 8), uint8(p >> 16), uint8(p >> 24)
}

package scene

import (
	"math"

	"github.com/roman01la/ps1ender-sub000/common"
)

// cubeFace describes one cube face as an outward normal and four corners
// wound counter-clockwise when viewed from outside.
type cubeFace struct {
	normal  [3]float32
	corners [4][3]float32
}

// NewCubeMesh builds an axis-aligned cube centered at the origin with
// per-face normals and per-face UVs. Every vertex color is opaque white so
// material preview tints multiply cleanly.
//
// Parameters:
//   - size: edge length
//
// Returns:
//   - *common.MeshBuffer: the cube mesh (24 vertices, 12 triangles)
func NewCubeMesh(size float32) *common.MeshBuffer {
	h := size / 2
	faces := []cubeFace{
		{normal: [3]float32{0, 0, 1}, corners: [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{normal: [3]float32{0, 0, -1}, corners: [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{normal: [3]float32{1, 0, 0}, corners: [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{normal: [3]float32{-1, 0, 0}, corners: [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{normal: [3]float32{0, 1, 0}, corners: [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{normal: [3]float32{0, -1, 0}, corners: [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	mesh := &common.MeshBuffer{
		Positions: make([]float32, 0, 24*3),
		Normals:   make([]float32, 0, 24*3),
		UVs:       make([]float32, 0, 24*2),
		Colors:    make([]uint8, 0, 24*4),
		Indices:   make([]uint32, 0, 36),
	}
	faceUVs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, face := range faces {
		base := uint32(len(mesh.Positions) / 3)
		for i, corner := range face.corners {
			mesh.Positions = append(mesh.Positions, corner[0], corner[1], corner[2])
			mesh.Normals = append(mesh.Normals, face.normal[0], face.normal[1], face.normal[2])
			mesh.UVs = append(mesh.UVs, faceUVs[i][0], faceUVs[i][1])
			mesh.Colors = append(mesh.Colors, 255, 255, 255, 255)
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return mesh
}

// NewPlaneMesh builds a single quad in the XZ plane centered at the origin,
// facing +Y.
//
// Parameters:
//   - size: edge length
//
// Returns:
//   - *common.MeshBuffer: the plane mesh (4 vertices, 2 triangles)
func NewPlaneMesh(size float32) *common.MeshBuffer {
	h := size / 2
	return &common.MeshBuffer{
		Positions: []float32{-h, 0, h, h, 0, h, h, 0, -h, -h, 0, -h},
		Normals:   []float32{0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		UVs:       []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Colors: []uint8{
			255, 255, 255, 255, 255, 255, 255, 255,
			255, 255, 255, 255, 255, 255, 255, 255,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// NewUVSphereMesh builds a latitude/longitude sphere centered at the origin
// with smooth normals and equirectangular UVs. The seam column and the pole
// rows duplicate vertices so UVs stay continuous.
//
// Parameters:
//   - radius: sphere radius
//   - segments: longitudinal subdivisions (minimum 3)
//   - rings: latitudinal subdivisions (minimum 2)
//
// Returns:
//   - *common.MeshBuffer: the sphere mesh
func NewUVSphereMesh(radius float32, segments, rings int) *common.MeshBuffer {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	vertexCount := (rings + 1) * (segments + 1)
	mesh := &common.MeshBuffer{
		Positions: make([]float32, 0, vertexCount*3),
		Normals:   make([]float32, 0, vertexCount*3),
		UVs:       make([]float32, 0, vertexCount*2),
		Colors:    make([]uint8, 0, vertexCount*4),
		Indices:   make([]uint32, 0, rings*segments*6),
	}

	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		sinT, cosT := math.Sin(theta), math.Cos(theta)
		for s := 0; s <= segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			nx := float32(sinT * math.Cos(phi))
			ny := float32(cosT)
			nz := float32(sinT * math.Sin(phi))
			mesh.Positions = append(mesh.Positions, nx*radius, ny*radius, nz*radius)
			mesh.Normals = append(mesh.Normals, nx, ny, nz)
			mesh.UVs = append(mesh.UVs, float32(s)/float32(segments), float32(r)/float32(rings))
			mesh.Colors = append(mesh.Colors, 255, 255, 255, 255)
		}
	}

	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			// Pole quads degenerate to one triangle each.
			if r > 0 {
				mesh.Indices = append(mesh.Indices, a, a+1, b)
			}
			if r < rings-1 {
				mesh.Indices = append(mesh.Indices, a+1, b+1, b)
			}
		}
	}
	return mesh
}

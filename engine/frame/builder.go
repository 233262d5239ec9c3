package frame

import (
	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/config"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/raster"
)

// Default capacity ceilings, mirroring the rasterizer's. The builder
// enforces them before posting so capacity overflow never crosses the
// transport boundary.
const (
	defaultMaxVertices = 1 << 16
	defaultMaxIndices  = 3 << 17
)

// BuilderInput bundles everything one Build call reads. The builder is a
// pure function of this input: it retains nothing and mutates nothing.
type BuilderInput struct {
	Scene     SceneSource
	Overlays  OverlaySource
	Camera    CameraSource
	Materials MaterialSource

	Settings      config.RenderSettings
	Width, Height int
	ClearColor    [3]uint8
	ShowGrid      bool

	// MaxVertices and MaxIndices override the capacity ceilings; zero
	// selects the defaults.
	MaxVertices int
	MaxIndices  int
}

// Build assembles one immutable frame from the current scene, overlay,
// camera and material state. Wireframe-mode and edge-only objects become
// line batches of their unique undirected edges; everything else becomes a
// solid render object with its material-resolved texture flag. Oversized
// buffers are truncated or skipped here, never rejected downstream.
func Build(in BuilderInput) *Frame {
	maxVerts := in.MaxVertices
	if maxVerts == 0 {
		maxVerts = defaultMaxVertices
	}
	maxIdx := in.MaxIndices
	if maxIdx == 0 {
		maxIdx = defaultMaxIndices
	}

	f := &Frame{
		ClearColor:       in.ClearColor,
		TexturingEnabled: in.Settings.Texturing,
	}

	if in.Camera != nil {
		f.View = in.Camera.ViewMatrix()
		aspect := float32(1)
		if in.Height > 0 {
			aspect = float32(in.Width) / float32(in.Height)
		}
		f.Projection = in.Camera.ProjectionMatrix(aspect)
	}

	if in.Scene != nil {
		for _, obj := range in.Scene.Objects() {
			if obj.Mesh == nil || obj.Mesh.Validate() != nil {
				continue
			}
			if obj.Mesh.VertexCount() > maxVerts {
				continue
			}

			if in.Settings.Wireframe || obj.EdgeOnly {
				if batch := wireframeBatch(obj.Mesh, &obj.Model, maxVerts); batch != nil {
					f.LineBatches = append(f.LineBatches, *batch)
				}
				continue
			}

			var mat *material.Graph
			if in.Materials != nil {
				mat = in.Materials.Material(&obj)
			}
			textured := material.ReferencesTexture(mat) && obj.HasTexture

			mesh := cloneMesh(obj.Mesh, maxIdx)
			if mat != nil && !textured {
				// Live material preview tints the vertex colors; the real
				// result arrives with the next bake.
				tintMesh(mesh, material.Preview(mat))
			}

			f.Objects = append(f.Objects, RenderObject{
				Mesh:          mesh,
				Model:         obj.Model,
				SmoothShading: obj.Smooth && in.Settings.SmoothShading,
				Textured:      textured,
			})
		}
	}

	if in.ShowGrid {
		f.Grid = gridBatch()
	}

	if in.Overlays != nil {
		for kind := OverlayKind(0); kind < OverlayCount; kind++ {
			f.Overlays[kind] = cloneOverlay(in.Overlays.Overlay(kind), maxVerts)
		}
	}

	if in.Materials != nil {
		f.TextureUpload = in.Materials.PendingUpload()
	}

	return f
}

// wireframeBatch extracts the unique undirected edges of a mesh into a
// world-space line batch. Edges are deduplicated on a canonical
// min(a,b)-max(a,b) key so shared triangle edges draw once.
func wireframeBatch(mesh *common.MeshBuffer, model *[16]float32, maxVerts int) *LineBatch {
	seen := make(map[uint64]bool, len(mesh.Indices))
	batch := &LineBatch{Depth: raster.DepthPerVertex}

	addEdge := func(a, b uint32) bool {
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		key := uint64(lo)<<32 | uint64(hi)
		if seen[key] {
			return true
		}
		if (len(batch.Positions)/3)+2 > maxVerts {
			return false // ceiling reached; drop the remaining edges
		}
		seen[key] = true
		for _, idx := range []uint32{a, b} {
			x, y, z, _ := common.TransformVec4(model[:], mesh.Positions[idx*3], mesh.Positions[idx*3+1], mesh.Positions[idx*3+2], 1)
			batch.Positions = append(batch.Positions, x, y, z)
			batch.Colors = append(batch.Colors, mesh.Colors[idx*4], mesh.Colors[idx*4+1], mesh.Colors[idx*4+2], 255)
		}
		return true
	}

	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		a, b, c := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		if !addEdge(a, b) || !addEdge(b, c) || !addEdge(c, a) {
			break
		}
	}

	if len(batch.Positions) == 0 {
		return nil
	}
	return batch
}

// gridBatch builds the ground-plane reference grid, forced behind all
// geometry.
func gridBatch() *LineBatch {
	const extent = 10
	const step = 1

	batch := &LineBatch{Depth: raster.DepthAlwaysBack}
	var gray uint8 = 70

	addLine := func(x0, z0, x1, z1 float32, shade uint8) {
		batch.Positions = append(batch.Positions, x0, 0, z0, x1, 0, z1)
		batch.Colors = append(batch.Colors, shade, shade, shade, 255, shade, shade, shade, 255)
	}

	for i := -extent; i <= extent; i += step {
		shade := gray
		if i == 0 {
			shade = 120 // axes pop slightly
		}
		addLine(float32(i), -extent, float32(i), extent, shade)
		addLine(-extent, float32(i), extent, float32(i), shade)
	}
	return batch
}

// cloneMesh copies a mesh buffer into the frame, truncating the index list
// to the ceiling on whole triangles.
func cloneMesh(mesh *common.MeshBuffer, maxIdx int) *common.MeshBuffer {
	indices := mesh.Indices
	if len(indices) > maxIdx {
		indices = indices[:maxIdx-maxIdx%3]
	}

	out := &common.MeshBuffer{
		Positions: append([]float32(nil), mesh.Positions...),
		Normals:   append([]float32(nil), mesh.Normals...),
		UVs:       append([]float32(nil), mesh.UVs...),
		Colors:    append([]uint8(nil), mesh.Colors...),
		Indices:   append([]uint32(nil), indices...),
	}
	return out
}

// tintMesh multiplies every vertex color by the preview color.
func tintMesh(mesh *common.MeshBuffer, tint [4]uint8) {
	for i := 0; i+3 < len(mesh.Colors); i += 4 {
		mesh.Colors[i] = uint8(int(mesh.Colors[i]) * int(tint[0]) / 255)
		mesh.Colors[i+1] = uint8(int(mesh.Colors[i+1]) * int(tint[1]) / 255)
		mesh.Colors[i+2] = uint8(int(mesh.Colors[i+2]) * int(tint[2]) / 255)
	}
}

func cloneOverlay(o *Overlay, maxVerts int) *Overlay {
	if o == nil {
		return nil
	}
	n := len(o.Positions) / 3
	if n > maxVerts {
		n = maxVerts
	}
	return &Overlay{
		Category:  o.Category,
		Positions: append([]float32(nil), o.Positions[:n*3]...),
		Colors:    append([]uint8(nil), o.Colors[:n*4]...),
		Depth:     o.Depth,
		Radius:    o.Radius,
	}
}

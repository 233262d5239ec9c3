package raster

import (
	"fmt"
	"math"

	"github.com/roman01la/ps1ender-sub000/common"
)

// DrawOptions carries the per-draw toggles the frame builder resolves for
// each render object. Global settings stay on the context; these are the
// per-object decisions.
type DrawOptions struct {
	// Snap rounds projected screen coordinates to the snap grid. This is a
	// per-draw toggle: overlays and gizmos draw unsnapped over snapped
	// geometry in the same frame.
	Snap bool

	// Smooth selects per-vertex (Gouraud) lighting over per-triangle.
	Smooth bool

	// Textured samples the bound texture slot, modulated by lighting. Only
	// effective while the context's texturing flag is on.
	Textured bool
}

// DrawTriangles transforms the mesh through model -> view -> projection,
// performs the perspective divide, optionally snaps screen coordinates to
// integers, and rasterizes depth-tested, lit triangles into the pixel
// buffer.
//
// Triangles with any vertex behind the near plane are skipped whole rather
// than clipped. The popping this causes at the near plane is part of the
// look, matching the era of hardware being imitated.
//
// Parameters:
//   - mesh: the mesh buffer (must satisfy its Validate invariants)
//   - model: 4x4 row-major model matrix
//   - view: 4x4 row-major view matrix
//   - proj: 4x4 row-major projection matrix
//   - opts: per-draw toggles
//
// Returns:
//   - error: an error if the mesh exceeds the context's capacities
func (c *Context) DrawTriangles(mesh *common.MeshBuffer, model, view, proj []float32, opts DrawOptions) error {
	n := mesh.VertexCount()
	if n > c.maxVertices {
		return fmt.Errorf("vertex count %d exceeds capacity %d", n, c.maxVertices)
	}
	if len(mesh.Indices) > c.maxIndices {
		return fmt.Errorf("index count %d exceeds capacity %d", len(mesh.Indices), c.maxIndices)
	}

	common.Mul4(c.mv[:], view[:16], model[:16])
	common.Mul4(c.mvp[:], proj[:16], c.mv[:])

	s := c.settings
	lit := s.Lighting
	lx, ly, lz := common.Normalize3(s.LightDirection[0], s.LightDirection[1], s.LightDirection[2])

	// Normals go through the inverse-transpose of the model matrix so that
	// non-uniform scale keeps them perpendicular to the surface. A singular
	// model matrix falls back to the plain rotation.
	invOK := common.Invert4(c.inv[:], model[:16])

	if cap(c.screen) < n {
		c.screen = make([]projectedVertex, n)
	}
	verts := c.screen[:n]

	for i := 0; i < n; i++ {
		px, py, pz := mesh.Positions[i*3], mesh.Positions[i*3+1], mesh.Positions[i*3+2]
		v := &verts[i]
		c.projectVertex(v, c.mvp[:], px, py, pz, opts.Snap)

		nx, ny, nz := mesh.Normals[i*3], mesh.Normals[i*3+1], mesh.Normals[i*3+2]
		if invOK {
			// Multiplying by the transpose of the inverse, written as a
			// row-vector product against the inverse itself.
			nx, ny, nz = nx*c.inv[0]+ny*c.inv[4]+nz*c.inv[8],
				nx*c.inv[1]+ny*c.inv[5]+nz*c.inv[9],
				nx*c.inv[2]+ny*c.inv[6]+nz*c.inv[10]
		} else {
			nx, ny, nz = common.TransformDir(model, nx, ny, nz)
		}
		v.nx, v.ny, v.nz = common.Normalize3(nx, ny, nz)
		v.u, v.v = mesh.UVs[i*2], mesh.UVs[i*2+1]
		v.r, v.g, v.b, v.a = mesh.Colors[i*4], mesh.Colors[i*4+1], mesh.Colors[i*4+2], mesh.Colors[i*4+3]

		if lit && opts.Smooth {
			sr, sg, sb := c.shade(v.nx, v.ny, v.nz, lx, ly, lz)
			v.r = mulChannel(v.r, sr)
			v.g = mulChannel(v.g, sg)
			v.b = mulChannel(v.b, sb)
		}
	}

	textured := opts.Textured && c.texturingEnabled && s.Texturing
	tex := c.texture()

	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		v0 := &verts[mesh.Indices[t]]
		v1 := &verts[mesh.Indices[t+1]]
		v2 := &verts[mesh.Indices[t+2]]

		if v0.behind || v1.behind || v2.behind {
			continue
		}

		if s.BackfaceCulling && !frontFacing(v0, v1, v2) {
			continue
		}

		var fr, fg, fb float32 = 1, 1, 1
		if lit && !opts.Smooth {
			// Face normal from the model-space winding, in world space.
			e1x, e1y, e1z := worldEdge(mesh, model, mesh.Indices[t], mesh.Indices[t+1])
			e2x, e2y, e2z := worldEdge(mesh, model, mesh.Indices[t], mesh.Indices[t+2])
			nx, ny, nz := common.Cross3(e1x, e1y, e1z, e2x, e2y, e2z)
			nx, ny, nz = common.Normalize3(nx, ny, nz)
			fr, fg, fb = c.shade(nx, ny, nz, lx, ly, lz)
		}

		c.fillTriangle(v0, v1, v2, fr, fg, fb, textured, tex, lit && opts.Smooth)
	}
	return nil
}

// DrawTransparentTriangles rasterizes a triangle soup (three vertices per
// triangle, world-space positions and per-vertex colors) with alpha
// blending: out = src*alpha + dst*(1-alpha). The depth test is biased so
// blended overlays pass against the coplanar surface they annotate, and the
// depth buffer is never written, so overlays cannot occlude later overlays.
//
// Parameters:
//   - positions: x,y,z per vertex, 9 floats per triangle
//   - colors: r,g,b,a per vertex
//   - view, proj: 4x4 row-major matrices
//   - mode: DepthPerVertex or a forced depth value
//
// Returns:
//   - error: an error if the batch exceeds the context's vertex capacity
func (c *Context) DrawTransparentTriangles(positions []float32, colors []uint8, view, proj []float32, mode DepthMode) error {
	n := len(positions) / 3
	if n > c.maxVertices {
		return fmt.Errorf("vertex count %d exceeds capacity %d", n, c.maxVertices)
	}

	common.Mul4(c.mvp[:], proj[:16], view[:16])

	if cap(c.screen) < n {
		c.screen = make([]projectedVertex, n)
	}
	verts := c.screen[:n]

	for i := 0; i < n; i++ {
		v := &verts[i]
		c.projectVertex(v, c.mvp[:], positions[i*3], positions[i*3+1], positions[i*3+2], false)
		v.r, v.g, v.b, v.a = colors[i*4], colors[i*4+1], colors[i*4+2], colors[i*4+3]
		if mode != DepthPerVertex {
			v.depth = uint16(mode)
		}
	}

	for t := 0; t+2 < n; t += 3 {
		v0, v1, v2 := &verts[t], &verts[t+1], &verts[t+2]
		if v0.behind || v1.behind || v2.behind {
			continue
		}
		c.blendTriangle(v0, v1, v2)
	}
	return nil
}

// projectVertex transforms one position through the combined matrix, does
// the perspective divide, maps to screen coordinates (with optional
// snapping), and derives the 16-bit depth.
func (c *Context) projectVertex(v *projectedVertex, mvp []float32, px, py, pz float32, snap bool) {
	cx, cy, cz, cw := common.TransformVec4(mvp, px, py, pz, 1)

	if cw <= 0 {
		// Perspective: w <= 0 means at or behind the eye plane.
		// (Orthographic projections keep w = 1 and never hit this.)
		v.behind = true
		return
	}

	ndcX := cx / cw
	ndcY := cy / cw
	ndcZ := cz / cw

	// Clip z is [0, 1]; anything in front of the near plane is skipped.
	if ndcZ < 0 {
		v.behind = true
		return
	}
	v.behind = false

	sx := (ndcX + 1) * 0.5 * float32(c.width)
	sy := (1 - ndcY) * 0.5 * float32(c.height)

	if snap {
		sx = c.snapCoord(sx, c.snapWidth(), c.width)
		sy = c.snapCoord(sy, c.snapHeight(), c.height)
	}

	v.x = sx
	v.y = sy

	if ndcZ > 1 {
		ndcZ = 1
	}
	v.depth = uint16(ndcZ * 65535)
}

func (c *Context) snapWidth() int {
	if c.settings.SnapWidth > 0 {
		return c.settings.SnapWidth
	}
	return c.width
}

func (c *Context) snapHeight() int {
	if c.settings.SnapHeight > 0 {
		return c.settings.SnapHeight
	}
	return c.height
}

// snapCoord rounds a screen coordinate on the snap grid. At the default
// snap resolution (== render resolution) this is plain integer rounding,
// which is exactly the fixed-point vertex wobble being reproduced.
func (c *Context) snapCoord(x float32, snapDim, renderDim int) float32 {
	if snapDim == renderDim {
		return float32(math.Round(float64(x)))
	}
	scale := float32(renderDim) / float32(snapDim)
	return float32(math.Round(float64(x/scale))) * scale
}

// shade computes the per-channel lighting factor for a world-space normal:
// ambient floor plus the directional term against the light's travel
// direction, scaled by intensity and light color, clamped to 1.
func (c *Context) shade(nx, ny, nz, lx, ly, lz float32) (r, g, b float32) {
	s := c.settings
	diff := common.Dot3(nx, ny, nz, -lx, -ly, -lz)
	if diff < 0 {
		diff = 0
	}
	diff *= s.LightIntensity
	r = clamp01(s.Ambient + diff*s.LightColor[0])
	g = clamp01(s.Ambient + diff*s.LightColor[1])
	b = clamp01(s.Ambient + diff*s.LightColor[2])
	return
}

func clamp01(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func mulChannel(c uint8, f float32) uint8 {
	v := float32(c) * f
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func frontFacing(v0, v1, v2 *projectedVertex) bool {
	// Screen-space winding; y grows downward, so counter-clockwise model
	// winding comes out with a negative cross product here.
	cross := (v1.x-v0.x)*(v2.y-v0.y) - (v1.y-v0.y)*(v2.x-v0.x)
	return cross < 0
}

func worldEdge(mesh *common.MeshBuffer, model []float32, from, to uint32) (x, y, z float32) {
	fx, fy, fz, _ := common.TransformVec4(model, mesh.Positions[from*3], mesh.Positions[from*3+1], mesh.Positions[from*3+2], 1)
	tx, ty, tz, _ := common.TransformVec4(model, mesh.Positions[to*3], mesh.Positions[to*3+1], mesh.Positions[to*3+2], 1)
	return tx - fx, ty - fy, tz - fz
}

// fillTriangle rasterizes one projected triangle with a bounding-box
// barycentric scan: interpolate depth, test, interpolate attributes, write.
// Attribute interpolation is affine (not perspective-correct) on purpose;
// the warp is period-accurate.
func (c *Context) fillTriangle(v0, v1, v2 *projectedVertex, fr, fg, fb float32, textured bool, tex *textureSlot, preLit bool) {
	minX, minY, maxX, maxY, ok := c.boundingBox(v0, v1, v2)
	if !ok {
		return
	}

	denom := (v1.y-v2.y)*(v0.x-v2.x) + (v2.x-v1.x)*(v0.y-v2.y)
	if denom == 0 {
		return // degenerate; edge-only meshes route through the line path
	}
	invDenom := 1 / denom

	d0 := float32(v0.depth)
	d1 := float32(v1.depth)
	d2 := float32(v2.depth)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		row := y * c.width
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			l0 := ((v1.y-v2.y)*(px-v2.x) + (v2.x-v1.x)*(py-v2.y)) * invDenom
			l1 := ((v2.y-v0.y)*(px-v2.x) + (v0.x-v2.x)*(py-v2.y)) * invDenom
			l2 := 1 - l0 - l1
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}

			z := l0*d0 + l1*d1 + l2*d2
			if z < 0 {
				z = 0
			} else if z > 65535 {
				z = 65535
			}
			idx := row + x
			if !c.depthTestAndSet(idx, uint16(z)) {
				continue
			}

			var r, g, b uint8
			if textured && tex != nil {
				u := l0*v0.u + l1*v1.u + l2*v2.u
				v := l0*v0.v + l1*v1.v + l2*v2.v
				tr, tg, tb, _ := common.UnpackRGBA(tex.sample(u, v))
				r, g, b = tr, tg, tb
			} else {
				r = uint8(l0*float32(v0.r) + l1*float32(v1.r) + l2*float32(v2.r))
				g = uint8(l0*float32(v0.g) + l1*float32(v1.g) + l2*float32(v2.g))
				b = uint8(l0*float32(v0.b) + l1*float32(v1.b) + l2*float32(v2.b))
			}

			if !preLit {
				r = mulChannel(r, fr)
				g = mulChannel(g, fg)
				b = mulChannel(b, fb)
			} else if textured {
				// Smooth-shaded textured surfaces: modulate the sample by
				// the interpolated lit vertex color.
				r = uint8(uint16(r) * uint16(l0*float32(v0.r)+l1*float32(v1.r)+l2*float32(v2.r)) / 255)
				g = uint8(uint16(g) * uint16(l0*float32(v0.g)+l1*float32(v1.g)+l2*float32(v2.g)) / 255)
				b = uint8(uint16(b) * uint16(l0*float32(v0.b)+l1*float32(v1.b)+l2*float32(v2.b)) / 255)
			}

			c.pixels[idx] = common.PackRGBA(r, g, b, 255)
		}
	}
}

// blendTriangle rasterizes with source-over blending, a loosened depth test,
// and no depth write.
func (c *Context) blendTriangle(v0, v1, v2 *projectedVertex) {
	minX, minY, maxX, maxY, ok := c.boundingBox(v0, v1, v2)
	if !ok {
		return
	}

	denom := (v1.y-v2.y)*(v0.x-v2.x) + (v2.x-v1.x)*(v0.y-v2.y)
	if denom == 0 {
		return
	}
	invDenom := 1 / denom

	d0 := float32(v0.depth)
	d1 := float32(v1.depth)
	d2 := float32(v2.depth)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		row := y * c.width
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			l0 := ((v1.y-v2.y)*(px-v2.x) + (v2.x-v1.x)*(py-v2.y)) * invDenom
			l1 := ((v2.y-v0.y)*(px-v2.x) + (v0.x-v2.x)*(py-v2.y)) * invDenom
			l2 := 1 - l0 - l1
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}

			z := l0*d0 + l1*d1 + l2*d2
			idx := row + x
			stored := int32(c.depth[idx])
			if int32(z) > stored+transparentDepthBias {
				continue
			}

			sr := l0*float32(v0.r) + l1*float32(v1.r) + l2*float32(v2.r)
			sg := l0*float32(v0.g) + l1*float32(v1.g) + l2*float32(v2.g)
			sb := l0*float32(v0.b) + l1*float32(v1.b) + l2*float32(v2.b)
			sa := (l0*float32(v0.a) + l1*float32(v1.a) + l2*float32(v2.a)) / 255

			dr, dg, db, da := common.UnpackRGBA(c.pixels[idx])
			or := uint8(sr*sa + float32(dr)*(1-sa))
			og := uint8(sg*sa + float32(dg)*(1-sa))
			ob := uint8(sb*sa + float32(db)*(1-sa))
			oa := da
			if oa == common.BackgroundAlpha {
				oa = 255
			}
			c.pixels[idx] = common.PackRGBA(or, og, ob, oa)
		}
	}
}

// boundingBox clamps the triangle's screen bounds to the buffer, reporting
// false when the triangle lies entirely outside.
func (c *Context) boundingBox(v0, v1, v2 *projectedVertex) (minX, minY, maxX, maxY int, ok bool) {
	minX = int(math.Floor(float64(min3(v0.x, v1.x, v2.x))))
	maxX = int(math.Ceil(float64(max3(v0.x, v1.x, v2.x))))
	minY = int(math.Floor(float64(min3(v0.y, v1.y, v2.y))))
	maxY = int(math.Ceil(float64(max3(v0.y, v1.y, v2.y))))

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > c.width-1 {
		maxX = c.width - 1
	}
	if maxY > c.height-1 {
		maxY = c.height - 1
	}
	return minX, minY, maxX, maxY, minX <= maxX && minY <= maxY
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

func (c *Context) texture() *textureSlot {
	if c.boundTexture < 0 || c.boundTexture >= MaxTextureSlots {
		return nil
	}
	t := &c.textures[c.boundTexture]
	if t.pixels == nil {
		return nil
	}
	return t
}

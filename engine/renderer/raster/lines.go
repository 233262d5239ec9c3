package raster

import (
	"fmt"

	"github.com/roman01la/ps1ender-sub000/common"
)

// DrawLine rasterizes a line segment with Bresenham stepping and a single
// depth value for the whole segment. Callers precompute the averaged,
// biased depth for depth-aware lines or pass a forced value for
// always-front/always-behind lines.
//
// Parameters:
//   - x0, y0, x1, y1: segment endpoints in screen pixels
//   - color: packed RGBA color
//   - depth: the depth value tested at every covered pixel
func (c *Context) DrawLine(x0, y0, x1, y1 int, color uint32, depth uint16) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 >= 0 && x0 < c.width && y0 >= 0 && y0 < c.height {
			idx := y0*c.width + x0
			if c.depthTestAndSet(idx, depth) {
				c.pixels[idx] = color
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawLineBatch projects world-space segments (two vertices each) and draws
// them with per-segment depth resolved from the batch's depth mode. In
// per-vertex mode each segment uses the biased average of its endpoint
// depths, so wireframe edges win the z-test against their own surface but
// still occlude correctly against everything else.
//
// Parameters:
//   - positions: x,y,z per vertex, 6 floats per segment
//   - colors: r,g,b,a per vertex (the first vertex's color paints the segment)
//   - view, proj: 4x4 row-major matrices
//   - mode: DepthPerVertex or a forced depth value
//
// Returns:
//   - error: an error if the batch exceeds the context's vertex capacity
func (c *Context) DrawLineBatch(positions []float32, colors []uint8, view, proj []float32, mode DepthMode) error {
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
		c.projectVertex(&verts[i], c.mvp[:], positions[i*3], positions[i*3+1], positions[i*3+2], false)
	}

	for s := 0; s+1 < n; s += 2 {
		a, b := &verts[s], &verts[s+1]
		if a.behind || b.behind {
			continue
		}

		depth := segmentDepth(a, b, mode)
		color := common.PackRGBA(colors[s*4], colors[s*4+1], colors[s*4+2], 255)
		c.DrawLine(int(a.x), int(a.y), int(b.x), int(b.y), color, depth)
	}
	return nil
}

// DrawPointsBatch projects world-space points and draws each as an
// axis-aligned square of the given pixel radius, every covered pixel
// independently depth-tested at the point's resolved depth.
//
// Parameters:
//   - positions: x,y,z per point
//   - colors: r,g,b,a per point
//   - radius: half-extent of the square in pixels (0 = single pixel)
//   - view, proj: 4x4 row-major matrices
//   - mode: DepthPerVertex or a forced depth value
//
// Returns:
//   - error: an error if the batch exceeds the context's vertex capacity
func (c *Context) DrawPointsBatch(positions []float32, colors []uint8, radius int, view, proj []float32, mode DepthMode) error {
	n := len(positions) / 3
	if n > c.maxVertices {
		return fmt.Errorf("vertex count %d exceeds capacity %d", n, c.maxVertices)
	}

	common.Mul4(c.mvp[:], proj[:16], view[:16])

	var v projectedVertex
	for i := 0; i < n; i++ {
		c.projectVertex(&v, c.mvp[:], positions[i*3], positions[i*3+1], positions[i*3+2], false)
		if v.behind {
			continue
		}

		depth := pointDepth(&v, mode)
		color := common.PackRGBA(colors[i*4], colors[i*4+1], colors[i*4+2], 255)

		cx, cy := int(v.x), int(v.y)
		for y := cy - radius; y <= cy+radius; y++ {
			if y < 0 || y >= c.height {
				continue
			}
			for x := cx - radius; x <= cx+radius; x++ {
				if x < 0 || x >= c.width {
					continue
				}
				idx := y*c.width + x
				if c.depthTestAndSet(idx, depth) {
					c.pixels[idx] = color
				}
			}
		}
	}
	return nil
}

// segmentDepth resolves a segment's single depth value: the forced batch
// depth, or the biased endpoint average.
func segmentDepth(a, b *projectedVertex, mode DepthMode) uint16 {
	if mode != DepthPerVertex {
		return uint16(mode)
	}
	avg := (int32(a.depth) + int32(b.depth)) / 2
	return biasDepth(avg)
}

func pointDepth(v *projectedVertex, mode DepthMode) uint16 {
	if mode != DepthPerVertex {
		return uint16(mode)
	}
	return biasDepth(int32(v.depth))
}

// biasDepth pulls a computed depth slightly toward the camera so lines and
// points drawn on a surface are not eaten by it.
func biasDepth(d int32) uint16 {
	d -= depthBias
	if d < 0 {
		d = 0
	}
	return uint16(d)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

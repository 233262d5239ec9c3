// Package raster is the software rasterization core: an owned pixel buffer,
// a 16-bit depth buffer, and the primitive draw operations the viewport is
// built from. All state lives on an explicit Context so multiple independent
// rasterizers can coexist in one process and tests stay deterministic.
package raster

import (
	"fmt"

	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/config"
)

const (
	// MaxTextureSlots is the number of texture slots a context owns.
	MaxTextureSlots = 8

	// MaxTextureSize is the widest/tallest texture a slot accepts.
	MaxTextureSize = 256

	// depthBias nudges computed line/point depths toward the camera so
	// edges drawn over their own surface win the z-test.
	depthBias = 16

	// transparentDepthBias loosens the depth test for blended overlays so
	// they draw over coplanar geometry instead of z-fighting it.
	transparentDepthBias = 64
)

// DepthMode controls how a line/point/transparent batch resolves depth.
// DepthPerVertex computes depth from the projected geometry; any value in
// [0, 65535] forces that depth for the whole batch (0 = always in front,
// 65535 = always behind).
type DepthMode int32

// DepthPerVertex selects normal per-vertex depth computation for a batch.
const DepthPerVertex DepthMode = -1

// DepthAlwaysFront and DepthAlwaysBack are the forced-depth extremes used by
// gizmos and the grid respectively.
const (
	DepthAlwaysFront DepthMode = 0
	DepthAlwaysBack  DepthMode = 65535
)

type textureSlot struct {
	width  int
	height int
	pixels []uint32 // packed RGBA, row-major
}

// Context owns the pixel and depth buffers plus the fixed-capacity resources
// of one software rasterizer. Capacities are set at construction and never
// grow; callers (the frame builder) must stay under them.
type Context struct {
	width  int
	height int

	pixels []uint32 // packed RGBA, one per pixel
	depth  []uint16 // 0 = near, 65535 = far

	maxWidth    int
	maxHeight   int
	maxVertices int
	maxIndices  int

	settings config.RenderSettings

	textures [MaxTextureSlots]textureSlot

	// scratch buffers reused across draw calls to avoid per-frame garbage
	mvp      [16]float32
	mv       [16]float32
	inv      [16]float32
	screen   []projectedVertex
	texturingEnabled bool
	boundTexture     int
}

// projectedVertex is a vertex after projection to screen space.
type projectedVertex struct {
	x, y   float32 // screen coordinates
	depth  uint16
	behind bool // behind the near plane; poisons its triangles
	nx, ny, nz float32 // world-space normal
	u, v       float32
	r, g, b, a uint8
}

// ContextOption configures a Context during construction.
type ContextOption func(*Context)

// WithMaxResolution is an option builder that caps the render resolution the
// context can be resized to.
//
// Parameters:
//   - width, height: the maximum render resolution in pixels
//
// Returns:
//   - ContextOption: a function that applies the resolution cap
func WithMaxResolution(width, height int) ContextOption {
	return func(c *Context) {
		c.maxWidth = width
		c.maxHeight = height
	}
}

// WithMaxVertices is an option builder that sets the per-draw vertex ceiling.
//
// Parameters:
//   - n: the maximum vertex count accepted by a single draw
//
// Returns:
//   - ContextOption: a function that applies the vertex ceiling
func WithMaxVertices(n int) ContextOption {
	return func(c *Context) {
		c.maxVertices = n
	}
}

// WithMaxIndices is an option builder that sets the per-draw index ceiling.
//
// Parameters:
//   - n: the maximum index count accepted by a single draw
//
// Returns:
//   - ContextOption: a function that applies the index ceiling
func WithMaxIndices(n int) ContextOption {
	return func(c *Context) {
		c.maxIndices = n
	}
}

// NewContext creates a rasterization context at the given render resolution.
// Buffer capacities are fixed here; Resize may move within the configured
// maximum resolution but never beyond it.
//
// Parameters:
//   - width, height: the initial render resolution in pixels
//   - options: functional options for capacities
//
// Returns:
//   - *Context: the context
//   - error: an error if the resolution is out of range
func NewContext(width, height int, options ...ContextOption) (*Context, error) {
	c := &Context{
		maxWidth:     1024,
		maxHeight:    1024,
		maxVertices:  1 << 16,
		maxIndices:   3 << 17,
		settings:     config.DefaultRenderSettings(),
		boundTexture: -1,
	}
	for _, opt := range options {
		opt(c)
	}

	if err := c.Resize(width, height); err != nil {
		return nil, err
	}
	c.screen = make([]projectedVertex, 0, 1024)
	return c, nil
}

// Resize sets the render resolution, reallocating the pixel and depth
// buffers. Contents are undefined until the next Clear.
//
// Parameters:
//   - width, height: the new render resolution in pixels
//
// Returns:
//   - error: an error if the resolution exceeds the context's capacity
func (c *Context) Resize(width, height int) error {
	if width <= 0 || height <= 0 || width > c.maxWidth || height > c.maxHeight {
		return fmt.Errorf("render resolution %dx%d out of range (max %dx%d)", width, height, c.maxWidth, c.maxHeight)
	}
	c.width = width
	c.height = height
	c.pixels = make([]uint32, width*height)
	c.depth = make([]uint16, width*height)
	return nil
}

// Width returns the current render width in pixels.
func (c *Context) Width() int { return c.width }

// Height returns the current render height in pixels.
func (c *Context) Height() int { return c.height }

// Pixels returns the packed RGBA pixel buffer. The slice is owned by the
// context and valid until the next Resize.
func (c *Context) Pixels() []uint32 { return c.pixels }

// Depth returns the 16-bit depth buffer. The slice is owned by the context
// and valid until the next Resize.
func (c *Context) Depth() []uint16 { return c.depth }

// SetSettings replaces the context's render settings. Settings are read at
// draw time, so the change applies to the next draw call.
//
// Parameters:
//   - s: the new settings record
func (c *Context) SetSettings(s config.RenderSettings) {
	c.settings = s
}

// Settings returns the settings currently in effect.
func (c *Context) Settings() config.RenderSettings {
	return c.settings
}

// SetTexturingEnabled toggles texture sampling for subsequent textured
// draws. The frame builder derives this per frame from the active material.
//
// Parameters:
//   - enabled: whether textured draws sample the bound slot
func (c *Context) SetTexturingEnabled(enabled bool) {
	c.texturingEnabled = enabled
}

// Clear resets every pixel to the clear color with the background alpha
// sentinel and every depth entry to far. Must be called once per frame
// before any draw.
//
// Parameters:
//   - r, g, b: the clear color channels
func (c *Context) Clear(r, g, b uint8) {
	px := common.PackRGBA(r, g, b, common.BackgroundAlpha)
	n := len(c.pixels)
	if n == 0 {
		return
	}
	// copy-doubling fill
	c.pixels[0] = px
	c.depth[0] = 0xFFFF
	for i := 1; i < n; i *= 2 {
		copy(c.pixels[i:], c.pixels[:i])
		copy(c.depth[i:], c.depth[:i])
	}
}

// UploadTexture stores packed RGBA pixel data in a texture slot. Slot index
// and dimensions are validated here; this is the context's hard resource
// boundary.
//
// Parameters:
//   - slot: the texture slot index
//   - width, height: the texture dimensions in pixels
//   - pixels: RGBA bytes, 4 per pixel, row-major
//
// Returns:
//   - error: an error if the slot, dimensions, or data size are out of range
func (c *Context) UploadTexture(slot, width, height int, pixels []byte) error {
	if slot < 0 || slot >= MaxTextureSlots {
		return fmt.Errorf("texture slot %d out of range [0, %d)", slot, MaxTextureSlots)
	}
	if width <= 0 || height <= 0 || width > MaxTextureSize || height > MaxTextureSize {
		return fmt.Errorf("texture size %dx%d out of range (max %d)", width, height, MaxTextureSize)
	}
	if len(pixels) < width*height*4 {
		return fmt.Errorf("texture data %d bytes, want %d", len(pixels), width*height*4)
	}

	t := &c.textures[slot]
	t.width = width
	t.height = height
	t.pixels = make([]uint32, width*height)
	for i := range t.pixels {
		t.pixels[i] = common.PackRGBA(pixels[i*4], pixels[i*4+1], pixels[i*4+2], pixels[i*4+3])
	}
	return nil
}

// BindTexture selects the slot textured draws sample from. Binding an empty
// or out-of-range slot is not an error; sampling it yields neutral gray
// (stale slots degrade, they do not fault).
//
// Parameters:
//   - slot: the texture slot index, or -1 for none
func (c *Context) BindTexture(slot int) {
	c.boundTexture = slot
}

func (c *Context) depthTestAndSet(idx int, d uint16) bool {
	if d >= c.depth[idx] {
		return false
	}
	c.depth[idx] = d
	return true
}

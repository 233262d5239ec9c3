package present

import "github.com/cogentcore/webgpu/wgpu"

// Effects selects the display-time filters applied while presenting. The
// stage is purely a filter over the raw pixel buffer: it never writes
// depth, and re-running it over the same buffer produces the same output.
type Effects struct {
	// Dithering quantizes drawn geometry to 5 bits per channel through a
	// 4x4 ordered dither matrix. Background pixels (alpha sentinel) are
	// left untouched.
	Dithering bool

	// Scanlines darkens every other display row, background included.
	Scanlines bool

	// ScanlineIntensity is the darkening factor in [0, 1].
	ScanlineIntensity float32
}

// Surface is a presentation target, handed to a backend exactly once at
// initialization. Ownership transfers with it: the previous owner must not
// draw to the target afterwards.
type Surface interface{ isSurface() }

// WindowSurface targets an OS window through its WebGPU surface
// descriptor (produced by the windowing layer's glfw bridge).
type WindowSurface struct {
	Descriptor *wgpu.SurfaceDescriptor
}

// ImageSurface targets an in-memory image, used headless and in tests.
type ImageSurface struct{}

func (WindowSurface) isSurface() {}
func (ImageSurface) isSurface()  {}

// Backend presents raw rasterizer output to a display surface: nearest
// neighbor resample to display resolution, then the enabled post effects.
type Backend interface {
	// Init binds the backend to its surface and sizes. Called once; a
	// failure here is terminal for the backend.
	//
	// Parameters:
	//   - surface: the presentation target (type must match the backend)
	//   - renderW, renderH: rasterization resolution in pixels
	//   - displayW, displayH: display resolution in pixels
	//
	// Returns:
	//   - error: an error when the surface type is wrong or device setup fails
	Init(surface Surface, renderW, renderH, displayW, displayH int) error

	// Resize updates the display resolution.
	Resize(displayW, displayH int)

	// SetRenderSize updates the rasterization resolution, reallocating the
	// source texture.
	//
	// Parameters:
	//   - w, h: new rasterization resolution
	//
	// Returns:
	//   - error: an error when reallocation fails
	SetRenderSize(w, h int) error

	// Present uploads one raw pixel buffer (packed RGBA, render
	// resolution) and displays it with the given effects.
	//
	// Parameters:
	//   - pixels: renderW*renderH packed RGBA values
	//   - effects: the display-time filters to apply
	//
	// Returns:
	//   - error: an error when the surface rejects the frame
	Present(pixels []uint32, effects Effects) error

	// Release frees the backend's resources. The backend is unusable
	// afterwards.
	Release()
}

// bayer4 is the 4x4 ordered dither matrix indexed by screen position.
var bayer4 = [4][4]uint8{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

package renderer

import (
	"github.com/roman01la/ps1ender-sub000/engine/renderer/present"
)

// RendererBuilderOption is a functional option for configuring a Renderer.
// Use the With* functions to create options.
type RendererBuilderOption func(r *viewportRenderer)

// WithBackend sets the presentation backend. Defaults to the software
// backend when unset; pass the wgpu backend for an on-screen viewport.
//
// Parameters:
//   - backend: the presentation backend
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithBackend(backend present.Backend) RendererBuilderOption {
	return func(r *viewportRenderer) {
		r.backend = backend
	}
}

// WithTargetFPS sets the initial render cadence in frames per second.
// Values <= 0 are treated as the default (60).
//
// Parameters:
//   - fps: target frames per second
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithTargetFPS(fps int) RendererBuilderOption {
	return func(r *viewportRenderer) {
		if fps > 0 {
			r.targetFPS = fps
		}
	}
}

// WithMaxVertices sets the raster context's per-draw vertex ceiling.
//
// Parameters:
//   - n: maximum vertex count per draw
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMaxVertices(n int) RendererBuilderOption {
	return func(r *viewportRenderer) {
		r.maxVertices = n
	}
}

// WithMaxIndices sets the raster context's per-draw index ceiling.
//
// Parameters:
//   - n: maximum index count per draw
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMaxIndices(n int) RendererBuilderOption {
	return func(r *viewportRenderer) {
		r.maxIndices = n
	}
}

// WithMaxRenderResolution caps the rasterization resolution the renderer
// will accept from SetRenderResolutionCommand.
//
// Parameters:
//   - width, height: maximum render resolution in pixels
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMaxRenderResolution(width, height int) RendererBuilderOption {
	return func(r *viewportRenderer) {
		r.maxRenderW = width
		r.maxRenderH = height
	}
}

package engine

import (
	"time"

	"github.com/roman01la/ps1ender-sub000/engine/camera"
	"github.com/roman01la/ps1ender-sub000/engine/renderer"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
	"github.com/roman01la/ps1ender-sub000/engine/scene"
	"github.com/roman01la/ps1ender-sub000/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*viewportEngine)

// WithWindow sets a custom configured window for the engine to use rather
// than allowing the engine to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.win = w
	}
}

// WithScene sets the scene registry the engine ticks from.
//
// Parameters:
//   - s: the Scene to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.sc = s
	}
}

// WithCamera sets the viewport camera.
//
// Parameters:
//   - c: the Camera to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.cam = c
	}
}

// WithRenderer sets a pre-configured renderer, replacing the default
// wgpu-backed one. Useful for headless runs on the software backend.
//
// Parameters:
//   - r: the Renderer to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.rend = r
	}
}

// WithBaker sets the texture baker used by BakeMaterial.
//
// Parameters:
//   - b: the Baker to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBaker(b material.Baker) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.baker = b
	}
}

// WithSettingsPath sets the YAML file render settings load from at
// construction and save to on shutdown.
//
// Parameters:
//   - path: the settings file path
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSettingsPath(path string) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.settingsPath = path
	}
}

// WithTickRate sets the frame builder cadence in ticks per second.
// Values <= 0 are treated as the default (24).
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *viewportEngine) {
		if fps > 0 {
			e.tickRate = time.Second / time.Duration(fps)
		}
	}
}

// WithRenderResolution sets the initial rasterization resolution.
//
// Parameters:
//   - width, height: render resolution in pixels
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderResolution(width, height int) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.renderW = width
		e.renderH = height
	}
}

// WithClearColor sets the viewport background color.
//
// Parameters:
//   - r, g, b: the clear color channels
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClearColor(r, g, b uint8) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.clearColor = [3]uint8{r, g, b}
	}
}

// WithGrid toggles the ground grid.
//
// Parameters:
//   - show: whether the grid batch is built each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGrid(show bool) EngineBuilderOption {
	return func(e *viewportEngine) {
		e.showGrid = show
	}
}

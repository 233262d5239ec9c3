// Package config holds the viewport's render settings and their on-disk
// persistence.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RenderSettings is the flat configuration record shared by the frame
// builder, the rasterizer, and the presentation stage. Every field is read
// at draw time, never cached by a consumer.
type RenderSettings struct {
	// Wireframe renders every object as line batches instead of filled
	// triangles.
	Wireframe bool `yaml:"wireframe"`

	// Lighting toggles directional + ambient shading.
	Lighting bool `yaml:"lighting"`

	// Dithering toggles 5-bit color quantization with ordered dithering in
	// the presentation stage.
	Dithering bool `yaml:"dithering"`

	// Texturing toggles texture sampling during triangle rasterization.
	Texturing bool `yaml:"texturing"`

	// BackfaceCulling skips screen-space clockwise triangles.
	BackfaceCulling bool `yaml:"backface_culling"`

	// VertexSnapping rounds projected screen coordinates to integers, the
	// core retro artifact.
	VertexSnapping bool `yaml:"vertex_snapping"`

	// SmoothShading selects per-vertex (Gouraud) over per-triangle lighting.
	SmoothShading bool `yaml:"smooth_shading"`

	// Scanlines darkens every other display row in the presentation stage.
	Scanlines bool `yaml:"scanlines"`

	// Ambient is the lighting floor in [0, 1].
	Ambient float32 `yaml:"ambient"`

	// SnapWidth and SnapHeight define the grid vertex snapping rounds to.
	// Both default to the render resolution (0 means "use render size").
	SnapWidth  int `yaml:"snap_width"`
	SnapHeight int `yaml:"snap_height"`

	// LightDirection is the world-space direction light travels.
	LightDirection [3]float32 `yaml:"light_direction"`

	// LightColor is the directional light's RGB color in [0, 1].
	LightColor [3]float32 `yaml:"light_color"`

	// LightIntensity scales the directional contribution.
	LightIntensity float32 `yaml:"light_intensity"`

	// ScanlineIntensity is how much darker alternating rows get, in [0, 1].
	ScanlineIntensity float32 `yaml:"scanline_intensity"`
}

// DefaultRenderSettings returns the settings a fresh viewport starts with:
// the full retro look enabled, lit, culled, light from the upper front left.
//
// Returns:
//   - RenderSettings: the default settings record
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Wireframe:         false,
		Lighting:          true,
		Dithering:         true,
		Texturing:         true,
		BackfaceCulling:   true,
		VertexSnapping:    true,
		SmoothShading:     false,
		Scanlines:         true,
		Ambient:           0.35,
		LightDirection:    [3]float32{-0.5, -1, -0.6},
		LightColor:        [3]float32{1, 1, 1},
		LightIntensity:    1,
		ScanlineIntensity: 0.25,
	}
}

// Load reads render settings from the given YAML file. A missing file is not
// an error: the defaults are returned so a fresh install works without any
// configuration present.
//
// Parameters:
//   - path: the settings file path
//
// Returns:
//   - RenderSettings: the loaded (or default) settings
//   - error: an error if the file exists but cannot be read or parsed
func Load(path string) (RenderSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRenderSettings(), nil
		}
		return DefaultRenderSettings(), fmt.Errorf("read settings %s: %w", path, err)
	}

	s := DefaultRenderSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultRenderSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings to the given path as YAML.
//
// Parameters:
//   - path: the settings file path
//   - s: the settings to persist
//
// Returns:
//   - error: an error if marshalling or writing fails
func Save(path string, s RenderSettings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

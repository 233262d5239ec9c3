package scene

import (
	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
)

// ObjectBuilderOption is a functional option for configuring an Object.
// Use the With* functions to create options.
type ObjectBuilderOption func(o *sceneObject)

// WithMesh sets the object's mesh buffer.
//
// Parameters:
//   - mesh: the mesh to assign
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithMesh(mesh *common.MeshBuffer) ObjectBuilderOption {
	return func(o *sceneObject) {
		o.mesh = mesh
	}
}

// WithPosition sets the object's world position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithPosition(x, y, z float32) ObjectBuilderOption {
	return func(o *sceneObject) {
		o.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the object's Euler rotation in radians.
//
// Parameters:
//   - rx, ry, rz: rotation around x, y, z
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithRotation(rx, ry, rz float32) ObjectBuilderOption {
	return func(o *sceneObject) {
		o.rotation = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the object's per-axis scale.
//
// Parameters:
//   - sx, sy, sz: scale along x, y, z
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithScale(sx, sy, sz float32) ObjectBuilderOption {
	return func(o *sceneObject) {
		o.scale = [3]float32{sx, sy, sz}
	}
}

// WithMaterial sets the object's material graph.
//
// Parameters:
//   - graph: the material graph
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithMaterial(graph *material.Graph) ObjectBuilderOption {
	return func(o *sceneObject) {
		o.mat = graph
	}
}

// WithEdgeOnly sets the per-object wireframe flag.
//
// Parameters:
//   - edgeOnly: true to render edges only
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithEdgeOnly(edgeOnly bool) ObjectBuilderOption {
	return func(o *sceneObject) {
		o.edgeOnly = edgeOnly
	}
}

// WithSmooth sets the per-object smooth shading flag.
//
// Parameters:
//   - smooth: true for smooth shading
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithSmooth(smooth bool) ObjectBuilderOption {
	return func(o *sceneObject) {
		o.smooth = smooth
	}
}

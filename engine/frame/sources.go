package frame

import (
	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
)

// SceneObject is the builder's read-only view of one visible object. The
// scene graph itself (selection state, undo history, transform tools) stays
// with the editing collaborator; only this projection crosses into the
// frame builder.
type SceneObject struct {
	Mesh       *common.MeshBuffer
	Model      [16]float32
	EdgeOnly   bool
	Smooth     bool
	HasTexture bool
	Material   *material.Graph
}

// SceneSource supplies the current visible objects. Implementations must
// return data the builder may read for the duration of one Build call.
type SceneSource interface {
	// Objects returns the visible scene objects for this tick.
	Objects() []SceneObject
}

// OverlaySource supplies the optional editor overlay batches. A nil return
// for a kind means that overlay is absent this tick.
type OverlaySource interface {
	// Overlay returns the batch for one overlay slot, or nil.
	Overlay(kind OverlayKind) *Overlay
}

// CameraSource supplies the view and projection matrices for this tick.
type CameraSource interface {
	// ViewMatrix returns the 4x4 row-major view matrix.
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the 4x4 row-major projection matrix for the
	// given aspect ratio.
	ProjectionMatrix(aspect float32) [16]float32
}

// MaterialSource supplies the active material set and any pending texture
// bake result.
type MaterialSource interface {
	// Material resolves the material graph for a scene object, or nil when
	// the object has none.
	Material(obj *SceneObject) *material.Graph

	// PendingUpload returns a freshly baked texture to upload this frame,
	// or nil. Returning it consumes it: the next call reports nil until
	// another bake completes.
	PendingUpload() *TextureUpload
}

package frame

import (
	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/raster"
)

// OverlayKind names the fixed set of editor overlay slots a frame can carry.
// The builder treats them as opaque draw requests; their editing semantics
// live entirely in the collaborator that supplies them.
type OverlayKind int

const (
	OverlayUnselectedVertices OverlayKind = iota
	OverlaySelectedVertices
	OverlayVertexWireframe
	OverlayEdgeHighlight
	OverlayFaceFill
	OverlayFaceHighlight
	OverlayGizmo
	OverlayOriginMarker

	OverlayCount
)

// OverlayCategory is the draw primitive an overlay resolves to.
type OverlayCategory uint8

const (
	CategoryPoints OverlayCategory = iota
	CategoryLines
	CategoryTriangles
)

// Overlay is one optional editor overlay batch: positions and colors in the
// usual per-vertex convention, the depth policy, and for point overlays a
// pixel radius.
type Overlay struct {
	Category  OverlayCategory
	Positions []float32
	Colors    []uint8
	Depth     raster.DepthMode
	Radius    int
}

// RenderObject is one solid scene object in a frame: a mesh buffer, its
// model matrix and the per-object flags resolved by the builder. Rebuilt
// every frame and never mutated after the frame is posted.
type RenderObject struct {
	Mesh          *common.MeshBuffer
	Model         [16]float32
	SmoothShading bool
	Textured      bool
}

// LineBatch is a set of world-space segments with one depth policy.
type LineBatch struct {
	Positions []float32
	Colors    []uint8
	Depth     raster.DepthMode
}

// TextureUpload carries freshly baked texture pixels for one slot. At most
// one per frame; the renderer uploads it before drawing.
type TextureUpload struct {
	Slot   int
	Width  int
	Height int
	Pixels []uint8
}

// Frame is a complete, self-contained rendering instruction: the rasterizer
// reads nothing outside it. All buffers inside a frame are owned by the
// frame; the builder never retains references to them after posting.
type Frame struct {
	ClearColor [3]uint8
	View       [16]float32
	Projection [16]float32

	Objects     []RenderObject
	LineBatches []LineBatch
	Grid        *LineBatch

	Overlays [OverlayCount]*Overlay

	TextureUpload    *TextureUpload
	TexturingEnabled bool
}

package frame

import (
	"testing"

	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/config"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/raster"
)

type stubScene struct{ objects []SceneObject }

func (s *stubScene) Objects() []SceneObject { return s.objects }

type stubOverlays struct{ batches [OverlayCount]*Overlay }

func (s *stubOverlays) Overlay(kind OverlayKind) *Overlay { return s.batches[kind] }

type stubCamera struct{}

func (stubCamera) ViewMatrix() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

func (stubCamera) ProjectionMatrix(aspect float32) [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

type stubMaterials struct {
	graph  *material.Graph
	upload *TextureUpload
}

func (s *stubMaterials) Material(*SceneObject) *material.Graph { return s.graph }

func (s *stubMaterials) PendingUpload() *TextureUpload {
	u := s.upload
	s.upload = nil
	return u
}

func identity16() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

// twoTriangleQuad shares the diagonal edge 0-2 between its triangles.
func twoTriangleQuad() *common.MeshBuffer {
	return &common.MeshBuffer{
		Positions: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		UVs:       make([]float32, 8),
		Colors: []uint8{
			255, 255, 255, 255, 255, 255, 255, 255,
			255, 255, 255, 255, 255, 255, 255, 255,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func baseInput(scene SceneSource) BuilderInput {
	s := config.DefaultRenderSettings()
	s.Wireframe = false
	return BuilderInput{
		Scene:    scene,
		Camera:   stubCamera{},
		Settings: s,
		Width:    64,
		Height:   64,
	}
}

func TestBuildWireframeDeduplicatesSharedEdges(t *testing.T) {
	in := baseInput(&stubScene{objects: []SceneObject{{
		Mesh:  twoTriangleQuad(),
		Model: identity16(),
	}}})
	in.Settings.Wireframe = true

	f := Build(in)
	if len(f.Objects) != 0 {
		t.Fatalf("wireframe mode emitted %d solid objects", len(f.Objects))
	}
	if len(f.LineBatches) != 1 {
		t.Fatalf("got %d line batches, want 1", len(f.LineBatches))
	}

	// Two triangles sharing one edge: 5 unique edges, 2 vertices each.
	segments := len(f.LineBatches[0].Positions) / 6
	if segments != 5 {
		t.Errorf("got %d segments, want 5 unique edges", segments)
	}
	if f.LineBatches[0].Depth != raster.DepthPerVertex {
		t.Errorf("wireframe depth mode = %d, want per-vertex", f.LineBatches[0].Depth)
	}
}

func TestBuildWireframeAppliesModelMatrix(t *testing.T) {
	model := identity16()
	model[3] = 10 // translate +10 x

	in := baseInput(&stubScene{objects: []SceneObject{{
		Mesh:  twoTriangleQuad(),
		Model: model,
	}}})
	in.Settings.Wireframe = true

	f := Build(in)
	if len(f.LineBatches) != 1 {
		t.Fatalf("got %d line batches, want 1", len(f.LineBatches))
	}
	for i := 0; i < len(f.LineBatches[0].Positions); i += 3 {
		if x := f.LineBatches[0].Positions[i]; x < 10 || x > 11 {
			t.Fatalf("segment x = %v, want world-space coordinates in [10, 11]", x)
		}
	}
}

func TestBuildTextureFlagRequiresBothMaterialAndAssignment(t *testing.T) {
	texGraph := &material.Graph{
		Nodes: []material.Node{
			{ID: 1, Kind: material.NodeOutput},
			{ID: 2, Kind: material.NodeTexture},
		},
		Connections: []material.Connection{{From: 2, To: 1, Input: 0}},
	}
	flatGraph := &material.Graph{
		Nodes: []material.Node{
			{ID: 1, Kind: material.NodeOutput},
			{ID: 2, Kind: material.NodeFlatColor, Color: [4]uint8{255, 255, 255, 255}},
		},
		Connections: []material.Connection{{From: 2, To: 1, Input: 0}},
	}

	cases := []struct {
		name       string
		graph      *material.Graph
		hasTexture bool
		want       bool
	}{
		{"texture node and assignment", texGraph, true, true},
		{"texture node, no assignment", texGraph, false, false},
		{"no texture node, assignment", flatGraph, true, false},
		{"neither", flatGraph, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput(&stubScene{objects: []SceneObject{{
				Mesh:       twoTriangleQuad(),
				Model:      identity16(),
				HasTexture: tc.hasTexture,
			}}})
			in.Materials = &stubMaterials{graph: tc.graph}

			f := Build(in)
			if len(f.Objects) != 1 {
				t.Fatalf("got %d objects, want 1", len(f.Objects))
			}
			if f.Objects[0].Textured != tc.want {
				t.Errorf("Textured = %v, want %v", f.Objects[0].Textured, tc.want)
			}
		})
	}
}

func TestBuildDoesNotAliasInputMesh(t *testing.T) {
	mesh := twoTriangleQuad()
	in := baseInput(&stubScene{objects: []SceneObject{{
		Mesh:  mesh,
		Model: identity16(),
	}}})

	f := Build(in)
	mesh.Positions[0] = 999
	if f.Objects[0].Mesh.Positions[0] == 999 {
		t.Error("frame aliases the scene's mesh buffer; frames must be self-contained")
	}
}

func TestBuildPreviewTintsUntexturedMaterial(t *testing.T) {
	// flat #804020 material: the white mesh colors pick up the preview tint.
	g := &material.Graph{
		Nodes: []material.Node{
			{ID: 1, Kind: material.NodeOutput},
			{ID: 2, Kind: material.NodeFlatColor, Color: [4]uint8{0x80, 0x40, 0x20, 255}},
		},
		Connections: []material.Connection{{From: 2, To: 1, Input: 0}},
	}
	in := baseInput(&stubScene{objects: []SceneObject{{
		Mesh:  twoTriangleQuad(),
		Model: identity16(),
	}}})
	in.Materials = &stubMaterials{graph: g}

	f := Build(in)
	c := f.Objects[0].Mesh.Colors
	if c[0] != 0x80 || c[1] != 0x40 || c[2] != 0x20 {
		t.Errorf("tinted color = (%d, %d, %d), want (128, 64, 32)", c[0], c[1], c[2])
	}
}

func TestBuildSkipsOversizedAndInvalidMeshes(t *testing.T) {
	big := twoTriangleQuad()
	invalid := &common.MeshBuffer{
		Positions: []float32{0, 0, 0},
		Normals:   []float32{0, 0, 1},
		UVs:       []float32{0, 0},
		Colors:    []uint8{1, 2, 3, 4},
		Indices:   []uint32{0, 1, 2}, // indices out of range
	}

	in := baseInput(&stubScene{objects: []SceneObject{
		{Mesh: big, Model: identity16()},
		{Mesh: invalid, Model: identity16()},
		{Mesh: nil, Model: identity16()},
	}})
	in.MaxVertices = 2 // below the quad's 4 vertices

	f := Build(in)
	if len(f.Objects) != 0 || len(f.LineBatches) != 0 {
		t.Errorf("got %d objects and %d batches, want all inputs skipped", len(f.Objects), len(f.LineBatches))
	}
}

func TestBuildOverlaySlotsAndGrid(t *testing.T) {
	overlays := &stubOverlays{}
	overlays.batches[OverlayGizmo] = &Overlay{
		Category:  CategoryLines,
		Positions: []float32{0, 0, 0, 1, 0, 0},
		Colors:    []uint8{255, 0, 0, 255, 255, 0, 0, 255},
		Depth:     raster.DepthAlwaysFront,
	}
	overlays.batches[OverlaySelectedVertices] = &Overlay{
		Category:  CategoryPoints,
		Positions: []float32{0, 0, 0},
		Colors:    []uint8{255, 128, 0, 255},
		Depth:     raster.DepthPerVertex,
		Radius:    2,
	}

	in := baseInput(&stubScene{})
	in.Overlays = overlays
	in.ShowGrid = true

	f := Build(in)
	if f.Grid == nil {
		t.Fatal("grid requested but absent")
	}
	if f.Grid.Depth != raster.DepthAlwaysBack {
		t.Errorf("grid depth = %d, want always-back", f.Grid.Depth)
	}
	if f.Overlays[OverlayGizmo] == nil || f.Overlays[OverlayGizmo].Depth != raster.DepthAlwaysFront {
		t.Error("gizmo overlay missing or lost its always-front depth")
	}
	if f.Overlays[OverlaySelectedVertices] == nil || f.Overlays[OverlaySelectedVertices].Radius != 2 {
		t.Error("selected-vertices overlay missing or lost its radius")
	}
	if f.Overlays[OverlayFaceFill] != nil {
		t.Error("absent overlay slot came back non-nil")
	}

	// Overlay buffers must be copies, not aliases.
	overlays.batches[OverlayGizmo].Positions[0] = 42
	if f.Overlays[OverlayGizmo].Positions[0] == 42 {
		t.Error("frame aliases the overlay source's buffer")
	}
}

func TestBuildTextureUploadConsumedOnce(t *testing.T) {
	mats := &stubMaterials{upload: &TextureUpload{Slot: 0, Width: 2, Height: 2, Pixels: make([]uint8, 16)}}
	in := baseInput(&stubScene{})
	in.Materials = mats

	first := Build(in)
	if first.TextureUpload == nil {
		t.Fatal("first frame missing the pending upload")
	}
	second := Build(in)
	if second.TextureUpload != nil {
		t.Error("upload delivered twice")
	}
}

package scene

import (
	"testing"

	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/frame"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
)

func TestAddGetRemove(t *testing.T) {
	s := NewScene(WithName("test"))

	a := NewObject(WithMesh(NewCubeMesh(1)))
	b := NewObject(WithMesh(NewPlaneMesh(2)))
	idA := s.Add(a)
	idB := s.Add(b)

	if idA == idB {
		t.Fatalf("expected distinct IDs, got %d twice", idA)
	}
	if got := s.Get(idA); got != a {
		t.Errorf("Get(%d) returned wrong object", idA)
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}

	s.Remove(idA)
	if s.Get(idA) != nil {
		t.Error("removed object still retrievable")
	}
	if s.Count() != 1 {
		t.Errorf("Count() after remove = %d, want 1", s.Count())
	}
}

func TestObjectsSkipsDisabledAndMeshless(t *testing.T) {
	s := NewScene()
	visible := NewObject(WithMesh(NewCubeMesh(1)))
	disabled := NewObject(WithMesh(NewCubeMesh(1)))
	meshless := NewObject()
	s.Add(visible)
	s.Add(disabled)
	s.Add(meshless)
	disabled.SetEnabled(false)

	objs := s.Objects()
	if len(objs) != 1 {
		t.Fatalf("Objects() returned %d objects, want 1", len(objs))
	}
	if objs[0].Mesh != visible.Mesh() {
		t.Error("Objects() returned wrong mesh")
	}
}

func TestObjectsPreservesInsertionOrder(t *testing.T) {
	s := NewScene()
	first := NewObject(WithMesh(NewCubeMesh(1)), WithPosition(1, 0, 0))
	second := NewObject(WithMesh(NewCubeMesh(1)), WithPosition(2, 0, 0))
	third := NewObject(WithMesh(NewCubeMesh(1)), WithPosition(3, 0, 0))
	s.Add(first)
	id := s.Add(second)
	s.Add(third)
	s.Remove(id)

	objs := s.Objects()
	if len(objs) != 2 {
		t.Fatalf("Objects() returned %d objects, want 2", len(objs))
	}
	if objs[0].Model[3] != 1 || objs[1].Model[3] != 3 {
		t.Errorf("insertion order not preserved: translations %v, %v", objs[0].Model[3], objs[1].Model[3])
	}
}

func TestModelMatrixAppliesTransform(t *testing.T) {
	obj := NewObject(WithPosition(2, 3, 4), WithScale(2, 2, 2))
	m := obj.ModelMatrix()

	// Row-major: translation sits in the last column, scale on the diagonal.
	if m[3] != 2 || m[7] != 3 || m[11] != 4 {
		t.Errorf("translation column = (%v, %v, %v), want (2, 3, 4)", m[3], m[7], m[11])
	}
	if m[0] != 2 || m[5] != 2 || m[10] != 2 {
		t.Errorf("scale diagonal = (%v, %v, %v), want (2, 2, 2)", m[0], m[5], m[10])
	}
}

func TestOverlayStaging(t *testing.T) {
	s := NewScene()
	if s.Overlay(frame.OverlayGizmo) != nil {
		t.Fatal("expected empty overlay slot")
	}

	ov := &frame.Overlay{Category: frame.CategoryLines}
	s.SetOverlay(frame.OverlayGizmo, ov)
	if s.Overlay(frame.OverlayGizmo) != ov {
		t.Error("staged overlay not returned")
	}

	s.SetOverlay(frame.OverlayGizmo, nil)
	if s.Overlay(frame.OverlayGizmo) != nil {
		t.Error("cleared overlay still returned")
	}

	// Out-of-range kinds are ignored rather than panicking.
	s.SetOverlay(frame.OverlayCount, ov)
	if s.Overlay(frame.OverlayCount) != nil {
		t.Error("out-of-range overlay slot accepted")
	}
}

func TestPendingUploadConsumedOnce(t *testing.T) {
	s := NewScene()
	stale := &frame.TextureUpload{Slot: 0, Width: 2, Height: 2, Pixels: make([]uint8, 16)}
	fresh := &frame.TextureUpload{Slot: 0, Width: 4, Height: 4, Pixels: make([]uint8, 64)}

	s.StageTexture(stale)
	s.StageTexture(fresh)

	if got := s.PendingUpload(); got != fresh {
		t.Error("expected the freshest staged upload")
	}
	if s.PendingUpload() != nil {
		t.Error("upload not consumed by first call")
	}
}

func TestMaterialResolvesFromProjection(t *testing.T) {
	s := NewScene()
	graph := &material.Graph{}
	obj := frame.SceneObject{Material: graph}

	if s.Material(&obj) != graph {
		t.Error("Material() did not return the object's graph")
	}
	if s.Material(nil) != nil {
		t.Error("Material(nil) should be nil")
	}
}

func TestPrimitiveMeshesValidate(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *common.MeshBuffer
		vertices  int
		triangles int
	}{
		{"cube", NewCubeMesh(2), 24, 12},
		{"plane", NewPlaneMesh(2), 4, 2},
		{"sphere", NewUVSphereMesh(1, 8, 6), 7 * 9, 8 * (2*6 - 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mesh.Validate(); err != nil {
				t.Fatalf("Validate() failed: %v", err)
			}
			if got := tt.mesh.VertexCount(); got != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", got, tt.vertices)
			}
			if got := tt.mesh.TriangleCount(); got != tt.triangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.triangles)
			}
		})
	}
}

func TestSphereNormalsAreUnitLength(t *testing.T) {
	mesh := NewUVSphereMesh(3, 8, 6)
	for i := 0; i < len(mesh.Normals); i += 3 {
		nx, ny, nz := mesh.Normals[i], mesh.Normals[i+1], mesh.Normals[i+2]
		lenSq := nx*nx + ny*ny + nz*nz
		if lenSq < 0.999 || lenSq > 1.001 {
			t.Fatalf("normal %d has squared length %v", i/3, lenSq)
		}
	}
}

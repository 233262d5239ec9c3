package scene

import (
	"sync"
	"sync/atomic"

	"github.com/roman01la/ps1ender-sub000/engine/frame"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
)

// Scene is the editor-side object registry feeding the frame builder. It
// owns the objects being edited, the staged editor overlays, and the slot a
// freshly baked material texture waits in before the next frame picks it up.
// Thread-safe for concurrent access: the input thread mutates objects while
// the frame tick reads them.
//
// Scene implements frame.SceneSource, frame.OverlaySource, and
// frame.MaterialSource, so a Scene can be handed to the frame builder
// directly.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Add adds an Object to the scene and assigns it a unique ID.
	//
	// Parameters:
	//   - obj: the Object to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj Object) uint64

	// Get retrieves an Object by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - Object: the object or nil
	Get(id uint64) Object

	// Remove removes an Object from the registry by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	Clear()

	// Count returns the number of Objects in the registry.
	//
	// Returns:
	//   - int: count of registered Objects
	Count() int

	// Objects returns the enabled scene objects projected into the frame
	// builder's read-only view, in insertion order. Satisfies
	// frame.SceneSource.
	//
	// Returns:
	//   - []frame.SceneObject: snapshot of the visible objects
	Objects() []frame.SceneObject

	// Overlay returns the staged batch for one overlay slot, or nil.
	// Satisfies frame.OverlaySource.
	//
	// Parameters:
	//   - kind: the overlay slot
	//
	// Returns:
	//   - *frame.Overlay: the staged batch or nil
	Overlay(kind frame.OverlayKind) *frame.Overlay

	// SetOverlay stages an overlay batch for one slot. Passing nil clears
	// the slot. The batch is returned as-is on subsequent Overlay calls, so
	// the caller must not mutate it after staging.
	//
	// Parameters:
	//   - kind: the overlay slot
	//   - overlay: the batch to stage, or nil to clear
	SetOverlay(kind frame.OverlayKind, overlay *frame.Overlay)

	// Material resolves the material graph for a scene object. Satisfies
	// frame.MaterialSource.
	//
	// Parameters:
	//   - obj: the frame builder's view of the object
	//
	// Returns:
	//   - *material.Graph: the object's material graph or nil
	Material(obj *frame.SceneObject) *material.Graph

	// PendingUpload returns the staged texture upload and clears the slot,
	// or nil when no bake has completed since the last call. Satisfies
	// frame.MaterialSource.
	//
	// Returns:
	//   - *frame.TextureUpload: the staged upload or nil
	PendingUpload() *frame.TextureUpload

	// StageTexture stages a baked texture for upload with the next frame.
	// A later stage before the frame tick consumes the slot replaces the
	// earlier one; only the freshest bake is ever uploaded.
	//
	// Parameters:
	//   - upload: the baked texture
	StageTexture(upload *frame.TextureUpload)
}

// editorScene is the implementation of the Scene interface.
type editorScene struct {
	mu      *sync.Mutex
	name    string
	nextID  atomic.Uint64
	objects map[uint64]Object

	// order preserves insertion order for deterministic frame building.
	order []uint64

	overlays [frame.OverlayCount]*frame.Overlay
	pending  *frame.TextureUpload
}

var _ Scene = &editorScene{}
var _ frame.SceneSource = &editorScene{}
var _ frame.OverlaySource = &editorScene{}
var _ frame.MaterialSource = &editorScene{}

// NewScene creates a new Scene with the specified options.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the configured scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &editorScene{
		mu:      &sync.Mutex{},
		name:    "scene",
		objects: make(map[uint64]Object),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *editorScene) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *editorScene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *editorScene) Add(obj Object) uint64 {
	id := s.nextID.Add(1)
	obj.SetID(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = obj
	s.order = append(s.order, id)
	return id
}

func (s *editorScene) Get(id uint64) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[id]
}

func (s *editorScene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return
	}
	delete(s.objects, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *editorScene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[uint64]Object)
	s.order = nil
}

func (s *editorScene) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *editorScene) Objects() []frame.SceneObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]frame.SceneObject, 0, len(s.order))
	for _, id := range s.order {
		obj := s.objects[id]
		if obj == nil || !obj.Enabled() || obj.Mesh() == nil {
			continue
		}
		out = append(out, frame.SceneObject{
			Mesh:       obj.Mesh(),
			Model:      obj.ModelMatrix(),
			EdgeOnly:   obj.EdgeOnly(),
			Smooth:     obj.Smooth(),
			HasTexture: obj.HasTexture(),
			Material:   obj.Material(),
		})
	}
	return out
}

func (s *editorScene) Overlay(kind frame.OverlayKind) *frame.Overlay {
	if kind < 0 || kind >= frame.OverlayCount {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlays[kind]
}

func (s *editorScene) SetOverlay(kind frame.OverlayKind, overlay *frame.Overlay) {
	if kind < 0 || kind >= frame.OverlayCount {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays[kind] = overlay
}

func (s *editorScene) Material(obj *frame.SceneObject) *material.Graph {
	if obj == nil {
		return nil
	}
	return obj.Material
}

func (s *editorScene) PendingUpload() *frame.TextureUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	upload := s.pending
	s.pending = nil
	return upload
}

func (s *editorScene) StageTexture(upload *frame.TextureUpload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = upload
}

package scene

import (
	"sync"

	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
)

// Object is a single editable entity in the scene: a mesh, a transform, a
// material graph, and the per-object display flags the frame builder reads.
// Thread-safe for concurrent access.
type Object interface {
	// ID returns the object's unique identifier, assigned by Scene.Add.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Mesh returns the object's mesh buffer, or nil if not set.
	//
	// Returns:
	//   - *common.MeshBuffer: the mesh or nil
	Mesh() *common.MeshBuffer

	// SetMesh assigns a mesh buffer to this object.
	//
	// Parameters:
	//   - mesh: the mesh to assign
	SetMesh(mesh *common.MeshBuffer)

	// Position returns the object's world position.
	//
	// Returns:
	//   - [3]float32: x, y, z position
	Position() [3]float32

	// SetPosition sets the object's world position.
	//
	// Parameters:
	//   - pos: x, y, z position
	SetPosition(pos [3]float32)

	// Rotation returns the object's Euler rotation in radians.
	//
	// Returns:
	//   - [3]float32: rotation around x, y, z
	Rotation() [3]float32

	// SetRotation sets the object's Euler rotation in radians.
	//
	// Parameters:
	//   - rot: rotation around x, y, z
	SetRotation(rot [3]float32)

	// Scale returns the object's per-axis scale.
	//
	// Returns:
	//   - [3]float32: scale along x, y, z
	Scale() [3]float32

	// SetScale sets the object's per-axis scale.
	//
	// Parameters:
	//   - scale: scale along x, y, z
	SetScale(scale [3]float32)

	// ModelMatrix builds the object's row-major model matrix from its
	// position, rotation, and scale.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// EdgeOnly returns whether the object renders as wireframe regardless
	// of the global wireframe setting.
	//
	// Returns:
	//   - bool: true if edge-only
	EdgeOnly() bool

	// SetEdgeOnly sets the per-object wireframe flag.
	//
	// Parameters:
	//   - edgeOnly: true to render edges only
	SetEdgeOnly(edgeOnly bool)

	// Smooth returns whether the object requests smooth (per-vertex)
	// shading.
	//
	// Returns:
	//   - bool: true if smooth-shaded
	Smooth() bool

	// SetSmooth sets the per-object smooth shading flag.
	//
	// Parameters:
	//   - smooth: true for smooth shading
	SetSmooth(smooth bool)

	// HasTexture returns whether the object has a baked texture assigned.
	//
	// Returns:
	//   - bool: true if a texture slot holds this object's bake
	HasTexture() bool

	// SetHasTexture sets the baked-texture flag.
	//
	// Parameters:
	//   - hasTexture: true if the object's texture slot is populated
	SetHasTexture(hasTexture bool)

	// Material returns the object's material graph, or nil.
	//
	// Returns:
	//   - *material.Graph: the material graph or nil
	Material() *material.Graph

	// SetMaterial assigns a material graph to this object.
	//
	// Parameters:
	//   - graph: the material graph or nil
	SetMaterial(graph *material.Graph)
}

// sceneObject is the implementation of the Object interface.
type sceneObject struct {
	mu         *sync.Mutex
	id         uint64
	enabled    bool
	mesh       *common.MeshBuffer
	position   [3]float32
	rotation   [3]float32
	scale      [3]float32
	edgeOnly   bool
	smooth     bool
	hasTexture bool
	mat        *material.Graph
}

var _ Object = &sceneObject{}

// NewObject creates a new Object with the specified options.
// Defaults to an enabled object at the origin with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - Object: the configured object
func NewObject(options ...ObjectBuilderOption) Object {
	o := &sceneObject{
		mu:      &sync.Mutex{},
		enabled: true,
		scale:   [3]float32{1, 1, 1},
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

func (o *sceneObject) ID() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.id
}

func (o *sceneObject) SetID(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.id = id
}

func (o *sceneObject) Enabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.enabled
}

func (o *sceneObject) SetEnabled(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.enabled = enabled
}

func (o *sceneObject) Mesh() *common.MeshBuffer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mesh
}

func (o *sceneObject) SetMesh(mesh *common.MeshBuffer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mesh = mesh
}

func (o *sceneObject) Position() [3]float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position
}

func (o *sceneObject) SetPosition(pos [3]float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.position = pos
}

func (o *sceneObject) Rotation() [3]float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rotation
}

func (o *sceneObject) SetRotation(rot [3]float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotation = rot
}

func (o *sceneObject) Scale() [3]float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scale
}

func (o *sceneObject) SetScale(scale [3]float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scale = scale
}

func (o *sceneObject) ModelMatrix() [16]float32 {
	o.mu.Lock()
	defer o.mu.Unlock()

	var m [16]float32
	common.BuildModelMatrix(m[:],
		o.position[0], o.position[1], o.position[2],
		o.rotation[0], o.rotation[1], o.rotation[2],
		o.scale[0], o.scale[1], o.scale[2])
	return m
}

func (o *sceneObject) EdgeOnly() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.edgeOnly
}

func (o *sceneObject) SetEdgeOnly(edgeOnly bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.edgeOnly = edgeOnly
}

func (o *sceneObject) Smooth() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.smooth
}

func (o *sceneObject) SetSmooth(smooth bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.smooth = smooth
}

func (o *sceneObject) HasTexture() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hasTexture
}

func (o *sceneObject) SetHasTexture(hasTexture bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hasTexture = hasTexture
}

func (o *sceneObject) Material() *material.Graph {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mat
}

func (o *sceneObject) SetMaterial(graph *material.Graph) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mat = graph
}

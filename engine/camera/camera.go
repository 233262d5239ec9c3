package camera

import (
	"math"
	"sync"

	"github.com/roman01la/ps1ender-sub000/common"
)

// Projection selects between the camera's two projection models.
type Projection uint8

const (
	ProjectionPerspective Projection = iota
	ProjectionOrthographic
)

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	projection Projection
	fov        float32
	orthoSize  float32
	aspect     float32
	near       float32
	far        float32

	viewMatrix       [16]float32
	projectionMatrix [16]float32

	controller Controller
}

// Camera holds projection settings and computes view/projection matrices
// (4x4 row-major) from an attached Controller. Thread-safe: the frame
// builder reads matrices while input callbacks drive the controller.
type Camera interface {
	// Projection returns the active projection model.
	Projection() Projection

	// Fov returns the perspective field of view in radians.
	Fov() float32

	// OrthoSize returns half the vertical extent of the orthographic view
	// volume in world units.
	OrthoSize() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current 4x4 row-major view matrix.
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 row-major projection matrix.
	ProjectionMatrix() [16]float32

	// Controller returns the attached Controller, or nil.
	Controller() Controller

	// Update reads position/target from the controller and recomputes the
	// matrices. Call once per builder tick. No-op without a controller.
	Update()

	// SetProjection switches the projection model and recomputes matrices.
	//
	// Parameters:
	//   - p: the projection model to use
	SetProjection(p Projection)

	// SetFov sets the perspective field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetOrthoSize sets the orthographic half-height in world units.
	//
	// Parameters:
	//   - size: half the vertical view extent
	SetOrthoSize(size float32)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetController attaches a Controller.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl Controller)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with default perspective settings. Attach a
// Controller (via option or SetController) before the first Update.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:               &sync.Mutex{},
		up:               [3]float32{0, 1, 0},
		projection:       ProjectionPerspective,
		fov:              45.0 * (math.Pi / 180.0),
		orthoSize:        5.0,
		aspect:           1.0,
		near:             0.1,
		far:              100.0,
		viewMatrix:       [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		projectionMatrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	for _, option := range options {
		option(c)
	}
	if c.controller != nil {
		c.updateMatrices()
	}
	return c
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) OrthoSize() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orthoSize
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Controller() Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetProjection(p Projection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetOrthoSize(size float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orthoSize = size
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recalculates the view and projection matrices from the
// controller's position/target. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}

	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()

	common.LookAt(c.viewMatrix[:],
		px, py, pz,
		tx, ty, tz,
		c.up[0], c.up[1], c.up[2],
	)

	switch c.projection {
	case ProjectionOrthographic:
		halfH := c.orthoSize
		halfW := halfH * c.aspect
		common.Orthographic(c.projectionMatrix[:], -halfW, halfW, -halfH, halfH, c.near, c.far)
	default:
		common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	}
}

package camera

import (
	"math"
	"sync"
)

type controllerImpl struct {
	mu *sync.Mutex

	target    [3]float32
	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	maxElevation float32

	orbitSensitivity float32
	panSensitivity   float32
	zoomSensitivity  float32
}

var _ Controller = &controllerImpl{}

// NewController creates an orbit Controller pivoting on the origin at a
// comfortable editor default distance.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		mu:               &sync.Mutex{},
		radius:           8,
		azimuth:          math.Pi / 4,
		elevation:        math.Pi / 6,
		minRadius:        0.5,
		maxRadius:        200,
		maxElevation:     math.Pi/2 - 0.01,
		orbitSensitivity: 0.008,
		panSensitivity:   0.002,
		zoomSensitivity:  0.4,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *controllerImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

// position derives the camera position from the spherical coordinates.
// Caller must hold the mutex.
func (c *controllerImpl) position() (x, y, z float32) {
	cosE := float32(math.Cos(float64(c.elevation)))
	x = c.target[0] + c.radius*cosE*float32(math.Sin(float64(c.azimuth)))
	y = c.target[1] + c.radius*float32(math.Sin(float64(c.elevation)))
	z = c.target[2] + c.radius*cosE*float32(math.Cos(float64(c.azimuth)))
	return
}

func (c *controllerImpl) Target() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target[0], c.target[1], c.target[2]
}

func (c *controllerImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
}

func (c *controllerImpl) Orbit(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth -= dx * c.orbitSensitivity
	c.elevation += dy * c.orbitSensitivity
	c.clampElevation()
}

func (c *controllerImpl) Pan(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Camera-local right and up axes from the spherical angles. Pan speed
	// scales with radius so the scene moves with the cursor at any zoom.
	sinA := float32(math.Sin(float64(c.azimuth)))
	cosA := float32(math.Cos(float64(c.azimuth)))
	sinE := float32(math.Sin(float64(c.elevation)))
	cosE := float32(math.Cos(float64(c.elevation)))

	rightX, rightZ := cosA, -sinA
	upX := -sinA * sinE
	upY := cosE
	upZ := -cosA * sinE

	scale := c.panSensitivity * c.radius
	c.target[0] += (-dx*rightX + dy*upX) * scale
	c.target[1] += dy * upY * scale
	c.target[2] += (-dx*rightZ + dy*upZ) * scale
}

func (c *controllerImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius -= delta * c.zoomSensitivity * c.radius * 0.1
	c.clampRadius()
}

func (c *controllerImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *controllerImpl) SetRadius(radius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = radius
	c.clampRadius()
}

func (c *controllerImpl) Azimuth() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.azimuth
}

func (c *controllerImpl) Elevation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elevation
}

// clampElevation keeps the camera short of the poles so the up vector never
// degenerates. Caller must hold the mutex.
func (c *controllerImpl) clampElevation() {
	if c.elevation > c.maxElevation {
		c.elevation = c.maxElevation
	}
	if c.elevation < -c.maxElevation {
		c.elevation = -c.maxElevation
	}
}

func (c *controllerImpl) clampRadius() {
	if c.radius < c.minRadius {
		c.radius = c.minRadius
	}
	if c.radius > c.maxRadius {
		c.radius = c.maxRadius
	}
}

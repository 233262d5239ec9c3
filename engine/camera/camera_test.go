package camera

import (
	"math"
	"testing"
)

func TestControllerZoomClampsRadius(t *testing.T) {
	c := NewController(WithRadius(5), WithRadiusBounds(1, 20))

	for i := 0; i < 1000; i++ {
		c.Zoom(10)
	}
	if r := c.Radius(); r < 1 || r > 1.0001 {
		t.Errorf("radius after zooming in = %v, want clamped to 1", r)
	}

	for i := 0; i < 1000; i++ {
		c.Zoom(-10)
	}
	if r := c.Radius(); r > 20 || r < 19.999 {
		t.Errorf("radius after zooming out = %v, want clamped to 20", r)
	}
}

func TestControllerOrbitClampsElevation(t *testing.T) {
	c := NewController()
	for i := 0; i < 10000; i++ {
		c.Orbit(0, 50)
	}
	limit := float32(math.Pi/2 - 0.01)
	if e := c.Elevation(); e > limit+1e-6 {
		t.Errorf("elevation = %v, want <= %v", e, limit)
	}

	// The camera must never flip under the pivot's pole either.
	for i := 0; i < 10000; i++ {
		c.Orbit(0, -50)
	}
	if e := c.Elevation(); e < -limit-1e-6 {
		t.Errorf("elevation = %v, want >= %v", e, -limit)
	}
}

func TestControllerPositionOnSphere(t *testing.T) {
	c := NewController(WithTarget(1, 2, 3), WithRadius(5), WithAngles(0, 0))

	// Azimuth and elevation zero puts the camera straight down +Z from
	// the target.
	x, y, z := c.Position()
	if x != 1 || y != 2 || z != 8 {
		t.Errorf("position = (%v, %v, %v), want (1, 2, 8)", x, y, z)
	}
}

func TestControllerPanMovesTargetPerpendicular(t *testing.T) {
	c := NewController(WithAngles(0, 0), WithRadius(10))

	// Looking down +Z, a horizontal drag must slide the target along X
	// only.
	c.Pan(100, 0)
	x, y, z := c.Target()
	if x == 0 {
		t.Error("horizontal pan did not move the target along X")
	}
	if y != 0 || z != 0 {
		t.Errorf("horizontal pan leaked into (y=%v, z=%v)", y, z)
	}
}

func TestCameraUpdateBuildsMatrices(t *testing.T) {
	cam := NewCamera(
		WithController(NewController(WithRadius(5), WithAngles(0, 0))),
		WithAspect(1),
	)
	cam.Update()

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()

	var zeroView, zeroProj bool
	var sum float32
	for i := range view {
		sum += view[i] * view[i]
	}
	zeroView = sum == 0
	sum = 0
	for i := range proj {
		sum += proj[i] * proj[i]
	}
	zeroProj = sum == 0
	if zeroView || zeroProj {
		t.Fatal("Update left a matrix unpopulated")
	}

	// Camera at (0,0,5) looking at the origin: the view transform must
	// send the origin to z = -5 in front of the camera.
	z := view[8]*0 + view[9]*0 + view[10]*0 + view[11]
	if z > -4.999 || z < -5.001 {
		t.Errorf("origin maps to view z = %v, want -5", z)
	}
}

func TestCameraProjectionSwitch(t *testing.T) {
	cam := NewCamera(
		WithController(NewController()),
		WithAspect(1),
		WithOrthoSize(4),
	)

	cam.SetProjection(ProjectionOrthographic)
	cam.Update()
	ortho := cam.ProjectionMatrix()
	// Orthographic keeps w untouched: the bottom row stays (0, 0, 0, 1).
	if ortho[12] != 0 || ortho[13] != 0 || ortho[14] != 0 || ortho[15] != 1 {
		t.Errorf("orthographic bottom row = (%v, %v, %v, %v), want (0, 0, 0, 1)",
			ortho[12], ortho[13], ortho[14], ortho[15])
	}

	cam.SetProjection(ProjectionPerspective)
	cam.Update()
	persp := cam.ProjectionMatrix()
	// Perspective projects w from -z instead.
	if persp[14] == 0 || persp[15] != 0 {
		t.Errorf("perspective bottom row = (..., %v, %v), want (-1, 0) shape",
			persp[14], persp[15])
	}
}

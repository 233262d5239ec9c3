package camera

// Controller owns the camera's positional state as spherical coordinates
// (radius, azimuth, elevation) around a pivot target, the way an editor
// viewport is driven: drag orbits, scroll zooms, shift-drag pans. The
// Camera reads Position/Target each Update and computes matrices from them.
type Controller interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the orbit pivot point.
	//
	// Returns:
	//   - x, y, z: world-space pivot position
	Target() (x, y, z float32)

	// SetTarget moves the pivot; the position follows from the spherical
	// coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Orbit rotates around the pivot by mouse deltas scaled by the orbit
	// sensitivity. Positive dx orbits right, positive dy tilts up;
	// elevation clamps short of the poles.
	//
	// Parameters:
	//   - dx, dy: drag deltas in pixels
	Orbit(dx, dy float32)

	// Pan translates pivot and camera together along the camera's local
	// right and up axes, preserving the orbit relationship.
	//
	// Parameters:
	//   - dx, dy: drag deltas in pixels
	Pan(dx, dy float32)

	// Zoom scales the orbit radius. Positive delta zooms in; the radius
	// clamps to its min/max bounds.
	//
	// Parameters:
	//   - delta: scroll amount scaled by the zoom sensitivity
	Zoom(delta float32)

	// Radius returns the current distance from the pivot.
	Radius() float32

	// SetRadius sets the orbit radius, clamped to its bounds.
	//
	// Parameters:
	//   - radius: new distance from the pivot
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around the Y axis in radians.
	Azimuth() float32

	// Elevation returns the vertical angle from the horizontal plane in
	// radians.
	Elevation() float32
}

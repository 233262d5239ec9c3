package camera

type ControllerBuilderOption func(*controllerImpl)

// WithTarget sets the initial orbit pivot.
//
// Parameters:
//   - x, y, z: world-space pivot coordinates
//
// Returns:
//   - ControllerBuilderOption: a function that sets the pivot
func WithTarget(x, y, z float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.target = [3]float32{x, y, z}
	}
}

// WithRadius sets the initial orbit radius.
//
// Parameters:
//   - radius: distance from the pivot
//
// Returns:
//   - ControllerBuilderOption: a function that sets the radius
func WithRadius(radius float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.radius = radius
		c.clampRadius()
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - minRadius, maxRadius: allowed distance range from the pivot
//
// Returns:
//   - ControllerBuilderOption: a function that sets the bounds
func WithRadiusBounds(minRadius, maxRadius float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.minRadius = minRadius
		c.maxRadius = maxRadius
		c.clampRadius()
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
//
// Parameters:
//   - azimuth: horizontal angle around the Y axis
//   - elevation: vertical angle from the horizontal plane
//
// Returns:
//   - ControllerBuilderOption: a function that sets the angles
func WithAngles(azimuth, elevation float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.azimuth = azimuth
		c.elevation = elevation
		c.clampElevation()
	}
}

// WithOrbitSensitivity sets the radians-per-pixel drag scale.
//
// Parameters:
//   - s: sensitivity multiplier
//
// Returns:
//   - ControllerBuilderOption: a function that sets the orbit sensitivity
func WithOrbitSensitivity(s float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.orbitSensitivity = s
	}
}

// WithZoomSensitivity sets the scroll-to-radius scale.
//
// Parameters:
//   - s: sensitivity multiplier
//
// Returns:
//   - ControllerBuilderOption: a function that sets the zoom sensitivity
func WithZoomSensitivity(s float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.zoomSensitivity = s
	}
}

// WithPanSensitivity sets the pixels-to-world pan scale.
//
// Parameters:
//   - s: sensitivity multiplier
//
// Returns:
//   - ControllerBuilderOption: a function that sets the pan sensitivity
func WithPanSensitivity(s float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.panSensitivity = s
	}
}

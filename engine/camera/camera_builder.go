package camera

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithDistance sets the viewing distance along -Z at zoom 1.
//
// Parameters:
//   - d: the distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the distance
func WithDistance(d float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.distance = d
	}
}

// WithZoom sets the initial zoom factor, clamped below at MinZoom.
//
// Parameters:
//   - zoom: the zoom factor
//
// Returns:
//   - CameraBuilderOption: functional option to set the zoom
func WithZoom(zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = max(zoom, MinZoom)
	}
}

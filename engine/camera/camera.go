package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-raw/common"
)

// MinZoom is the smallest zoom factor a camera accepts.
const MinZoom = 0.1

type cameraImpl struct {
	mu *sync.Mutex

	fov      float32
	aspect   float32
	near     float32
	far      float32
	distance float32
	zoom     float32

	viewMatrix       [16]float32
	projectionMatrix [16]float32
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and a fixed viewing distance along -Z that a zoom
// factor divides. Matrices are recomputed whenever a setting changes.
type Camera interface {
	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Distance returns the viewing distance at zoom 1.
	//
	// Returns:
	//   - float32: the distance
	Distance() float32

	// Zoom returns the current zoom factor.
	//
	// Returns:
	//   - float32: the zoom factor, at least MinZoom
	Zoom() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major): a
	// translation by (0, 0, -distance/zoom).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetDistance sets the viewing distance at zoom 1 and recomputes matrices.
	//
	// Parameters:
	//   - d: the distance
	SetDistance(d float32)

	// SetZoom sets the zoom factor, clamped below at MinZoom, and recomputes matrices.
	//
	// Parameters:
	//   - zoom: the zoom factor
	SetZoom(zoom float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with fov 45°, aspect 1, near 0.1, far 100, distance 6
// and zoom 1.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		fov:      45.0 * (math.Pi / 180.0), // radians
		aspect:   1.0,
		near:     0.1,
		far:      100.0,
		distance: 6.0,
		zoom:     1.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
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

func (c *cameraImpl) Distance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distance
}

func (c *cameraImpl) Zoom() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
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

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		aspect = 1
	}
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

func (c *cameraImpl) SetDistance(d float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance = d
	c.updateMatrices()
}

func (c *cameraImpl) SetZoom(zoom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = max(zoom, MinZoom)
	c.updateMatrices()
}

// updateMatrices recalculates the view and projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.Identity(c.viewMatrix[:])
	common.Translate(c.viewMatrix[:], c.viewMatrix[:], 0, 0, -c.distance/c.zoom)

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)
}

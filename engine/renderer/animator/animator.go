package animator

import "sync"

// DefaultRotationSpeed is the per-frame slider value at which one second of clock time turns
// the scene by one radian.
const DefaultRotationSpeed = 0.01

// animator is the implementation of the Animator interface.
type animator struct {
	mu    *sync.Mutex
	angle float64
}

// Animator integrates clock deltas into the global rotation angle shared by every entity.
type Animator interface {
	// Advance adds delta · speed/DefaultRotationSpeed to the angle.
	//
	// Parameters:
	//   - delta: the clock delta in seconds
	//   - speed: the rotation speed parameter, as set by the UI
	//
	// Returns:
	//   - float64: the new angle in radians
	Advance(delta, speed float64) float64

	// Angle returns the current angle in radians.
	//
	// Returns:
	//   - float64: the angle
	Angle() float64

	// SetAngle overwrites the current angle.
	//
	// Parameters:
	//   - angle: the new angle in radians
	SetAngle(angle float64)
}

var _ Animator = &animator{}

// NewAnimator creates an Animator at angle 0.
//
// Returns:
//   - Animator: the animator
func NewAnimator() Animator {
	return &animator{mu: &sync.Mutex{}}
}

func (a *animator) Advance(delta, speed float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.angle += delta * speed / DefaultRotationSpeed
	return a.angle
}

func (a *animator) Angle() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.angle
}

func (a *animator) SetAngle(angle float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.angle = angle
}

// Package animator drives the per-frame animation: a Clock that turns scheduler timestamps
// into deltas, an Animator that integrates those deltas into a rotation angle, and a Loop
// that re-arms one frame at a time until its context is cancelled.
package animator

// Clock accumulates wall-time deltas between successive frame timestamps.
// A Clock is owned by a single loop and is not safe for concurrent use.
type Clock struct {
	lastTimestamp float64
	accumulated   float64
	frames        int
	firstClamp    float64
}

// NewClock creates a Clock whose last timestamp is 0, so the first delta equals the first
// timestamp unless WithFirstFrameClamp is given.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Clock: the clock
func NewClock(options ...ClockBuilderOption) *Clock {
	c := &Clock{}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Tick advances the clock to now.
//
// Parameters:
//   - now: the frame timestamp in seconds
//
// Returns:
//   - float64: the delta since the previous timestamp; negative deltas from a
//     non-monotonic source are treated as 0 so the accumulation never decreases
func (c *Clock) Tick(now float64) float64 {
	delta := now - c.lastTimestamp
	if delta < 0 {
		delta = 0
	}
	if c.frames == 0 && c.firstClamp > 0 && delta > c.firstClamp {
		delta = c.firstClamp
	}
	c.lastTimestamp = now
	c.accumulated += delta
	c.frames++
	return delta
}

// Accumulated returns the sum of every delta so far.
func (c *Clock) Accumulated() float64 {
	return c.accumulated
}

// LastTimestamp returns the most recent timestamp passed to Tick.
func (c *Clock) LastTimestamp() float64 {
	return c.lastTimestamp
}

// Frames returns how many times Tick has been called.
func (c *Clock) Frames() int {
	return c.frames
}

package animator

// ClockBuilderOption is a functional option for configuring a Clock during construction.
type ClockBuilderOption func(*Clock)

// WithFirstFrameClamp bounds the first delta only. Sources whose first timestamp is a large
// absolute time (e.g. requestAnimationFrame's page-relative milliseconds) use this to avoid
// a jump on the first frame. Later deltas are never clamped.
//
// Parameters:
//   - max: the largest first delta in seconds; values <= 0 disable the clamp
//
// Returns:
//   - ClockBuilderOption: a function that applies the clamp to a clock
func WithFirstFrameClamp(max float64) ClockBuilderOption {
	return func(c *Clock) {
		c.firstClamp = max
	}
}

// WithStartTimestamp sets the timestamp the first delta is measured from. Defaults to 0.
//
// Parameters:
//   - t: the start timestamp in seconds
//
// Returns:
//   - ClockBuilderOption: a function that applies the start timestamp to a clock
func WithStartTimestamp(t float64) ClockBuilderOption {
	return func(c *Clock) {
		c.lastTimestamp = t
	}
}

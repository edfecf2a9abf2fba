package animator

// LoopBuilderOption is a functional option for configuring a Loop during construction.
type LoopBuilderOption func(*loop)

// WithClock gives the loop an explicitly configured clock instead of a default one.
//
// Parameters:
//   - c: the clock; the loop becomes its only writer
//
// Returns:
//   - LoopBuilderOption: a function that applies the clock to a loop
func WithClock(c *Clock) LoopBuilderOption {
	return func(l *loop) {
		l.clock = c
	}
}

// WithQuietErrors stops the loop from logging frame errors. The FrameFunc is then responsible
// for reporting them.
//
// Returns:
//   - LoopBuilderOption: a function that disables error logging
func WithQuietErrors() LoopBuilderOption {
	return func(l *loop) {
		l.logErrors = false
	}
}

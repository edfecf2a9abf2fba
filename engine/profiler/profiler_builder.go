package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often Tick logs. Non-positive values are ignored.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithTimeSource replaces time.Now.
//
// Parameters:
//   - now: the time source
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithTimeSource(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

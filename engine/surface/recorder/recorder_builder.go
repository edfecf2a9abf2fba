package recorder

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// RecorderBuilderOption is a functional option for configuring a recording Surface.
type RecorderBuilderOption func(s *Surface, unavailable *string)

// WithViewport sets the initial pixel size. Defaults to 800x600.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - RecorderBuilderOption: the option
func WithViewport(width, height int) RecorderBuilderOption {
	return func(s *Surface, _ *string) {
		s.viewport = surface.NewViewport(width, height)
	}
}

// WithCompileHook installs a hook that can reject a stage before the built-in checks run.
// A non-nil error becomes the compiler diagnostic.
func WithCompileHook(hook func(stage surface.Stage, source string) error) RecorderBuilderOption {
	return func(s *Surface, _ *string) {
		s.compileHook = hook
	}
}

// WithLinkHook installs a hook that can reject a link after varyings are checked.
func WithLinkHook(hook func(vertex, fragment string) error) RecorderBuilderOption {
	return func(s *Surface, _ *string) {
		s.linkHook = hook
	}
}

// WithFrameHistory sets how many completed frames are kept. Defaults to 16.
func WithFrameHistory(n int) RecorderBuilderOption {
	return func(s *Surface, _ *string) {
		if n > 0 {
			s.keep = n
		}
	}
}

// WithUnavailable makes New fail as if no drawing context could be created.
func WithUnavailable(reason string) RecorderBuilderOption {
	return func(_ *Surface, unavailable *string) {
		*unavailable = reason
	}
}

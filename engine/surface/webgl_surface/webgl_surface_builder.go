//go:build js && wasm

package webgl_surface

import "github.com/Carmen-Shannon/oxy-raw/engine/surface"

// WebGLSurfaceBuilderOption is a functional option for configuring a WebGL Surface.
type WebGLSurfaceBuilderOption func(s *Surface)

// WithViewport shares an existing viewport instead of sizing one from the canvas. Resize
// handlers that already hold the viewport then drive the canvas size.
//
// Parameters:
//   - v: the viewport
//
// Returns:
//   - WebGLSurfaceBuilderOption: option function to apply
func WithViewport(v *surface.Viewport) WebGLSurfaceBuilderOption {
	return func(s *Surface) {
		s.viewport = v
	}
}

// WithAntialias toggles the context's multisampling request.
//
// Parameters:
//   - enabled: true to request antialiasing
//
// Returns:
//   - WebGLSurfaceBuilderOption: option function to apply
func WithAntialias(enabled bool) WebGLSurfaceBuilderOption {
	return func(s *Surface) {
		s.attrs["antialias"] = enabled
	}
}

package wgpu_surface

import "github.com/cogentcore/webgpu/wgpu"

// WGPUSurfaceBuilderOption is a functional option for configuring a Surface.
type WGPUSurfaceBuilderOption func(*Surface)

// WithPresentMode sets how frames are delivered to the display.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - WGPUSurfaceBuilderOption: functional option to set the present mode
func WithPresentMode(mode PresentMode) WGPUSurfaceBuilderOption {
	return func(s *Surface) {
		switch mode {
		case PresentModeUncapped:
			s.presentMode = wgpu.PresentModeImmediate
		default:
			s.presentMode = wgpu.PresentModeFifo
		}
	}
}

// WithMSAA sets the multisample count of the color and depth targets.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - WGPUSurfaceBuilderOption: functional option to set the sample count
func WithMSAA(count MSAASampleCount) WGPUSurfaceBuilderOption {
	return func(s *Surface) {
		if count == MSAA4x {
			s.sampleCount = MSAA4x
			return
		}
		s.sampleCount = MSAAOff
	}
}

// WithForceSoftware requests the fallback (software) adapter.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - WGPUSurfaceBuilderOption: functional option to force the software adapter
func WithForceSoftware(force bool) WGPUSurfaceBuilderOption {
	return func(s *Surface) {
		s.forceFallback = force
	}
}

// WithMaxDrawsPerFrame sizes the uniform ring for n draws. The ring doubles on the frame after
// it overflows.
//
// Parameters:
//   - n: the initial draw capacity per frame
//
// Returns:
//   - WGPUSurfaceBuilderOption: functional option to size the uniform ring
func WithMaxDrawsPerFrame(n int) WGPUSurfaceBuilderOption {
	return func(s *Surface) {
		if n > 0 {
			s.maxDraws = n
		}
	}
}

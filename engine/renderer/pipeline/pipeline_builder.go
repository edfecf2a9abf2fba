package pipeline

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithPrimitive sets the primitive topology for this pipeline.
//
// Parameters:
//   - primitive: the topology to use (e.g., surface.PrimitiveTriangles, surface.PrimitivePoints)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithPrimitive(primitive surface.Primitive) PipelineBuilderOption {
	return func(p *pipeline) {
		p.primitive = primitive
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthFunc sets the depth comparison for this pipeline.
//
// Parameters:
//   - fn: the comparison (e.g., surface.DepthLess, surface.DepthLessEqual)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth comparison for this pipeline
func WithDepthFunc(fn surface.DepthFunc) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthFunc = fn
	}
}

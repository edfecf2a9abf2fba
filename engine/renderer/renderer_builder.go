package renderer

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPipeline pre-registers a single Pipeline in the renderer's pipeline cache under the given key.
//
// Parameters:
//   - key: the unique identifier for the pipeline
//   - p: the Pipeline to cache
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(key string, p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineCache[key] = p
	}
}

// WithPipelines replaces the renderer's entire pipeline cache with the provided map.
//
// Parameters:
//   - pipelines: a map of pipeline keys to their corresponding Pipeline objects
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipelines option to a renderer
func WithPipelines(pipelines map[string]pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineCache = pipelines
	}
}

// WithMaterial sets the lighting constants uploaded with every draw.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - RendererBuilderOption: a function that applies the material option to a renderer
func WithMaterial(m material.Material) RendererBuilderOption {
	return func(r *renderer) {
		r.material = m
	}
}

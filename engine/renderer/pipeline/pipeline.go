package pipeline

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// pipeline is the implementation of the Pipeline interface.
// It pairs a linked program with the fixed-function state its draws run under.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// program is the linked program draws use; a nil program marks the pipeline unusable
	program shader.Program

	// The following properties configure the draw state and can be set with the builder options.

	primitive        surface.Primitive
	depthTestEnabled bool
	depthFunc        surface.DepthFunc
}

// Pipeline defines the interface for a draw pipeline: a linked shader program plus the
// primitive topology and depth state every draw issued through it uses.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Program returns the linked program, or nil if the program failed to build.
	//
	// Returns:
	//   - shader.Program: the program
	Program() shader.Program

	// Usable reports whether the pipeline has a linked program. Draws through an unusable
	// pipeline are skipped.
	//
	// Returns:
	//   - bool: true if draws may be issued
	Usable() bool

	// Primitive returns the primitive topology draws use.
	//
	// Returns:
	//   - surface.Primitive: the topology
	Primitive() surface.Primitive

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthFunc returns the depth comparison used when depth testing is enabled.
	//
	// Returns:
	//   - surface.DepthFunc: the comparison
	DepthFunc() surface.DepthFunc

	// SetProgram swaps the linked program, for example after a capability change.
	// The previous program is not released.
	//
	// Parameters:
	//   - p: the new program, may be nil
	SetProgram(p shader.Program)
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline interface.
// Defaults are triangle lists with depth testing enabled and a LessEqual comparison.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - program: the linked program, may be nil when building failed
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, program shader.Program, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:      pipelineKey,
		program:          program,
		primitive:        surface.PrimitiveTriangles,
		depthTestEnabled: true,
		depthFunc:        surface.DepthLessEqual,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Program() shader.Program {
	return p.program
}

func (p *pipeline) Usable() bool {
	return p.program != nil
}

func (p *pipeline) Primitive() surface.Primitive {
	return p.primitive
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthFunc() surface.DepthFunc {
	return p.depthFunc
}

func (p *pipeline) SetProgram(prog shader.Program) {
	p.program = prog
}

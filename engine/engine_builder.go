package engine

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/config"
	"github.com/Carmen-Shannon/oxy-raw/engine/params"
	"github.com/Carmen-Shannon/oxy-raw/engine/profiler"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/material"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig replaces the default configuration. The configuration's profiling flag is
// applied too; a later WithProfiling overrides it.
//
// Parameters:
//   - cfg: the configuration, validated by NewEngine
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
		e.profilingEnabled = cfg.Profiling
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler, e.g. to change its log interval.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		if p != nil {
			e.profiler = p
		}
	}
}

// WithParams supplies the frame parameters instead of deriving them from the configuration.
// The caller keeps the handle and may mutate it from any goroutine.
//
// Parameters:
//   - p: the parameters
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithParams(p params.Params) EngineBuilderOption {
	return func(e *engine) {
		e.params = p
	}
}

// WithWindow attaches a platform window. Its events are pumped once per frame, its resize
// and scroll input drive the viewport and zoom, and closing it ends Run.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w EventSource) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScheduler replaces the default ticker scheduler paced at the configured FPS.
//
// Parameters:
//   - s: the frame source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScheduler(s animator.Scheduler) EngineBuilderOption {
	return func(e *engine) {
		e.scheduler = s
	}
}

// WithClock replaces the default frame clock.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(c *animator.Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithMaterial replaces the default material. No bump map is generated; the material's own
// texture, if any, stays owned by the caller.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaterial(m material.Material) EngineBuilderOption {
	return func(e *engine) {
		e.material = m
	}
}

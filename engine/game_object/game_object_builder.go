package game_object

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/geometry_buffer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithGeometry sets the shared geometry buffer drawn for this GameObject.
//
// Parameters:
//   - gb: the geometry buffer
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the geometry
func WithGeometry(gb *geometry_buffer.GeometryBuffer) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.geometry = gb
	}
}

// WithPipeline sets the pipeline this GameObject is drawn through.
//
// Parameters:
//   - p: the pipeline
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the pipeline
func WithPipeline(p pipeline.Pipeline) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.pipe = p
	}
}

// WithPosition sets the world position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithPhase sets the static rotation offset added to the scene-wide angle.
//
// Parameters:
//   - phase: offset in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the phase
func WithPhase(phase float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.phase = phase
	}
}

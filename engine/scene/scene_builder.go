package scene

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raw/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects pushes initial objects onto the scene in order.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj.ID() == 0 {
				obj.SetID(s.nextID)
				s.nextID++
			}
			s.objects = append(s.objects, obj)
		}
	}
}

// WithParticles attaches a particle system to the scene.
//
// Parameters:
//   - ps: the particle system
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParticles(ps *ParticleSystem) SceneBuilderOption {
	return func(s *scene) {
		s.particles = ps
	}
}

// WithLight replaces the default white directional light.
//
// Parameters:
//   - l: the light, ignored if nil
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		if l != nil {
			s.light = l
		}
	}
}

// WithComputeWorkers sets the number of worker goroutines used during the parallel
// matrix prep phase of PrepareTransforms. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithParallelThreshold sets the object count at or above which PrepareTransforms uses the
// compute pool. Smaller lists are processed on the calling goroutine.
//
// Parameters:
//   - n: the threshold (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParallelThreshold(n int) SceneBuilderOption {
	return func(s *scene) {
		s.parallelThreshold = max(n, 1)
	}
}

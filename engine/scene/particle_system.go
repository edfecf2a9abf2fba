package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-raw/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/geometry_buffer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// ParticleSystem is an unindexed point cloud sampled once at construction and drawn in its
// own pass after the meshes. It is never regenerated.
type ParticleSystem struct {
	cloud  *geometry.ParticleCloud
	buffer *geometry_buffer.GeometryBuffer
	pipe   pipeline.Pipeline
}

// NewParticleSystem samples count particles from seed and uploads them to s.
//
// Parameters:
//   - s: the surface that owns the buffers
//   - count: number of particles, >= 0
//   - seed: the random source seed
//   - pipe: the points pipeline the particles are drawn through
//
// Returns:
//   - *ParticleSystem: the particle system
//   - error: a geometry or upload error
func NewParticleSystem(s surface.Surface, count int, seed int64, pipe pipeline.Pipeline) (*ParticleSystem, error) {
	cloud, err := geometry.Particles(count, seed)
	if err != nil {
		return nil, fmt.Errorf("particle system: %w", err)
	}
	gb, err := geometry_buffer.UploadParticles(s, cloud, "particles")
	if err != nil {
		return nil, fmt.Errorf("particle system: %w", err)
	}
	return &ParticleSystem{cloud: cloud, buffer: gb, pipe: pipe}, nil
}

// Count returns the number of particles.
func (p *ParticleSystem) Count() int {
	return p.cloud.Count()
}

// Cloud returns the sampled positions and colors.
func (p *ParticleSystem) Cloud() *geometry.ParticleCloud {
	return p.cloud
}

// Buffer returns the uploaded geometry.
func (p *ParticleSystem) Buffer() *geometry_buffer.GeometryBuffer {
	return p.buffer
}

// Pipeline returns the points pipeline.
func (p *ParticleSystem) Pipeline() pipeline.Pipeline {
	return p.pipe
}

// Release frees the particle buffers.
func (p *ParticleSystem) Release() {
	p.buffer.Release()
}

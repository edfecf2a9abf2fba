package geometry

import "math/rand"

// ParticleCloud is a static point cloud: positions in [-1, 1)³ and colors in [0, 1)³.
type ParticleCloud struct {
	Positions []float32
	Colors    []float32
}

// Count returns the number of particles.
func (p *ParticleCloud) Count() int {
	return len(p.Positions) / 3
}

// Particles samples a point cloud once from a seeded source. The cloud is never regenerated;
// only the camera and model transforms animate it.
//
// Parameters:
//   - count: the number of particles, zero or more
//   - seed: the random seed
//
// Returns:
//   - *ParticleCloud: count position triples and count color triples
//   - error: ErrNegativeCount when count < 0
func Particles(count int, seed int64) (*ParticleCloud, error) {
	if count < 0 {
		return nil, ErrNegativeCount
	}
	rng := rand.New(rand.NewSource(seed))
	p := &ParticleCloud{
		Positions: make([]float32, count*3),
		Colors:    make([]float32, count*3),
	}
	for i := range p.Positions {
		p.Positions[i] = rng.Float32()*2 - 1
	}
	for i := range p.Colors {
		p.Colors[i] = rng.Float32()
	}
	return p, nil
}

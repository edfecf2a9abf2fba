package geometry

import (
	"math/rand"

	"github.com/chewxy/math32"
)

type sphereOptions struct {
	jitter     float32
	jitterSeed int64
	roughness  bool
	roughSeed  int64
}

// SphereBuilderOption configures Sphere.
type SphereBuilderOption func(*sphereOptions)

// WithJitter displaces every vertex along its normal by a uniform random amount in
// [-amount, amount]. The displacement happens once, at generation time.
//
// Parameters:
//   - amount: the maximum displacement
//   - seed: the random seed, so the same seed reproduces the same surface
func WithJitter(amount float32, seed int64) SphereBuilderOption {
	return func(o *sphereOptions) {
		o.jitter = amount
		o.jitterSeed = seed
	}
}

// WithRoughness fills the roughness stream with per-vertex values in [0, 1).
func WithRoughness(seed int64) SphereBuilderOption {
	return func(o *sphereOptions) {
		o.roughness = true
		o.roughSeed = seed
	}
}

// Sphere generates a UV-tessellated sphere centered on the origin.
// For each grid point θ = lat·π/latitudeBands and φ = lon·2π/longitudeBands; the unit
// direction (cosφ·sinθ, cosθ, sinφ·sinθ) is the normal and radius times it the position.
// Each grid cell contributes the triangles (first, second, first+1) and (second, second+1, first+1).
//
// Parameters:
//   - latitudeBands: rings from pole to pole, at least 1
//   - longitudeBands: segments around the axis, at least 1
//   - radius: the sphere radius
//   - opts: optional jitter and roughness
//
// Returns:
//   - *Geometry: (lat+1)(lon+1) vertices and 2·lat·lon triangles
//   - error: ErrInvalidBands or ErrTooManyVertices
func Sphere(latitudeBands, longitudeBands int, radius float32, opts ...SphereBuilderOption) (*Geometry, error) {
	if latitudeBands < 1 || longitudeBands < 1 {
		return nil, ErrInvalidBands
	}
	n := (latitudeBands + 1) * (longitudeBands + 1)
	if n > MaxVertices {
		return nil, ErrTooManyVertices
	}
	var o sphereOptions
	for _, opt := range opts {
		opt(&o)
	}

	g := &Geometry{
		Positions:  make([]float32, 0, n*3),
		Normals:    make([]float32, 0, n*3),
		Tangents:   make([]float32, 0, n*3),
		Bitangents: make([]float32, 0, n*3),
		UVs:        make([]float32, 0, n*2),
		Indices:    make([]uint16, 0, latitudeBands*longitudeBands*6),
	}

	var jitter *rand.Rand
	if o.jitter != 0 {
		jitter = rand.New(rand.NewSource(o.jitterSeed))
	}

	for lat := 0; lat <= latitudeBands; lat++ {
		theta := float32(lat) * math32.Pi / float32(latitudeBands)
		sinTheta, cosTheta := math32.Sincos(theta)
		for lon := 0; lon <= longitudeBands; lon++ {
			phi := float32(lon) * 2 * math32.Pi / float32(longitudeBands)
			sinPhi, cosPhi := math32.Sincos(phi)

			x := cosPhi * sinTheta
			y := cosTheta
			z := sinPhi * sinTheta

			r := radius
			if jitter != nil {
				r += (jitter.Float32()*2 - 1) * o.jitter
			}

			g.Positions = append(g.Positions, r*x, r*y, r*z)
			g.Normals = append(g.Normals, x, y, z)
			g.Tangents = append(g.Tangents, sinPhi, 0, -cosPhi)
			g.Bitangents = append(g.Bitangents, -cosPhi*cosTheta, sinTheta, -sinPhi*cosTheta)
			g.UVs = append(g.UVs,
				1-float32(lon)/float32(longitudeBands),
				1-float32(lat)/float32(latitudeBands),
			)
		}
	}

	for lat := 0; lat < latitudeBands; lat++ {
		for lon := 0; lon < longitudeBands; lon++ {
			first := uint16(lat*(longitudeBands+1) + lon)
			second := first + uint16(longitudeBands) + 1
			g.Indices = append(g.Indices,
				first, second, first+1,
				second, second+1, first+1,
			)
		}
	}

	if o.roughness {
		rng := rand.New(rand.NewSource(o.roughSeed))
		g.Roughness = make([]float32, n)
		for i := range g.Roughness {
			g.Roughness[i] = rng.Float32()
		}
	}
	return g, nil
}

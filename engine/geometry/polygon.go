package geometry

import (
	"github.com/chewxy/math32"
)

type polygonOptions struct {
	radius float32
}

// PolygonBuilderOption configures Polygon.
type PolygonBuilderOption func(*polygonOptions)

// WithRadius sets the circumradius of the polygon. Defaults to 1.
func WithRadius(r float32) PolygonBuilderOption {
	return func(o *polygonOptions) {
		o.radius = r
	}
}

// Polygon generates a regular polygon in the XY plane, centered on the origin and facing +Z.
// Vertex i sits at angle i·2π/sides; the interior is triangulated as a fan (0, i, i+1).
//
// Parameters:
//   - sides: the number of corners, at least 3
//   - opts: optional radius
//
// Returns:
//   - *Geometry: sides vertices and sides-2 triangles
//   - error: ErrTooFewSides or ErrTooManyVertices
func Polygon(sides int, opts ...PolygonBuilderOption) (*Geometry, error) {
	if sides < 3 {
		return nil, ErrTooFewSides
	}
	if sides > MaxVertices {
		return nil, ErrTooManyVertices
	}
	o := polygonOptions{radius: 1}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Geometry{
		Positions:  make([]float32, 0, sides*3),
		Normals:    make([]float32, 0, sides*3),
		Tangents:   make([]float32, 0, sides*3),
		Bitangents: make([]float32, 0, sides*3),
		UVs:        make([]float32, 0, sides*2),
		Indices:    make([]uint16, 0, (sides-2)*3),
	}
	step := 2 * math32.Pi / float32(sides)
	for i := 0; i < sides; i++ {
		s, c := math32.Sincos(float32(i) * step)
		g.Positions = append(g.Positions, o.radius*c, o.radius*s, 0)
		g.Normals = append(g.Normals, 0, 0, 1)
		g.Tangents = append(g.Tangents, 1, 0, 0)
		g.Bitangents = append(g.Bitangents, 0, 1, 0)
		g.UVs = append(g.UVs, 0.5+0.5*c, 0.5+0.5*s)
	}
	for i := 1; i <= sides-2; i++ {
		g.Indices = append(g.Indices, 0, uint16(i), uint16(i+1))
	}
	return g, nil
}

// Package geometry generates vertex attribute and index arrays for procedural and fixed shapes.
// Every generator is a pure function; the returned Geometry is owned by the caller.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTooFewSides is returned when a polygon is requested with fewer than 3 sides.
	ErrTooFewSides = errors.New("geometry: polygon needs at least 3 sides")

	// ErrInvalidBands is returned when a sphere is requested with fewer than 1 band in either direction.
	ErrInvalidBands = errors.New("geometry: sphere needs at least 1 latitude and 1 longitude band")

	// ErrTooManyVertices is returned when a shape would exceed the uint16 index range.
	ErrTooManyVertices = errors.New("geometry: vertex count exceeds uint16 index range")

	// ErrNegativeCount is returned when a particle cloud is requested with a negative count.
	ErrNegativeCount = errors.New("geometry: particle count must not be negative")
)

// MaxVertices is the largest vertex count addressable by uint16 indices.
const MaxVertices = math.MaxUint16 + 1

// Attribute identifies a per-vertex stream of a Geometry.
type Attribute int

const (
	AttributePosition Attribute = iota
	AttributeNormal
	AttributeTangent
	AttributeBitangent
	AttributeColor
	AttributeUV
	AttributeRoughness
	attributeCount
)

var attributeComponents = [attributeCount]int{3, 3, 3, 3, 4, 2, 1}

var attributeNames = [attributeCount]string{"position", "normal", "tangent", "bitangent", "color", "uv", "roughness"}

// Components returns the fixed number of float32 components per vertex for the stream.
func (a Attribute) Components() int {
	if a < 0 || a >= attributeCount {
		return 0
	}
	return attributeComponents[a]
}

func (a Attribute) String() string {
	if a < 0 || a >= attributeCount {
		return "unknown"
	}
	return attributeNames[a]
}

// Attributes returns every stream kind in declaration order.
func Attributes() []Attribute {
	out := make([]Attribute, attributeCount)
	for i := range out {
		out[i] = Attribute(i)
	}
	return out
}

// Geometry is a set of per-vertex attribute streams plus a triangle index list.
// Positions is required; every other stream is optional (nil or empty when absent).
type Geometry struct {
	Positions  []float32
	Normals    []float32
	Tangents   []float32
	Bitangents []float32
	Colors     []float32
	UVs        []float32
	Roughness  []float32
	Indices    []uint16
}

// Stream returns the backing slice of the given attribute, which may be empty.
//
// Parameters:
//   - a: the attribute to look up
//
// Returns:
//   - []float32: the stream data
func (g *Geometry) Stream(a Attribute) []float32 {
	switch a {
	case AttributePosition:
		return g.Positions
	case AttributeNormal:
		return g.Normals
	case AttributeTangent:
		return g.Tangents
	case AttributeBitangent:
		return g.Bitangents
	case AttributeColor:
		return g.Colors
	case AttributeUV:
		return g.UVs
	case AttributeRoughness:
		return g.Roughness
	default:
		return nil
	}
}

// Has reports whether the geometry carries a non-empty stream for a.
func (g *Geometry) Has(a Attribute) bool {
	return len(g.Stream(a)) > 0
}

// VertexCount returns the number of vertices described by Positions.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles described by Indices.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Validate checks that every non-empty stream has exactly VertexCount × components floats,
// that the index list is a whole number of triangles and that every index is in range.
//
// Returns:
//   - error: a descriptive error for the first violated invariant, or nil
func (g *Geometry) Validate() error {
	if len(g.Positions) == 0 || len(g.Positions)%3 != 0 {
		return fmt.Errorf("geometry: positions length %d is not a positive multiple of 3", len(g.Positions))
	}
	n := g.VertexCount()
	if n > MaxVertices {
		return ErrTooManyVertices
	}
	for _, a := range Attributes() {
		s := g.Stream(a)
		if len(s) == 0 {
			continue
		}
		if want := n * a.Components(); len(s) != want {
			return fmt.Errorf("geometry: %s stream has %d floats, want %d", a, len(s), want)
		}
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("geometry: index count %d is not a multiple of 3", len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("geometry: index %d at %d out of range for %d vertices", idx, i, n)
		}
	}
	return nil
}

// FillRoughness sets a constant roughness value for every vertex.
//
// Parameters:
//   - r: the roughness value in [0, 1]
func (g *Geometry) FillRoughness(r float32) {
	g.Roughness = make([]float32, g.VertexCount())
	for i := range g.Roughness {
		g.Roughness[i] = r
	}
}

// FillColor sets a constant RGBA color for every vertex.
func (g *Geometry) FillColor(r, gr, b, a float32) {
	n := g.VertexCount()
	g.Colors = make([]float32, 0, n*4)
	for i := 0; i < n; i++ {
		g.Colors = append(g.Colors, r, gr, b, a)
	}
}

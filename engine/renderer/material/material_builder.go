package material

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the albedo RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithShininess is an option builder that sets the specular exponent.
//
// Parameters:
//   - shininess: the exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = shininess
	}
}

// WithPointSize is an option builder that sets the particle point size in pixels.
//
// Parameters:
//   - size: the point size
//
// Returns:
//   - MaterialBuilderOption: a function that applies the point size option to a material
func WithPointSize(size float32) MaterialBuilderOption {
	return func(m *material) {
		m.pointSize = size
	}
}

// WithBumpMap is an option builder that sets the bump-map texture.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the bump map option to a material
func WithBumpMap(tex surface.TextureHandle) MaterialBuilderOption {
	return func(m *material) {
		m.bumpMap = tex
	}
}

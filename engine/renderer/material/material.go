package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name      string
	baseColor [4]float32
	shininess float32
	pointSize float32
	bumpMap   surface.TextureHandle
}

// Material defines the interface for the surface constants uploaded with every draw: a base
// color, a specular exponent, the particle point size and an optional bump-map texture.
// Lighting comes from the scene's light.
//
// Programs only receive the values whose uniforms they declare, so one Material serves every
// capability permutation.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the exponent
	Shininess() float32

	// PointSize retrieves the particle point size in pixels.
	//
	// Returns:
	//   - float32: the point size
	PointSize() float32

	// BumpMap retrieves the bump-map texture, or 0 if none is set.
	//
	// Returns:
	//   - surface.TextureHandle: the texture handle
	BumpMap() surface.TextureHandle

	// SetBaseColor sets the albedo RGBA color.
	//
	// Parameters:
	//   - color: the base color
	SetBaseColor(color [4]float32)

	// SetBumpMap sets the bump-map texture. Pass 0 to clear it.
	//
	// Parameters:
	//   - tex: the texture handle
	SetBumpMap(tex surface.TextureHandle)
}

var _ Material = &material{}

// NewMaterial creates a light grey material with shininess 32 and a 2 pixel point size.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:        &sync.Mutex{},
		name:      "default",
		baseColor: [4]float32{0.827, 0.827, 0.827, 1},
		shininess: 32,
		pointSize: 2,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseColor
}

func (m *material) Shininess() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shininess
}

func (m *material) PointSize() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointSize
}

func (m *material) BumpMap() surface.TextureHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bumpMap
}

func (m *material) SetBaseColor(color [4]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseColor = color
}

func (m *material) SetBumpMap(tex surface.TextureHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bumpMap = tex
}

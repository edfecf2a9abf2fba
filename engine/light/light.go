package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-raw/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction. It affects
	// every fragment uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	lightType LightType
	direction [3]float32
	color     [3]float32
	ambient   [3]float32
	intensity float32
	enabled   bool
}

// Light defines the interface for the scene's light source.
//
// The renderer binds the direction to uLightDirection, the radiance to uLightColor and the
// ambient term to uAmbientColor for every program that declares them. Setters are safe to call
// while frames are drawn.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Direction returns the normalized direction toward the light, in view space.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Ambient returns the ambient RGB term added regardless of direction.
	//
	// Returns:
	//   - [3]float32: ambient color as (r, g, b)
	Ambient() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light contributes to rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// Radiance returns the color scaled by the intensity, or black when the light is disabled.
	//
	// Returns:
	//   - [3]float32: the effective light color
	Radiance() [3]float32

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetAmbient sets the ambient RGB term.
	//
	// Parameters:
	//   - r, g, b: color components
	SetAmbient(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier. Negative values are clamped to 0.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a white directional light shining from (5, 5, 5) at full intensity over a
// dim 0.25 grey ambient term, with any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		lightType: LightTypeDirectional,
		direction: normalize3(5, 5, 5),
		color:     [3]float32{1, 1, 1},
		ambient:   [3]float32{0.25, 0.25, 0.25},
		intensity: 1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Ambient() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ambient
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) Radiance() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return [3]float32{}
	}
	return [3]float32{l.color[0] * l.intensity, l.color[1] * l.intensity, l.color[2] * l.intensity}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetAmbient(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = max(intensity, 0)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func normalize3(x, y, z float32) [3]float32 {
	x, y, z = common.Normalize3(x, y, z)
	return [3]float32{x, y, z}
}

package params

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
)

// ParamsBuilderOption is a functional option for configuring Params during construction.
type ParamsBuilderOption func(*params)

// WithRotationSpeed sets the initial rotation speed. It is clamped like SetRotationSpeed.
//
// Parameters:
//   - speed: the rotation speed
//
// Returns:
//   - ParamsBuilderOption: functional option to set the speed
func WithRotationSpeed(speed float64) ParamsBuilderOption {
	return func(p *params) {
		p.rotationSpeed = speed
	}
}

// WithZoom sets the initial zoom. It is clamped like SetZoom.
//
// Parameters:
//   - zoom: the zoom factor
//
// Returns:
//   - ParamsBuilderOption: functional option to set the zoom
func WithZoom(zoom float32) ParamsBuilderOption {
	return func(p *params) {
		p.zoom = zoom
	}
}

// WithScrollStep sets how much one unit of scroll delta changes the zoom.
//
// Parameters:
//   - step: zoom change per scroll unit
//
// Returns:
//   - ParamsBuilderOption: functional option to set the scroll step
func WithScrollStep(step float32) ParamsBuilderOption {
	return func(p *params) {
		p.scrollStep = step
	}
}

// WithSides sets the initial polygon side count. It is clamped like SetSides.
//
// Parameters:
//   - sides: the side count
//
// Returns:
//   - ParamsBuilderOption: functional option to set the side count
func WithSides(sides int) ParamsBuilderOption {
	return func(p *params) {
		p.sides = sides
	}
}

// WithCapabilities sets the initial shader capabilities.
//
// Parameters:
//   - caps: the capability bits
//
// Returns:
//   - ParamsBuilderOption: functional option to set the capabilities
func WithCapabilities(caps shader.Capability) ParamsBuilderOption {
	return func(p *params) {
		p.capabilities = caps
	}
}

// WithPlacements sets the initial placement list in order.
//
// Parameters:
//   - placements: the placements
//
// Returns:
//   - ParamsBuilderOption: functional option to set the placements
func WithPlacements(placements ...Placement) ParamsBuilderOption {
	return func(p *params) {
		p.placements = append(p.placements, placements...)
	}
}

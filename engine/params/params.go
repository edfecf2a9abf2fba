// Package params holds the values an outer UI layer feeds into the frame: rotation speed,
// zoom, polygon side count, shader capabilities and the entity placement list. Setters clamp
// to the valid ranges; the frame loop reads a consistent Snapshot at frame start.
package params

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/chewxy/math32"
)

const (
	// MinRotationSpeed and MaxRotationSpeed bound the rotation speed slider.
	MinRotationSpeed = 0.0
	MaxRotationSpeed = 0.1

	// DefaultRotationSpeed is the slider's resting value, one radian per second.
	DefaultRotationSpeed = 0.01

	// MinZoom is the smallest zoom factor. Zoom is unbounded above.
	MinZoom = 0.1

	// DefaultScrollStep converts one unit of scroll delta into a zoom change.
	DefaultScrollStep = 0.1

	// MinSides is the fewest sides a polygon may have.
	MinSides = 3
)

// Placement is one requested entity: a world position plus a static rotation phase.
type Placement struct {
	X, Y, Z float32
	Phase   float32
}

// Snapshot is a consistent copy of the parameters taken at frame start.
type Snapshot struct {
	RotationSpeed float64
	Zoom          float32
	Sides         int
	Capabilities  shader.Capability
	Placements    []Placement

	// Version increases on every mutation; equal versions mean equal snapshots.
	Version uint64
}

type params struct {
	mu *sync.Mutex

	rotationSpeed float64
	zoom          float32
	scrollStep    float32
	sides         int
	capabilities  shader.Capability
	placements    []Placement
	version       uint64
}

// Params defines the interface for the externally supplied frame parameters.
// All methods are safe for concurrent use; input callbacks may call setters from any goroutine.
type Params interface {
	// RotationSpeed returns the rotation speed in [MinRotationSpeed, MaxRotationSpeed].
	RotationSpeed() float64

	// SetRotationSpeed sets the rotation speed, clamped to [MinRotationSpeed, MaxRotationSpeed].
	//
	// Parameters:
	//   - speed: the requested speed
	SetRotationSpeed(speed float64)

	// Zoom returns the zoom factor, at least MinZoom.
	Zoom() float32

	// SetZoom sets the zoom factor, clamped below at MinZoom.
	//
	// Parameters:
	//   - zoom: the requested zoom
	SetZoom(zoom float32)

	// Scroll adjusts the zoom by delta times the scroll step. Positive deltas zoom in.
	//
	// Parameters:
	//   - delta: the scroll delta reported by the input layer
	Scroll(delta float32)

	// Sides returns the polygon side count, at least MinSides.
	Sides() int

	// SetSides sets the polygon side count, clamped below at MinSides.
	//
	// Parameters:
	//   - sides: the requested side count
	SetSides(sides int)

	// Capabilities returns the selected shader capabilities.
	Capabilities() shader.Capability

	// SetCapabilities selects the shader capabilities.
	//
	// Parameters:
	//   - caps: the capability bits
	SetCapabilities(caps shader.Capability)

	// PushPlacement appends an entity placement to the tail of the list.
	//
	// Parameters:
	//   - p: the placement
	PushPlacement(p Placement)

	// PopPlacement removes the tail placement. It reports false when the list is empty.
	//
	// Returns:
	//   - Placement: the removed placement
	//   - bool: true if a placement was removed
	PopPlacement() (Placement, bool)

	// Placements returns a copy of the placement list.
	Placements() []Placement

	// Snapshot returns a consistent copy of every parameter.
	Snapshot() Snapshot
}

var _ Params = &params{}

// NewParams creates Params with the default rotation speed, zoom 1, MinSides sides, the
// Phong capability preset and no placements.
//
// Parameters:
//   - options: functional options to configure the parameters
//
// Returns:
//   - Params: the parameters
func NewParams(options ...ParamsBuilderOption) Params {
	p := &params{
		mu:            &sync.Mutex{},
		rotationSpeed: DefaultRotationSpeed,
		zoom:          1,
		scrollStep:    DefaultScrollStep,
		sides:         MinSides,
		capabilities:  shader.PresetPhong,
	}
	for _, option := range options {
		option(p)
	}
	p.rotationSpeed = clampSpeed(p.rotationSpeed, DefaultRotationSpeed)
	p.zoom = clampZoom(p.zoom, 1)
	p.sides = max(p.sides, MinSides)
	return p
}

func (p *params) RotationSpeed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rotationSpeed
}

func (p *params) SetRotationSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rotationSpeed = clampSpeed(speed, p.rotationSpeed)
	p.version++
}

func (p *params) Zoom() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.zoom
}

func (p *params) SetZoom(zoom float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zoom = clampZoom(zoom, p.zoom)
	p.version++
}

func (p *params) Scroll(delta float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zoom = clampZoom(p.zoom+delta*p.scrollStep, p.zoom)
	p.version++
}

func (p *params) Sides() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sides
}

func (p *params) SetSides(sides int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sides = max(sides, MinSides)
	p.version++
}

func (p *params) Capabilities() shader.Capability {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capabilities
}

func (p *params) SetCapabilities(caps shader.Capability) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.capabilities = caps
	p.version++
}

func (p *params) PushPlacement(pl Placement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placements = append(p.placements, pl)
	p.version++
}

func (p *params) PopPlacement() (Placement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.placements)
	if n == 0 {
		return Placement{}, false
	}
	pl := p.placements[n-1]
	p.placements = p.placements[:n-1]
	p.version++
	return pl, true
}

func (p *params) Placements() []Placement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Placement(nil), p.placements...)
}

func (p *params) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		RotationSpeed: p.rotationSpeed,
		Zoom:          p.zoom,
		Sides:         p.sides,
		Capabilities:  p.capabilities,
		Placements:    append([]Placement(nil), p.placements...),
		Version:       p.version,
	}
}

// clampSpeed bounds speed to [MinRotationSpeed, MaxRotationSpeed]. NaN keeps prev.
func clampSpeed(speed, prev float64) float64 {
	if math.IsNaN(speed) {
		return prev
	}
	return common.Clamp(speed, MinRotationSpeed, MaxRotationSpeed)
}

// clampZoom bounds zoom below at MinZoom. NaN and infinities keep prev.
func clampZoom(zoom, prev float32) float32 {
	if math32.IsNaN(zoom) || math32.IsInf(zoom, 0) {
		return prev
	}
	return max(zoom, MinZoom)
}

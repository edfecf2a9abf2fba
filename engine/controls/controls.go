// Package controls maps key presses onto frame parameters. Key codes are the shared values in
// common, so the desktop window and the browser canvas feed the same bindings.
package controls

import (
	"log"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine"
	"github.com/Carmen-Shannon/oxy-raw/engine/params"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
)

// Controls applies key bindings to a Params:
//
//	+ / -    rotation speed up / down
//	C / X    add / remove a cube
//	P / O    one polygon side more / fewer
//	1 .. 5   capability presets (flat, lambert, phong, bump map, all terms)
//	R        reset speed and zoom
type Controls struct {
	params    params.Params
	speedStep float64
	spacing   float32
	presets   []shader.Capability
	initial   params.Snapshot
}

// NewControls binds keys to p. The state of p at this call is what R resets to.
//
// Panics if p is nil.
//
// Parameters:
//   - p: the parameters to drive
//   - options: functional options for the bindings
//
// Returns:
//   - *Controls: the bindings
func NewControls(p params.Params, options ...ControlsBuilderOption) *Controls {
	if p == nil {
		panic("controls: NewControls requires non-nil Params")
	}
	c := &Controls{
		params:    p,
		speedStep: 0.005,
		spacing:   2.5,
		presets:   append(shader.Presets(), shader.PresetAllTerms),
		initial:   p.Snapshot(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// HandleKey applies the binding for key, if any.
//
// Parameters:
//   - key: a key code from common
//
// Returns:
//   - bool: true if the key is bound
func (c *Controls) HandleKey(key uint32) bool {
	p := c.params
	switch key {
	case common.KeyEqual, common.KeyKPAdd:
		p.SetRotationSpeed(p.RotationSpeed() + c.speedStep)
	case common.KeyMinus, common.KeyKPSubtract:
		p.SetRotationSpeed(p.RotationSpeed() - c.speedStep)
	case common.KeyC:
		n := len(p.Placements())
		p.PushPlacement(engine.CubePlacements(n+1, c.spacing)[n])
	case common.KeyX:
		p.PopPlacement()
	case common.KeyP:
		p.SetSides(p.Sides() + 1)
	case common.KeyO:
		p.SetSides(p.Sides() - 1)
	case common.Key1, common.Key2, common.Key3, common.Key4, common.Key5:
		i := int(key - common.Key1)
		if i >= len(c.presets) {
			return false
		}
		p.SetCapabilities(c.presets[i])
		log.Printf("[Controls] preset %d: %s", i+1, c.presets[i])
	case common.KeyR:
		p.SetRotationSpeed(c.initial.RotationSpeed)
		p.SetZoom(c.initial.Zoom)
	default:
		return false
	}
	return true
}

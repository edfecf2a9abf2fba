package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/geometry_buffer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
)

// TiltFactor scales the shared rotation angle into the Y-axis rotation every object receives
// on top of its Z-axis rotation.
const TiltFactor = 0.7

type gameObject struct {
	id       uint64
	enabled  atomic.Bool
	geometry *geometry_buffer.GeometryBuffer
	pipe     pipeline.Pipeline

	position [3]float32
	phase    float32
}

// GameObject defines the interface for one drawable scene entity: a shared geometry buffer,
// a world position, a static rotation phase added to the scene-wide angle, and the pipeline
// its draws go through. The geometry buffer is borrowed; the object never releases it.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Geometry returns the shared geometry buffer, or nil if not set.
	//
	// Returns:
	//   - *geometry_buffer.GeometryBuffer: the buffer or nil
	Geometry() *geometry_buffer.GeometryBuffer

	// Pipeline returns the pipeline the object is drawn through, or nil if not set.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline or nil
	Pipeline() pipeline.Pipeline

	// Position returns the object's world position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Phase returns the static rotation offset in radians.
	//
	// Returns:
	//   - float32: the phase
	Phase() float32

	// ModelView composes view · translate(position) · rotateZ(angle+phase) ·
	// rotateY(TiltFactor·(angle+phase)) into out.
	//
	// Parameters:
	//   - out: destination slice (must be at least 16 elements)
	//   - view: the camera view matrix
	//   - angle: the scene-wide rotation angle in radians
	ModelView(out []float32, view [16]float32, angle float32)

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetGeometry swaps the shared geometry buffer.
	//
	// Parameters:
	//   - gb: the buffer to draw
	SetGeometry(gb *geometry_buffer.GeometryBuffer)

	// SetPipeline swaps the pipeline.
	//
	// Parameters:
	//   - p: the pipeline to draw through
	SetPipeline(p pipeline.Pipeline)

	// SetPosition updates the object's world position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetPhase updates the static rotation offset.
	//
	// Parameters:
	//   - phase: offset in radians
	SetPhase(phase float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject at the origin configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Geometry() *geometry_buffer.GeometryBuffer {
	return g.geometry
}

func (g *gameObject) Pipeline() pipeline.Pipeline {
	return g.pipe
}

func (g *gameObject) Position() (x, y, z float32) {
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) Phase() float32 {
	return g.phase
}

func (g *gameObject) ModelView(out []float32, view [16]float32, angle float32) {
	a := angle + g.phase
	copy(out, view[:])
	common.Translate(out, out, g.position[0], g.position[1], g.position[2])
	common.RotateZ(out, out, a)
	common.RotateY(out, out, TiltFactor*a)
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetGeometry(gb *geometry_buffer.GeometryBuffer) {
	g.geometry = gb
}

func (g *gameObject) SetPipeline(p pipeline.Pipeline) {
	g.pipe = p
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.position = [3]float32{x, y, z}
}

func (g *gameObject) SetPhase(phase float32) {
	g.phase = phase
}

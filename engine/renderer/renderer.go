package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raw/engine/light"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/geometry_buffer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/scene"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// State is a step of the per-frame state machine.
type State int

const (
	// StateIdle is the resting state between frames.
	StateIdle State = iota

	// StateClearTargets clears color and depth and sets the depth comparison.
	StateClearTargets

	// StateBindAttributes binds one entity's attribute streams.
	StateBindAttributes

	// StateBindUniforms uploads one entity's matrices and material constants.
	StateBindUniforms

	// StateDraw issues one entity's indexed draw.
	StateDraw

	// StateParticlePass draws the particle cloud.
	StateParticlePass
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClearTargets:
		return "clear_targets"
	case StateBindAttributes:
		return "bind_attributes"
	case StateBindUniforms:
		return "bind_uniforms"
	case StateDraw:
		return "draw"
	case StateParticlePass:
		return "particle_pass"
	default:
		return "unknown"
	}
}

// Frame is the input of one RenderFrame call.
type Frame struct {
	// Scene supplies the draw list, camera and particle system.
	Scene scene.Scene

	// Angle is the scene-wide rotation angle in radians.
	Angle float32
}

// FrameStats counts what one RenderFrame call did.
type FrameStats struct {
	// Entities is the number of enabled scene objects visited.
	Entities int

	// Draws is the number of draw calls the surface accepted.
	Draws int

	// SkippedEntities counts objects not drawn because their pipeline was unusable, their
	// geometry lacked a stream the program requires, or the draw was rejected.
	SkippedEntities int

	// SkippedStreams counts geometry streams left unbound because the program does not declare them.
	SkippedStreams int

	// Particles is the number of points drawn in the particle pass.
	Particles int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	surface  surface.Surface
	material material.Material

	pipelineCache map[string]pipeline.Pipeline

	state State

	// per-frame bookkeeping, reset by RenderFrame
	currentProgram surface.ProgramHandle
	depthTest      bool
	depthFunc      surface.DepthFunc

	// reported holds missing-attribute diagnostics already logged, keyed by program and role.
	reported map[string]struct{}
}

// Renderer defines the interface for the frame draw submitter.
//
// Each RenderFrame walks Idle → ClearTargets → for each entity {BindAttributes → BindUniforms
// → Draw} → ParticlePass → Idle against the Surface. The viewport is read fresh every frame
// so resizes never leave a stale aspect ratio. Failures local to one entity skip that entity
// and are logged; they never abort the frame.
type Renderer interface {
	// Surface returns the surface draws are submitted to.
	//
	// Returns:
	//   - surface.Surface: the surface
	Surface() surface.Surface

	// Material returns the lighting constants uploaded with every draw.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// SetMaterial replaces the lighting constants.
	//
	// Parameters:
	//   - m: the material
	SetMaterial(m material.Material)

	// State returns the current state machine state. It is StateIdle between frames.
	//
	// Returns:
	//   - State: the state
	State() State

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// SetPipeline adds or updates a Pipeline in the cache with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to add or update in the cache
	//   - p: the Pipeline to add or update in the cache
	SetPipeline(key string, p pipeline.Pipeline)

	// Resize updates the surface viewport. The next frame picks up the new aspect ratio.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// RenderFrame draws one frame of f.Scene.
	//
	// Parameters:
	//   - f: the frame input
	//
	// Returns:
	//   - FrameStats: what the frame did
	//   - error: a BeginFrame or EndFrame failure from the surface
	RenderFrame(f Frame) (FrameStats, error)

	// Release deletes every cached pipeline's program.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing to s.
//
// Panics if s is nil.
//
// Parameters:
//   - s: the surface to draw to
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(s surface.Surface, options ...RendererBuilderOption) Renderer {
	if s == nil {
		panic("renderer: NewRenderer requires a non-nil Surface")
	}
	r := &renderer{
		mu:            &sync.Mutex{},
		surface:       s,
		material:      material.NewMaterial(),
		pipelineCache: make(map[string]pipeline.Pipeline),
		reported:      make(map[string]struct{}),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Surface() surface.Surface {
	return r.surface
}

func (r *renderer) Material() material.Material {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.material
}

func (r *renderer) SetMaterial(m material.Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.material = m
}

func (r *renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) SetPipeline(key string, p pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelineCache[key] = p
}

func (r *renderer) Resize(width, height int) {
	r.surface.Viewport().SetSize(width, height)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pipelineCache {
		if prog := p.Program(); prog != nil {
			prog.Release()
		}
	}
}

func (r *renderer) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *renderer) RenderFrame(f Frame) (FrameStats, error) {
	var stats FrameStats
	if f.Scene == nil {
		return stats, fmt.Errorf("renderer: frame has no scene")
	}
	defer r.setState(StateIdle)

	// ClearTargets
	r.setState(StateClearTargets)
	if err := r.surface.BeginFrame(); err != nil {
		return stats, fmt.Errorf("renderer: begin frame: %w", err)
	}
	r.currentProgram = 0
	r.depthTest = true
	r.depthFunc = surface.DepthLessEqual
	r.surface.Clear(0, 0, 0, 1, 1.0)
	r.surface.EnableDepthTest(surface.DepthLessEqual)

	cam := f.Scene.Camera()
	cam.SetAspect(r.surface.Viewport().Aspect())
	projection := cam.ProjectionMatrix()
	mat := r.Material()
	lt := f.Scene.Light()

	objects := f.Scene.Objects()
	transforms := f.Scene.PrepareTransforms(objects, f.Angle)

	for i, obj := range objects {
		if !obj.Enabled() {
			continue
		}
		stats.Entities++
		if !r.drawEntity(obj, &transforms[i], &projection, mat, lt, &stats) {
			stats.SkippedEntities++
		}
	}

	// ParticlePass
	if ps := f.Scene.Particles(); ps != nil {
		r.setState(StateParticlePass)
		stats.Particles = r.drawParticles(ps, cam.ViewMatrix(), f.Angle, &projection, mat)
		if stats.Particles > 0 {
			stats.Draws++
		}
	}

	if err := r.surface.EndFrame(); err != nil {
		return stats, fmt.Errorf("renderer: end frame: %w", err)
	}
	return stats, nil
}

// drawEntity runs BindAttributes → BindUniforms → Draw for one object and reports whether the
// draw was issued and accepted.
func (r *renderer) drawEntity(obj game_object.GameObject, t *scene.Transform, projection *[16]float32, mat material.Material, lt light.Light, stats *FrameStats) bool {
	pipe := obj.Pipeline()
	if pipe == nil || !pipe.Usable() {
		return false
	}
	gb := obj.Geometry()
	if gb == nil || !gb.Indexed() {
		return false
	}
	prog := pipe.Program()
	locs := prog.Locations()

	// No partial draws: every stream the program reads must exist before anything is bound.
	for _, role := range locs.AttributeRoles() {
		if !gb.Has(role) {
			log.Printf("[Renderer] %s: skipping %s, %v", prog.Key(), gb.Label(),
				&surface.MissingAttributeError{Attribute: role.AttributeName(), Reason: "geometry has no such stream"})
			return false
		}
	}

	r.useProgram(prog.Handle())
	r.applyDepth(pipe)

	r.setState(StateBindAttributes)
	stats.SkippedStreams += r.bindStreams(prog, gb)

	r.setState(StateBindUniforms)
	r.bindMatrices(locs, projection, &t.ModelView)
	if loc, ok := locs.Uniform(shader.UniformNormalMatrix); ok && t.NormalOK {
		r.surface.UniformMatrix4(loc, &t.Normal)
	}
	r.bindMaterial(locs, mat)
	r.bindLight(locs, lt)

	r.setState(StateDraw)
	if err := r.surface.DrawElements(pipe.Primitive(), gb.IndexBuffer(), 3*gb.TriangleCount()); err != nil {
		log.Printf("[Renderer] %s: draw %s: %v", prog.Key(), gb.Label(), err)
		return false
	}
	stats.Draws++
	return true
}

// bindStreams binds every geometry stream the program declares and returns how many streams
// were left unbound because the program has no location for them.
func (r *renderer) bindStreams(prog shader.Program, gb *geometry_buffer.GeometryBuffer) int {
	locs := prog.Locations()
	skipped := 0
	for _, role := range gb.Roles() {
		b, _ := gb.Binding(role)
		loc, ok := locs.Attribute(role)
		if !ok {
			skipped++
			r.reportMissing(prog.Key(), role)
			continue
		}
		r.surface.BindAttribute(loc, b.Buffer, b.Layout())
	}
	return skipped
}

// reportMissing logs a missing-attribute diagnostic once per program and role.
func (r *renderer) reportMissing(key string, role shader.Role) {
	id := key + "/" + role.AttributeName()
	if _, seen := r.reported[id]; seen {
		return
	}
	r.reported[id] = struct{}{}
	log.Printf("[Renderer] %s: %v", key,
		&surface.MissingAttributeError{Attribute: role.AttributeName(), Reason: "program does not declare it, stream left unbound"})
}

func (r *renderer) bindMatrices(locs *shader.LocationTable, projection, modelView *[16]float32) {
	if loc, ok := locs.Uniform(shader.UniformProjection); ok {
		r.surface.UniformMatrix4(loc, projection)
	}
	if loc, ok := locs.Uniform(shader.UniformModelView); ok {
		r.surface.UniformMatrix4(loc, modelView)
	}
}

func (r *renderer) bindMaterial(locs *shader.LocationTable, mat material.Material) {
	if loc, ok := locs.Uniform(shader.UniformBaseColor); ok {
		c := mat.BaseColor()
		r.surface.Uniform4f(loc, c[0], c[1], c[2], c[3])
	}
	if loc, ok := locs.Uniform(shader.UniformShininess); ok {
		r.surface.Uniform1f(loc, mat.Shininess())
	}
	if loc, ok := locs.Uniform(shader.UniformBumpMap); ok {
		if tex := mat.BumpMap(); tex != 0 {
			r.surface.BindTexture(loc, 0, tex)
		}
	}
}

// bindLight uploads the scene light. A scene without one shades only with black.
func (r *renderer) bindLight(locs *shader.LocationTable, lt light.Light) {
	var dir, radiance, ambient [3]float32
	if lt != nil {
		dir, radiance, ambient = lt.Direction(), lt.Radiance(), lt.Ambient()
	}
	if loc, ok := locs.Uniform(shader.UniformAmbientColor); ok {
		r.surface.Uniform3f(loc, ambient[0], ambient[1], ambient[2])
	}
	if loc, ok := locs.Uniform(shader.UniformLightDirection); ok {
		r.surface.Uniform3f(loc, dir[0], dir[1], dir[2])
	}
	if loc, ok := locs.Uniform(shader.UniformLightColor); ok {
		r.surface.Uniform3f(loc, radiance[0], radiance[1], radiance[2])
	}
}

// drawParticles draws the particle cloud with the camera view and the scene-wide spin but no
// per-entity offset. It returns the number of points drawn.
func (r *renderer) drawParticles(ps *scene.ParticleSystem, view [16]float32, angle float32, projection *[16]float32, mat material.Material) int {
	pipe := ps.Pipeline()
	if pipe == nil || !pipe.Usable() || ps.Count() == 0 {
		return 0
	}
	prog := pipe.Program()
	locs := prog.Locations()
	gb := ps.Buffer()

	r.useProgram(prog.Handle())
	r.applyDepth(pipe)
	r.bindStreams(prog, gb)

	modelView := view
	common.RotateZ(modelView[:], modelView[:], angle)
	common.RotateY(modelView[:], modelView[:], game_object.TiltFactor*angle)
	r.bindMatrices(locs, projection, &modelView)
	if loc, ok := locs.Uniform(shader.UniformPointSize); ok {
		r.surface.Uniform1f(loc, mat.PointSize())
	}

	if err := r.surface.DrawArrays(pipe.Primitive(), 0, gb.VertexCount()); err != nil {
		log.Printf("[Renderer] %s: draw particles: %v", prog.Key(), err)
		return 0
	}
	return gb.VertexCount()
}

func (r *renderer) useProgram(h surface.ProgramHandle) {
	if h == r.currentProgram {
		return
	}
	r.surface.UseProgram(h)
	r.currentProgram = h
}

// applyDepth switches the depth comparison when a pipeline asks for a different one.
// Pipelines with depth testing disabled keep the frame's comparison.
func (r *renderer) applyDepth(p pipeline.Pipeline) {
	if !p.DepthTestEnabled() || p.DepthFunc() == r.depthFunc {
		return
	}
	r.surface.EnableDepthTest(p.DepthFunc())
	r.depthFunc = p.DepthFunc()
}

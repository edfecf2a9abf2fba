package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-raw/engine/camera"
	"github.com/Carmen-Shannon/oxy-raw/engine/config"
	"github.com/Carmen-Shannon/oxy-raw/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raw/engine/params"
	"github.com/Carmen-Shannon/oxy-raw/engine/profiler"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/geometry_buffer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/scene"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// Pipeline keys registered with the renderer.
const (
	MeshPipelineKey      = "mesh"
	ParticlesPipelineKey = "particles"
)

// EventSource is the part of a platform window the engine drives: it pumps events once per
// frame and forwards resize and scroll input.
type EventSource interface {
	PollEvents() bool
	SetResizeCallback(callback func(width, height int))
	SetScrollCallback(callback func(delta float32))
	Close() error
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	// frameMu is held for the whole of a frame and while Close releases the scene.
	frameMu *sync.Mutex

	cfg      config.Config
	surface  surface.Surface
	renderer renderer.Renderer
	scene    scene.Scene
	params   params.Params
	material material.Material
	window   EventSource

	scheduler animator.Scheduler
	clock     *animator.Clock
	animator  animator.Animator
	loop      animator.Loop
	cancel    context.CancelFunc
	running   bool
	done      chan struct{}

	profiler         *profiler.Profiler
	profilingEnabled bool

	meshPipeline     pipeline.Pipeline
	particlePipeline pipeline.Pipeline

	// primary is the configured shape at the origin; placement entities follow it.
	primary       game_object.GameObject
	primaryBuffer *geometry_buffer.GeometryBuffer
	cubeBuffer    *geometry_buffer.GeometryBuffer
	bumpMap       surface.TextureHandle

	// applied mirrors the parameter values the scene currently reflects.
	appliedVersion uint64
	appliedCaps    shader.Capability
	appliedSides   int
	applied        bool

	disabled bool
	closed   bool
}

// Engine owns one scene drawn to one surface and drives it from an animation loop.
// Parameters changed between frames (speed, zoom, sides, capabilities, placements) are
// applied at the start of the next frame.
type Engine interface {
	// Surface returns the surface the engine draws to.
	//
	// Returns:
	//   - surface.Surface: the surface
	Surface() surface.Surface

	// Renderer returns the draw submitter.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Scene returns the scene being drawn.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Params returns the externally supplied frame parameters.
	//
	// Returns:
	//   - params.Params: the parameters
	Params() params.Params

	// Profiler returns the frame statistics collector.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Angle returns the current scene rotation angle in radians.
	//
	// Returns:
	//   - float64: the angle
	Angle() float64

	// Disabled reports whether rendering stopped for good because the surface became unusable.
	//
	// Returns:
	//   - bool: true once the surface reported ErrUnsupportedSurface
	Disabled() bool

	// Resize updates the viewport. Safe to call from any goroutine.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Frame renders one frame. Run calls it for every scheduled frame; it is exported so
	// hosts with their own frame source can drive the engine directly.
	//
	// Parameters:
	//   - ctx: the loop context
	//   - ft: the clock state for this frame
	//
	// Returns:
	//   - error: a per-frame failure, or an error wrapping animator.ErrStop once rendering is disabled
	Frame(ctx context.Context, ft animator.FrameTime) error

	// Run drives frames until ctx is cancelled, Quit is called, the scheduler ends or the
	// surface becomes unusable.
	//
	// Parameters:
	//   - ctx: the parent context
	//
	// Returns:
	//   - error: nil on a normal stop, the stopping error otherwise
	Run(ctx context.Context) error

	// Quit cancels a running loop. The in-flight frame completes first.
	Quit()

	// Close stops the loop, waits for Run to return, then releases every GPU resource the
	// engine created and closes the window if one was attached. It must not be called from
	// inside a frame. Subsequent calls are no-ops.
	//
	// Returns:
	//   - error: an error from closing the window
	Close() error
}

var _ Engine = &engine{}

// NewEngine assembles the scene described by the configuration on s: the mesh and particle
// programs, the primary shape, one cube per placement, the particle cloud and the bump map.
//
// Panics if s is nil.
//
// Parameters:
//   - s: the surface to draw to
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine, ready to Run
//   - error: an error if the configuration is invalid or the primary geometry cannot be built
func NewEngine(s surface.Surface, options ...EngineBuilderOption) (Engine, error) {
	if s == nil {
		panic("engine: NewEngine requires a non-nil Surface")
	}
	e := &engine{
		mu:       &sync.Mutex{},
		frameMu:  &sync.Mutex{},
		cfg:      config.Default(),
		surface:  s,
		animator: animator.NewAnimator(),
		profiler: profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	if e.params == nil {
		caps, _ := e.cfg.Capabilities()
		e.params = params.NewParams(
			params.WithRotationSpeed(e.cfg.Animation.RotationSpeed),
			params.WithZoom(e.cfg.Animation.Zoom),
			params.WithSides(e.cfg.Scene.PolygonSides),
			params.WithCapabilities(caps),
			params.WithPlacements(CubePlacements(e.cfg.Scene.Cubes, e.cfg.Scene.Spacing)...),
		)
	}
	if e.clock == nil {
		var clockOpts []animator.ClockBuilderOption
		if e.cfg.Animation.FirstFrameClamp > 0 {
			clockOpts = append(clockOpts, animator.WithFirstFrameClamp(e.cfg.Animation.FirstFrameClamp))
		}
		e.clock = animator.NewClock(clockOpts...)
	}
	if e.scheduler == nil {
		e.scheduler = animator.NewTickerScheduler(e.cfg.Animation.FPS)
	}

	if err := e.setup(); err != nil {
		e.releaseScene()
		return nil, err
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		e.window.SetScrollCallback(e.params.Scroll)
	}
	return e, nil
}

func (e *engine) Surface() surface.Surface {
	return e.surface
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Params() params.Params {
	return e.params
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) Angle() float64 {
	return e.animator.Angle()
}

func (e *engine) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.renderer.Resize(width, height)
}

func (e *engine) Frame(_ context.Context, ft animator.FrameTime) error {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()

	e.mu.Lock()
	closed, disabled, profiling := e.closed, e.disabled, e.profilingEnabled
	e.mu.Unlock()
	if closed {
		return fmt.Errorf("engine: closed: %w", animator.ErrStop)
	}
	if disabled {
		return fmt.Errorf("engine: rendering disabled: %w", animator.ErrStop)
	}

	snap := e.params.Snapshot()
	e.apply(snap)
	angle := e.animator.Advance(ft.Delta, snap.RotationSpeed)

	stats, err := e.renderer.RenderFrame(renderer.Frame{Scene: e.scene, Angle: float32(angle)})
	e.profiler.Record(stats, err != nil)
	if profiling {
		e.profiler.Tick()
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, surface.ErrUnsupportedSurface) {
		e.mu.Lock()
		e.disabled = true
		e.mu.Unlock()
		log.Printf("[Engine] rendering disabled: %v", err)
		return fmt.Errorf("%w: %w", animator.ErrStop, err)
	}
	return err
}

func (e *engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errors.New("engine: Run after Close")
	}
	if e.disabled {
		e.mu.Unlock()
		return surface.ErrUnsupportedSurface
	}
	if e.running {
		e.mu.Unlock()
		return errors.New("engine: already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true
	done := make(chan struct{})
	e.done = done
	sched := e.scheduler
	if e.window != nil {
		sched = &windowScheduler{window: e.window, next: sched}
	}
	e.loop = animator.NewLoop(sched, e.Frame, animator.WithClock(e.clock))
	loop := e.loop
	e.mu.Unlock()

	defer func() {
		cancel()
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(done)
	}()
	return loop.Run(ctx)
}

func (e *engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *engine) Close() error {
	e.Quit()
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	done := e.done
	e.mu.Unlock()

	if done != nil {
		<-done
	}
	e.frameMu.Lock()
	e.releaseScene()
	e.frameMu.Unlock()
	if r, ok := e.surface.(interface{ Release() }); ok {
		r.Release()
	}
	if e.window != nil {
		return e.window.Close()
	}
	return nil
}

// releaseScene frees everything setup created, tolerating a partially built scene.
func (e *engine) releaseScene() {
	if e.scene != nil {
		if ps := e.scene.Particles(); ps != nil {
			ps.Release()
			e.scene.SetParticles(nil)
		}
		e.scene.Clear()
	}
	if e.cubeBuffer != nil && e.cubeBuffer != e.primaryBuffer {
		e.cubeBuffer.Release()
	}
	if e.primaryBuffer != nil {
		e.primaryBuffer.Release()
	}
	e.cubeBuffer, e.primaryBuffer = nil, nil

	if e.renderer != nil {
		e.renderer.Release()
	}
	if e.bumpMap != 0 {
		e.surface.DeleteTexture(e.bumpMap)
		e.bumpMap = 0
	}
}

// newCamera builds the scene camera from the configuration.
func (e *engine) newCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithDistance(e.cfg.Scene.CameraDistance),
		camera.WithZoom(e.params.Zoom()),
		camera.WithAspect(e.surface.Viewport().Aspect()),
	)
}

package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-raw/engine/config"
	"github.com/Carmen-Shannon/oxy-raw/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raw/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raw/engine/light"
	"github.com/Carmen-Shannon/oxy-raw/engine/params"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/geometry_buffer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/scene"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/texture"
)

// Streams filled in when a shape does not generate them, so every capability set can draw it.
var (
	defaultVertexColor = [4]float32{1, 1, 1, 1}
	defaultRoughness   = float32(0.35)
)

// CubePlacements lays out n cubes on the X axis, alternating sides of the origin at multiples
// of spacing, each with its own rotation phase.
//
// Parameters:
//   - n: the number of cubes
//   - spacing: the distance between neighbouring cubes on one side
//
// Returns:
//   - []params.Placement: the placements in push order
func CubePlacements(n int, spacing float32) []params.Placement {
	if n <= 0 {
		return nil
	}
	out := make([]params.Placement, n)
	for i := range out {
		x := spacing * float32(i/2+1)
		if i%2 == 1 {
			x = -x
		}
		out[i] = params.Placement{X: x, Phase: float32(i) * 0.5}
	}
	return out
}

// setup builds the renderer, programs, geometry and particles described by the configuration.
func (e *engine) setup() error {
	sc := e.cfg.Scene

	if e.material == nil {
		e.bumpMap = e.uploadBumpMap()
		e.material = material.NewMaterial(
			material.WithName("default"),
			material.WithBumpMap(e.bumpMap),
			material.WithPointSize(sc.Particles.PointSize),
		)
	}
	e.renderer = renderer.NewRenderer(e.surface, renderer.WithMaterial(e.material))
	e.scene = scene.NewScene("main", e.newCamera(), scene.WithLight(newLight(sc.Light)))

	caps := e.params.Capabilities()
	e.meshPipeline = pipeline.NewPipeline(MeshPipelineKey, e.buildMeshProgram(caps))
	e.particlePipeline = pipeline.NewPipeline(ParticlesPipelineKey,
		shader.Build(e.surface, shader.Config{Key: ParticlesPipelineKey, Kind: shader.KindParticles}),
		pipeline.WithPrimitive(surface.PrimitivePoints),
	)
	e.renderer.SetPipeline(MeshPipelineKey, e.meshPipeline)
	e.renderer.SetPipeline(ParticlesPipelineKey, e.particlePipeline)
	e.appliedCaps = caps

	sides := e.params.Sides()
	g, err := e.primaryGeometry(sides)
	if err != nil {
		return fmt.Errorf("engine: %s geometry: %w", sc.Shape, err)
	}
	e.primaryBuffer, err = geometry_buffer.Upload(e.surface, g, sc.Shape)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if sc.Shape == config.ShapeCube {
		e.cubeBuffer = e.primaryBuffer
	}
	e.appliedSides = sides
	e.primary = game_object.NewGameObject(
		game_object.WithGeometry(e.primaryBuffer),
		game_object.WithPipeline(e.meshPipeline),
	)
	e.scene.Push(e.primary)

	if sc.Particles.Count > 0 {
		ps, err := scene.NewParticleSystem(e.surface, sc.Particles.Count, sc.Particles.Seed, e.particlePipeline)
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		e.scene.SetParticles(ps)
	}

	e.apply(e.params.Snapshot())
	return nil
}

func newLight(lc config.LightConfig) light.Light {
	d, c, a := lc.Direction, lc.Color, lc.Ambient
	return light.NewLight(
		light.WithDirection(d[0], d[1], d[2]),
		light.WithColor(c[0], c[1], c[2]),
		light.WithAmbient(a[0], a[1], a[2]),
		light.WithIntensity(lc.Intensity),
	)
}

// uploadBumpMap generates and uploads the procedural bump map. Failure leaves the normal_map
// term sampling the surface's fallback texture.
func (e *engine) uploadBumpMap() surface.TextureHandle {
	bm := e.cfg.Scene.BumpMap
	data, err := texture.BumpMap(bm.Size,
		texture.WithSeed(bm.Seed),
		texture.WithBlur(bm.Blur),
		texture.WithStrength(float32(bm.Strength)),
	)
	if err != nil {
		log.Printf("[Engine] bump map: %v", err)
		return 0
	}
	tex, err := e.surface.CreateTexture(data)
	if err != nil {
		log.Printf("[Engine] bump map upload: %v", err)
		return 0
	}
	return tex
}

func (e *engine) buildMeshProgram(caps shader.Capability) shader.Program {
	return shader.Build(e.surface, shader.Config{Key: MeshPipelineKey, Kind: shader.KindMesh, Capabilities: caps})
}

// primaryGeometry generates the configured shape.
func (e *engine) primaryGeometry(sides int) (*geometry.Geometry, error) {
	sc := e.cfg.Scene
	var (
		g   *geometry.Geometry
		err error
	)
	switch sc.Shape {
	case config.ShapeSphere:
		opts := []geometry.SphereBuilderOption{geometry.WithRoughness(sc.Sphere.Seed)}
		if sc.Sphere.Jitter > 0 {
			opts = append(opts, geometry.WithJitter(sc.Sphere.Jitter, sc.Sphere.Seed))
		}
		g, err = geometry.Sphere(sc.Sphere.LatitudeBands, sc.Sphere.LongitudeBands, sc.Sphere.Radius, opts...)
	case config.ShapePolygon:
		g, err = geometry.Polygon(sides)
	case config.ShapeCube:
		g = geometry.Cube()
	case config.ShapePyramid:
		g = geometry.Pyramid()
	default:
		err = fmt.Errorf("unknown shape %q", sc.Shape)
	}
	if err != nil {
		return nil, err
	}
	prepareGeometry(g)
	return g, nil
}

func prepareGeometry(g *geometry.Geometry) {
	if !g.Has(geometry.AttributeColor) {
		c := defaultVertexColor
		g.FillColor(c[0], c[1], c[2], c[3])
	}
	if !g.Has(geometry.AttributeRoughness) {
		g.FillRoughness(defaultRoughness)
	}
}

// apply brings the scene in line with a parameter snapshot. Unchanged snapshots are skipped.
func (e *engine) apply(snap params.Snapshot) {
	if e.applied && snap.Version == e.appliedVersion {
		return
	}
	e.scene.Camera().SetZoom(snap.Zoom)

	if snap.Capabilities != e.appliedCaps {
		old := e.meshPipeline.Program()
		e.meshPipeline.SetProgram(e.buildMeshProgram(snap.Capabilities))
		if old != nil {
			old.Release()
		}
		e.appliedCaps = snap.Capabilities
		log.Printf("[Engine] capabilities: %s", snap.Capabilities)
	}

	if e.cfg.Scene.Shape == config.ShapePolygon && snap.Sides != e.appliedSides {
		e.rebuildPolygon(snap.Sides)
	}

	e.reconcilePlacements(snap.Placements)

	e.appliedVersion = snap.Version
	e.applied = true
}

// rebuildPolygon swaps the primary geometry for a polygon with the given side count. On
// failure the previous geometry stays in place.
func (e *engine) rebuildPolygon(sides int) {
	g, err := e.primaryGeometry(sides)
	if err != nil {
		log.Printf("[Engine] polygon with %d sides: %v", sides, err)
		return
	}
	gb, err := geometry_buffer.Upload(e.surface, g, config.ShapePolygon)
	if err != nil {
		log.Printf("[Engine] polygon with %d sides: %v", sides, err)
		return
	}
	old := e.primaryBuffer
	e.primaryBuffer = gb
	e.primary.SetGeometry(gb)
	if old != nil {
		old.Release()
	}
	e.appliedSides = sides
}

// reconcilePlacements keeps one cube entity per placement after the primary entity, popping
// or pushing at the tail and updating every position and phase.
func (e *engine) reconcilePlacements(placements []params.Placement) {
	for e.scene.Len()-1 > len(placements) {
		e.scene.Pop()
	}
	if len(placements) > 0 && e.cubeBuffer == nil {
		g := geometry.Cube()
		prepareGeometry(g)
		gb, err := geometry_buffer.Upload(e.surface, g, config.ShapeCube)
		if err != nil {
			log.Printf("[Engine] cube upload: %v", err)
			return
		}
		e.cubeBuffer = gb
	}
	for e.scene.Len()-1 < len(placements) {
		e.scene.Push(game_object.NewGameObject(
			game_object.WithGeometry(e.cubeBuffer),
			game_object.WithPipeline(e.meshPipeline),
		))
	}
	for i, pl := range placements {
		obj := e.scene.At(i + 1)
		obj.SetPosition(pl.X, pl.Y, pl.Z)
		obj.SetPhase(pl.Phase)
	}
}

// windowScheduler pumps window events before every frame and ends the loop once the window
// has been closed.
type windowScheduler struct {
	window EventSource
	next   animator.Scheduler
}

func (w *windowScheduler) Next(ctx context.Context) (float64, error) {
	if !w.window.PollEvents() {
		return 0, animator.ErrSchedulerDone
	}
	return w.next.Next(ctx)
}

// Stop releases the wrapped scheduler's timer or callback.
func (w *windowScheduler) Stop() {
	if st, ok := w.next.(animator.Stopper); ok {
		st.Stop()
	}
}

package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/camera"
	"github.com/Carmen-Shannon/oxy-raw/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raw/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raw/engine/light"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/geometry_buffer"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/scene"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface/recorder"
)

// stateTracker records the renderer state at every surface call the state machine cares about.
type stateTracker struct {
	*recorder.Surface
	r      Renderer
	states []State
}

func (p *stateTracker) note() {
	if p.r == nil {
		return
	}
	s := p.r.State()
	if n := len(p.states); n == 0 || p.states[n-1] != s {
		p.states = append(p.states, s)
	}
}

func (p *stateTracker) Clear(r, g, b, a, depth float32) {
	p.note()
	p.Surface.Clear(r, g, b, a, depth)
}

func (p *stateTracker) BindAttribute(loc surface.Location, b surface.BufferHandle, layout surface.AttributeLayout) {
	p.note()
	p.Surface.BindAttribute(loc, b, layout)
}

func (p *stateTracker) UniformMatrix4(loc surface.Location, m *[16]float32) {
	p.note()
	p.Surface.UniformMatrix4(loc, m)
}

func (p *stateTracker) DrawElements(prim surface.Primitive, indices surface.BufferHandle, count int) error {
	p.note()
	return p.Surface.DrawElements(prim, indices, count)
}

func (p *stateTracker) DrawArrays(prim surface.Primitive, first, count int) error {
	p.note()
	return p.Surface.DrawArrays(prim, first, count)
}

type fixture struct {
	rec       *recorder.Surface
	renderer  Renderer
	scene     scene.Scene
	cube      *geometry_buffer.GeometryBuffer
	sphere    *geometry_buffer.GeometryBuffer
	phong     pipeline.Pipeline
	particles pipeline.Pipeline
}

func newFixture(t *testing.T, s surface.Surface, rec *recorder.Surface) *fixture {
	t.Helper()
	f := &fixture{rec: rec}

	f.phong = pipeline.NewPipeline("phong", shader.Build(s, shader.Config{Key: "phong", Capabilities: shader.PresetPhong}))
	f.particles = pipeline.NewPipeline("particles",
		shader.Build(s, shader.Config{Key: "particles", Kind: shader.KindParticles}),
		pipeline.WithPrimitive(surface.PrimitivePoints),
	)
	if !f.phong.Usable() || !f.particles.Usable() {
		t.Fatal("programs failed to build")
	}

	cube := geometry.Cube()
	cube.FillRoughness(0.5)
	var err error
	if f.cube, err = geometry_buffer.Upload(s, cube, "cube"); err != nil {
		t.Fatal(err)
	}
	sphere, err := geometry.Sphere(8, 8, 1, geometry.WithRoughness(3))
	if err != nil {
		t.Fatal(err)
	}
	if f.sphere, err = geometry_buffer.Upload(s, sphere, "sphere"); err != nil {
		t.Fatal(err)
	}

	f.renderer = NewRenderer(s, WithPipeline("phong", f.phong), WithPipeline("particles", f.particles))
	f.scene = scene.NewScene("test", camera.NewCamera())
	return f
}

func newRecorderFixture(t *testing.T) *fixture {
	t.Helper()
	rec, err := recorder.New(recorder.WithViewport(800, 600))
	if err != nil {
		t.Fatal(err)
	}
	return newFixture(t, rec, rec)
}

func lastFrame(t *testing.T, rec *recorder.Surface) recorder.Frame {
	t.Helper()
	fr, ok := rec.LastFrame()
	if !ok {
		t.Fatal("no frame recorded")
	}
	return fr
}

func TestStateSequence(t *testing.T) {
	rec, err := recorder.New()
	if err != nil {
		t.Fatal(err)
	}
	p := &stateTracker{Surface: rec}
	f := newFixture(t, p, rec)
	p.r = f.renderer

	f.scene.Push(game_object.NewGameObject(game_object.WithGeometry(f.cube), game_object.WithPipeline(f.phong)))
	ps, err := scene.NewParticleSystem(p, 50, 1, f.particles)
	if err != nil {
		t.Fatal(err)
	}
	f.scene.SetParticles(ps)

	if f.renderer.State() != StateIdle {
		t.Fatal("renderer not idle before the frame")
	}
	if _, err := f.renderer.RenderFrame(Frame{Scene: f.scene, Angle: 0.3}); err != nil {
		t.Fatal(err)
	}
	want := []State{StateClearTargets, StateBindAttributes, StateBindUniforms, StateDraw, StateParticlePass}
	if len(p.states) != len(want) {
		t.Fatalf("states = %v, want %v", p.states, want)
	}
	for i := range want {
		if p.states[i] != want[i] {
			t.Fatalf("states = %v, want %v", p.states, want)
		}
	}
	if f.renderer.State() != StateIdle {
		t.Fatal("renderer not idle after the frame")
	}
}

func TestClearTargetsAndIndexedDraw(t *testing.T) {
	f := newRecorderFixture(t)
	f.scene.Push(game_object.NewGameObject(game_object.WithGeometry(f.cube), game_object.WithPipeline(f.phong)))

	stats, err := f.renderer.RenderFrame(Frame{Scene: f.scene})
	if err != nil {
		t.Fatal(err)
	}
	fr := lastFrame(t, f.rec)
	if fr.ClearColor != [4]float32{0, 0, 0, 1} || fr.ClearDepth != 1 || fr.Clears != 1 {
		t.Fatalf("clear = %v depth %v", fr.ClearColor, fr.ClearDepth)
	}
	if !fr.DepthTest || fr.DepthFunc != surface.DepthLessEqual {
		t.Fatal("depth test must be LessEqual")
	}
	if stats.Draws != 1 || stats.Entities != 1 || len(fr.Draws) != 1 {
		t.Fatalf("stats = %+v, draws = %d", stats, len(fr.Draws))
	}
	d := fr.Draws[0]
	if !d.Indexed || d.Primitive != surface.PrimitiveTriangles || d.Count != 36 {
		t.Fatalf("draw = %+v", d)
	}
	// the phong program has no color, tangent, bitangent or UV input
	if stats.SkippedStreams != 4 {
		t.Fatalf("skipped streams = %d", stats.SkippedStreams)
	}
	if _, ok := d.Uniform(f.rec, "uNormalMatrix"); !ok {
		t.Fatal("normal matrix not uploaded")
	}
}

func TestSceneLightIsBound(t *testing.T) {
	f := newRecorderFixture(t)
	f.scene.SetLight(light.NewLight(
		light.WithDirection(0, 2, 0),
		light.WithColor(1, 0.5, 0.25),
		light.WithIntensity(2),
		light.WithAmbient(0.1, 0.2, 0.3),
	))
	f.scene.Push(game_object.NewGameObject(game_object.WithGeometry(f.cube), game_object.WithPipeline(f.phong)))

	if _, err := f.renderer.RenderFrame(Frame{Scene: f.scene}); err != nil {
		t.Fatal(err)
	}
	d := lastFrame(t, f.rec).Draws[0]
	checks := []struct {
		name string
		want []float32
	}{
		{"uLightDirection", []float32{0, 1, 0}},
		{"uLightColor", []float32{2, 1, 0.5}},
		{"uAmbientColor", []float32{0.1, 0.2, 0.3}},
	}
	for _, c := range checks {
		got, ok := d.Uniform(f.rec, c.name)
		if !ok || len(got) != 3 || got[0] != c.want[0] || got[1] != c.want[1] || got[2] != c.want[2] {
			t.Fatalf("%s = %v, want %v", c.name, got, c.want)
		}
	}

	f.scene.Light().SetEnabled(false)
	if _, err := f.renderer.RenderFrame(Frame{Scene: f.scene}); err != nil {
		t.Fatal(err)
	}
	if got, _ := lastFrame(t, f.rec).Draws[0].Uniform(f.rec, "uLightColor"); got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Fatalf("disabled light still bound %v", got)
	}
}

func TestModelViewAndFreshAspect(t *testing.T) {
	f := newRecorderFixture(t)
	obj := game_object.NewGameObject(
		game_object.WithGeometry(f.cube),
		game_object.WithPipeline(f.phong),
		game_object.WithPosition(1.5, 0, 0),
	)
	f.scene.Push(obj)

	if _, err := f.renderer.RenderFrame(Frame{Scene: f.scene, Angle: 0.4}); err != nil {
		t.Fatal(err)
	}
	d := lastFrame(t, f.rec).Draws[0]

	var want [16]float32
	obj.ModelView(want[:], f.scene.Camera().ViewMatrix(), 0.4)
	got, _ := d.Uniform(f.rec, "uModelViewMatrix")
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("modelView[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	var proj [16]float32
	common.Perspective(proj[:], f.scene.Camera().Fov(), 800.0/600.0, 0.1, 100)
	gotProj, _ := d.Uniform(f.rec, "uProjectionMatrix")
	if gotProj[0] != proj[0] || gotProj[5] != proj[5] {
		t.Fatal("projection does not use the viewport aspect")
	}

	f.renderer.Resize(400, 400)
	if _, err := f.renderer.RenderFrame(Frame{Scene: f.scene, Angle: 0.4}); err != nil {
		t.Fatal(err)
	}
	gotProj, _ = lastFrame(t, f.rec).Draws[0].Uniform(f.rec, "uProjectionMatrix")
	if gotProj[0] != gotProj[5] {
		t.Fatalf("square viewport must give equal x/y scale, got %v and %v", gotProj[0], gotProj[5])
	}
}

func TestSkipRules(t *testing.T) {
	f := newRecorderFixture(t)
	flat := pipeline.NewPipeline("flat", shader.Build(f.rec, shader.Config{Key: "flat", Capabilities: shader.PresetFlat}))
	broken := pipeline.NewPipeline("broken", nil)

	// sphere has no color stream, the flat program requires one
	f.scene.Push(game_object.NewGameObject(game_object.WithGeometry(f.sphere), game_object.WithPipeline(flat)))
	f.scene.Push(game_object.NewGameObject(game_object.WithGeometry(f.cube), game_object.WithPipeline(broken)))
	f.scene.Push(game_object.NewGameObject(game_object.WithGeometry(f.cube), game_object.WithPipeline(flat)))
	f.scene.Push(game_object.NewGameObject(game_object.WithGeometry(f.sphere), game_object.WithPipeline(f.phong), game_object.WithEnabled(false)))

	stats, err := f.renderer.RenderFrame(Frame{Scene: f.scene})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entities != 3 || stats.SkippedEntities != 2 || stats.Draws != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	fr := lastFrame(t, f.rec)
	if len(fr.Draws) != 1 || fr.Draws[0].Program != flat.Program().Handle() {
		t.Fatalf("draws = %+v", fr.Draws)
	}
}

func TestParticlePass(t *testing.T) {
	f := newRecorderFixture(t)
	f.scene.Push(game_object.NewGameObject(
		game_object.WithGeometry(f.sphere),
		game_object.WithPipeline(f.phong),
		game_object.WithPosition(3, 0, 0),
	))
	ps, err := scene.NewParticleSystem(f.rec, 1000, 11, f.particles)
	if err != nil {
		t.Fatal(err)
	}
	f.scene.SetParticles(ps)

	stats, err := f.renderer.RenderFrame(Frame{Scene: f.scene, Angle: 1})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Particles != 1000 || stats.Draws != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	fr := lastFrame(t, f.rec)
	pd := fr.Draws[len(fr.Draws)-1]
	if pd.Indexed || pd.Primitive != surface.PrimitivePoints || pd.Count != 1000 {
		t.Fatalf("particle draw = %+v", pd)
	}

	mv, _ := pd.Uniform(f.rec, "uModelViewMatrix")
	view := f.scene.Camera().ViewMatrix()
	if mv[12] != view[12] || mv[13] != view[13] || mv[14] != view[14] {
		t.Fatalf("particles picked up an entity offset: %v", mv[12:15])
	}
	if size, ok := pd.Uniform(f.rec, "uPointSize"); !ok || size[0] != f.renderer.Material().PointSize() {
		t.Fatal("point size not uploaded")
	}
}

func TestEmptyScene(t *testing.T) {
	f := newRecorderFixture(t)
	stats, err := f.renderer.RenderFrame(Frame{Scene: f.scene})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Draws != 0 || len(lastFrame(t, f.rec).Draws) != 0 {
		t.Fatal("empty scene drew something")
	}
	if _, err := f.renderer.RenderFrame(Frame{}); err == nil {
		t.Fatal("frame without a scene accepted")
	}
}

func TestReleaseDeletesPrograms(t *testing.T) {
	f := newRecorderFixture(t)
	if f.rec.LivePrograms() != 2 {
		t.Fatalf("live programs = %d", f.rec.LivePrograms())
	}
	f.renderer.Release()
	if f.rec.LivePrograms() != 0 {
		t.Fatalf("live programs after release = %d", f.rec.LivePrograms())
	}
}

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-raw/engine/config"
	"github.com/Carmen-Shannon/oxy-raw/engine/params"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface/recorder"
)

const step = 1.0 / 60

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Backend = config.BackendHeadless
	cfg.Scene.Sphere.LatitudeBands = 6
	cfg.Scene.Sphere.LongitudeBands = 8
	cfg.Scene.Particles.Count = 10
	cfg.Scene.BumpMap.Size = 16
	cfg.Scene.Cubes = 0
	return cfg
}

func newTestEngine(t *testing.T, cfg config.Config, options ...EngineBuilderOption) (*engine, *recorder.Surface) {
	t.Helper()
	rec, err := recorder.New(recorder.WithViewport(320, 240))
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(rec, append([]EngineBuilderOption{WithConfig(cfg)}, options...)...)
	if err != nil {
		t.Fatal(err)
	}
	return e.(*engine), rec
}

func frame(t *testing.T, e Engine, index int) {
	t.Helper()
	if err := e.Frame(context.Background(), animator.FrameTime{Index: index, Delta: step}); err != nil {
		t.Fatalf("frame %d: %v", index, err)
	}
}

func TestRunDrawsEveryFrame(t *testing.T) {
	cfg := testConfig()
	cfg.Scene.Cubes = 2
	e, rec := newTestEngine(t, cfg, WithScheduler(animator.NewFixedStepScheduler(step, 5)))
	defer e.Close()

	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := e.Scene().Len(); got != 3 {
		t.Fatalf("scene has %d objects, want primary + 2 cubes", got)
	}
	totals := e.Profiler().Totals()
	if totals.Frames != 5 || totals.FailedFrames != 0 {
		t.Fatalf("totals = %+v", totals)
	}
	last, ok := rec.LastFrame()
	if !ok {
		t.Fatal("no frame recorded")
	}
	if len(last.Draws) != 4 {
		t.Fatalf("last frame issued %d draws, want 3 meshes + particles", len(last.Draws))
	}
	if last.Draws[3].Primitive != surface.PrimitivePoints || last.Draws[3].Count != 10 {
		t.Fatalf("particle draw = %+v", last.Draws[3])
	}
	if e.Angle() == 0 {
		t.Fatal("rotation did not advance")
	}
}

func TestPlacementsReconcileScene(t *testing.T) {
	e, rec := newTestEngine(t, testConfig())
	defer e.Close()

	frame(t, e, 0)
	baseBuffers := rec.LiveBuffers()

	e.Params().PushPlacement(params.Placement{X: 3, Phase: 1})
	e.Params().PushPlacement(params.Placement{X: -3, Y: 1})
	frame(t, e, 1)
	if got := e.Scene().Len(); got != 3 {
		t.Fatalf("scene has %d objects after two pushes", got)
	}
	if x, y, _ := e.Scene().At(2).Position(); x != -3 || y != 1 {
		t.Fatalf("second cube at (%v, %v)", x, y)
	}
	if e.Scene().At(1).Phase() != 1 {
		t.Fatalf("first cube phase %v", e.Scene().At(1).Phase())
	}
	if e.Scene().At(1).Geometry() != e.Scene().At(2).Geometry() {
		t.Fatal("cubes do not share one buffer")
	}
	withCube := rec.LiveBuffers()
	if withCube <= baseBuffers {
		t.Fatalf("cube geometry was not uploaded: %d -> %d buffers", baseBuffers, withCube)
	}

	e.Params().PopPlacement()
	frame(t, e, 2)
	if got := e.Scene().Len(); got != 2 {
		t.Fatalf("scene has %d objects after pop", got)
	}
	if rec.LiveBuffers() != withCube {
		t.Fatal("popping a cube changed the buffer count")
	}
}

func TestUnchangedParamsSkipApply(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	defer e.Close()

	frame(t, e, 0)
	prog := e.meshPipeline.Program()
	frame(t, e, 1)
	if e.meshPipeline.Program() != prog {
		t.Fatal("program rebuilt without a parameter change")
	}
}

func TestConfiguredLightIsBound(t *testing.T) {
	cfg := testConfig()
	cfg.Scene.Light.Color = [3]float32{1, 0.5, 0}
	cfg.Scene.Light.Intensity = 2
	e, rec := newTestEngine(t, cfg)
	defer e.Close()

	frame(t, e, 0)
	d := lastDraw(t, rec)
	if got, ok := d.Uniform(rec, "uLightColor"); !ok || got[0] != 2 || got[1] != 1 || got[2] != 0 {
		t.Fatalf("uLightColor = %v", got)
	}

	e.Scene().Light().SetDirection(0, 0, 3)
	frame(t, e, 1)
	d = lastDraw(t, rec)
	if got, ok := d.Uniform(rec, "uLightDirection"); !ok || got[0] != 0 || got[1] != 0 || got[2] != 1 {
		t.Fatalf("uLightDirection = %v", got)
	}
}

func lastDraw(t *testing.T, rec *recorder.Surface) recorder.DrawCall {
	t.Helper()
	last, ok := rec.LastFrame()
	if !ok || len(last.Draws) == 0 {
		t.Fatal("no draw recorded")
	}
	return last.Draws[0]
}

func TestSidesChangeRebuildsPolygon(t *testing.T) {
	cfg := testConfig()
	cfg.Scene.Shape = config.ShapePolygon
	cfg.Scene.PolygonSides = 5
	e, rec := newTestEngine(t, cfg)
	defer e.Close()

	frame(t, e, 0)
	before := e.primary.Geometry()
	buffers := rec.LiveBuffers()
	if before.VertexCount() != 5 {
		t.Fatalf("initial polygon has %d vertices", before.VertexCount())
	}

	e.Params().SetSides(8)
	frame(t, e, 1)
	after := e.primary.Geometry()
	if after == before || after.VertexCount() != 8 {
		t.Fatalf("polygon not rebuilt: %d vertices", after.VertexCount())
	}
	if rec.LiveBuffers() != buffers {
		t.Fatalf("old polygon buffers leaked: %d -> %d", buffers, rec.LiveBuffers())
	}

	last, _ := rec.LastFrame()
	if last.Draws[0].Count != 3*(8-2) {
		t.Fatalf("drew %d indices", last.Draws[0].Count)
	}
}

func TestSidesIgnoredForOtherShapes(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	defer e.Close()

	before := e.primary.Geometry()
	e.Params().SetSides(9)
	frame(t, e, 0)
	if e.primary.Geometry() != before {
		t.Fatal("sphere geometry replaced on a sides change")
	}
}

func TestCapabilitiesChangeRebuildsProgram(t *testing.T) {
	e, rec := newTestEngine(t, testConfig())
	defer e.Close()

	frame(t, e, 0)
	programs := rec.LivePrograms()
	old := e.meshPipeline.Program()

	e.Params().SetCapabilities(shader.PresetFlat)
	frame(t, e, 1)
	prog := e.meshPipeline.Program()
	if prog == nil || prog == old {
		t.Fatal("mesh program not rebuilt")
	}
	if prog.Config().Capabilities != shader.PresetFlat {
		t.Fatalf("rebuilt with %s", prog.Config().Capabilities)
	}
	if rec.LivePrograms() != programs {
		t.Fatalf("old program leaked: %d -> %d", programs, rec.LivePrograms())
	}
}

func TestScrollAndResize(t *testing.T) {
	win := &fakeWindow{open: 100}
	e, rec := newTestEngine(t, testConfig(), WithWindow(win))
	defer e.Close()

	win.scroll(1)
	win.resize(640, 480)
	frame(t, e, 0)

	if z := e.Scene().Camera().Zoom(); z <= 1 {
		t.Fatalf("zoom after scrolling in = %v", z)
	}
	if w, h := rec.Viewport().Size(); w != 640 || h != 480 {
		t.Fatalf("viewport = %dx%d", w, h)
	}
}

func TestClosingWindowEndsRun(t *testing.T) {
	win := &fakeWindow{open: 3}
	e, _ := newTestEngine(t, testConfig(),
		WithWindow(win),
		WithScheduler(animator.NewFixedStepScheduler(step, 100)),
	)

	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := e.Profiler().Totals().Frames; got != 3 {
		t.Fatalf("ran %d frames after the window closed at 3", got)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if !win.closed {
		t.Fatal("window not closed")
	}
}

func TestLostSurfaceStopsRun(t *testing.T) {
	rec, err := recorder.New()
	if err != nil {
		t.Fatal(err)
	}
	s := &losingSurface{Surface: rec, framesLeft: 2}
	e, err := NewEngine(s, WithConfig(testConfig()), WithScheduler(animator.NewFixedStepScheduler(step, 100)))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	err = e.Run(context.Background())
	if !errors.Is(err, animator.ErrStop) || !errors.Is(err, surface.ErrUnsupportedSurface) {
		t.Fatalf("Run returned %v", err)
	}
	if !e.Disabled() {
		t.Fatal("engine not disabled")
	}
	totals := e.Profiler().Totals()
	if totals.Frames != 3 || totals.FailedFrames != 1 {
		t.Fatalf("totals = %+v", totals)
	}
	if err := e.Frame(context.Background(), animator.FrameTime{}); !errors.Is(err, animator.ErrStop) {
		t.Fatalf("frame after loss returned %v", err)
	}
}

func TestCloseWaitsForInFlightFrame(t *testing.T) {
	rec, err := recorder.New()
	if err != nil {
		t.Fatal(err)
	}
	s := &blockingSurface{Surface: rec, blockAt: 2, entered: make(chan struct{}), release: make(chan struct{})}
	e, err := NewEngine(s, WithConfig(testConfig()), WithScheduler(animator.NewFixedStepScheduler(step, 100)))
	if err != nil {
		t.Fatal(err)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- e.Run(context.Background()) }()
	<-s.entered

	closed := make(chan error, 1)
	go func() { closed <- e.Close() }()
	select {
	case <-closed:
		t.Fatal("Close returned while frame 2 was still drawing")
	case <-time.After(50 * time.Millisecond):
	}

	close(s.release)
	if err := <-closed; err != nil {
		t.Fatal(err)
	}
	if err := <-runErr; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	last, ok := rec.LastFrame()
	if !ok || len(last.Draws) != 2 {
		t.Fatalf("frame 2 did not draw the full scene: %+v", last.Draws)
	}
	if totals := e.Profiler().Totals(); totals.Frames != 2 || totals.FailedFrames != 0 {
		t.Fatalf("totals = %+v", totals)
	}
	if rec.LiveBuffers() != 0 || rec.LivePrograms() != 0 {
		t.Fatalf("%d buffers and %d programs alive after Close", rec.LiveBuffers(), rec.LivePrograms())
	}
}

func TestSecondRunRejectedWhileRunning(t *testing.T) {
	sched := animator.NewManualScheduler(1)
	e, _ := newTestEngine(t, testConfig(), WithScheduler(sched))

	runErr := make(chan error, 1)
	go func() { runErr <- e.Run(context.Background()) }()
	for !e.isRunning() {
		time.Sleep(time.Millisecond)
	}
	if err := e.Run(context.Background()); err == nil {
		t.Fatal("concurrent Run accepted")
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := <-runErr; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	cfg := testConfig()
	cfg.Scene.Cubes = 3
	e, rec := newTestEngine(t, cfg)

	frame(t, e, 0)
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if rec.LiveBuffers() != 0 || rec.LivePrograms() != 0 {
		t.Fatalf("%d buffers and %d programs alive after Close", rec.LiveBuffers(), rec.LivePrograms())
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := e.Run(context.Background()); err == nil {
		t.Fatal("Run after Close succeeded")
	}
}

func TestCubeShareBufferWithPrimaryCube(t *testing.T) {
	cfg := testConfig()
	cfg.Scene.Shape = config.ShapeCube
	cfg.Scene.Cubes = 2
	e, _ := newTestEngine(t, cfg)
	defer e.Close()

	if e.Scene().At(0).Geometry() != e.Scene().At(1).Geometry() {
		t.Fatal("cube placements did not reuse the primary cube buffer")
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	rec, err := recorder.New()
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Scene.Shape = "torus"
	if _, err := NewEngine(rec, WithConfig(cfg)); err == nil {
		t.Fatal("unknown shape accepted")
	}
	if rec.LiveBuffers() != 0 {
		t.Fatal("rejected configuration left buffers behind")
	}
}

func TestCubePlacements(t *testing.T) {
	got := CubePlacements(3, 2)
	wantX := []float32{2, -2, 4}
	if len(got) != len(wantX) {
		t.Fatalf("got %d placements", len(got))
	}
	for i, pl := range got {
		if pl.X != wantX[i] || pl.Y != 0 || pl.Z != 0 {
			t.Fatalf("placement %d = %+v", i, pl)
		}
	}
	if got[0].Phase == got[1].Phase {
		t.Fatal("placements share a phase")
	}
	if CubePlacements(0, 2) != nil {
		t.Fatal("zero cubes produced placements")
	}
}

// fakeWindow reports open for a fixed number of polls.
type fakeWindow struct {
	open     int
	closed   bool
	onResize func(width, height int)
	onScroll func(delta float32)
}

func (w *fakeWindow) PollEvents() bool {
	if w.open <= 0 {
		return false
	}
	w.open--
	return true
}

func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *fakeWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) resize(width, height int) {
	w.onResize(width, height)
}

func (w *fakeWindow) scroll(delta float32) {
	w.onScroll(delta)
}

// losingSurface loses its context after a fixed number of frames.
type losingSurface struct {
	*recorder.Surface
	framesLeft int
}

func (s *losingSurface) BeginFrame() error {
	if s.framesLeft <= 0 {
		return &surface.UnsupportedSurfaceError{Reason: "context lost"}
	}
	s.framesLeft--
	return s.Surface.BeginFrame()
}

// blockingSurface holds one frame in BeginFrame until released.
type blockingSurface struct {
	*recorder.Surface
	blockAt int
	frames  int
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSurface) BeginFrame() error {
	s.frames++
	if s.frames == s.blockAt {
		close(s.entered)
		<-s.release
	}
	return s.Surface.BeginFrame()
}

func (e *engine) isRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

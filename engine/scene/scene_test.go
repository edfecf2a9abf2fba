package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/engine/camera"
	"github.com/Carmen-Shannon/oxy-raw/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raw/engine/light"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface/recorder"
)

func TestPushPopIsInverse(t *testing.T) {
	s := NewScene("test", camera.NewCamera())
	base := game_object.NewGameObject(game_object.WithPosition(-1, 0, 0))
	s.Push(base)
	before := s.Objects()

	added := game_object.NewGameObject(game_object.WithPosition(2, 0, 0))
	id := s.Push(added)
	if s.Len() != 2 || s.At(1) != added || s.Get(id) != added {
		t.Fatalf("push did not append: len=%d", s.Len())
	}
	if popped := s.Pop(); popped != added {
		t.Fatal("pop did not return the last pushed object")
	}

	after := s.Objects()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatal("push then pop changed the scene")
	}
	if s.At(1) != nil || s.At(-1) != nil {
		t.Fatal("out of range At must return nil")
	}
}

func TestPopEmpty(t *testing.T) {
	s := NewScene("empty", camera.NewCamera())
	if s.Pop() != nil || s.Len() != 0 {
		t.Fatal("pop on empty scene")
	}
}

func TestSceneOwnsLight(t *testing.T) {
	s := NewScene("lit", camera.NewCamera())
	if s.Light() == nil || s.Light().Type() != light.LightTypeDirectional {
		t.Fatal("scene has no default directional light")
	}

	warm := light.NewLight(light.WithColor(1, 0.8, 0.6))
	s = NewScene("lit", camera.NewCamera(), WithLight(warm))
	if s.Light() != warm {
		t.Fatal("WithLight ignored")
	}
	s.SetLight(nil)
	if s.Light() != warm {
		t.Fatal("nil light replaced the scene light")
	}
}

func TestDrawOrderIsInsertionOrder(t *testing.T) {
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()
	c := game_object.NewGameObject()
	s := NewScene("order", camera.NewCamera(), WithObjects(a, b))
	s.Push(c)
	for i, want := range []game_object.GameObject{a, b, c} {
		if s.At(i) != want {
			t.Fatalf("position %d out of order", i)
		}
	}
	if a.ID() == b.ID() || b.ID() == c.ID() || a.ID() == 0 {
		t.Fatalf("ids not unique: %d %d %d", a.ID(), b.ID(), c.ID())
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatal("Clear left objects")
	}
}

func TestPrepareTransformsParallelMatchesSerial(t *testing.T) {
	cam := camera.NewCamera()
	var objs []game_object.GameObject
	for i := range 100 {
		objs = append(objs, game_object.NewGameObject(
			game_object.WithPosition(float32(i%10)-5, float32(i/10)-5, 0),
			game_object.WithPhase(float32(i)*0.1),
		))
	}

	serial := NewScene("serial", cam, WithParallelThreshold(1000))
	parallel := NewScene("parallel", cam, WithParallelThreshold(1), WithComputeWorkers(4))

	want := append([]Transform(nil), serial.PrepareTransforms(objs, 1.25)...)
	got := parallel.PrepareTransforms(objs, 1.25)
	if len(got) != len(want) {
		t.Fatalf("got %d transforms", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transform %d differs", i)
		}
		if !got[i].NormalOK {
			t.Fatalf("transform %d has no normal matrix", i)
		}
	}
}

func TestParticleSystem(t *testing.T) {
	s, err := recorder.New()
	if err != nil {
		t.Fatal(err)
	}
	prog := shader.Build(s, shader.Config{Key: "particles", Kind: shader.KindParticles})
	pipe := pipeline.NewPipeline("particles", prog, pipeline.WithPrimitive(surface.PrimitivePoints))

	ps, err := NewParticleSystem(s, 1000, 7, pipe)
	if err != nil {
		t.Fatal(err)
	}
	if ps.Count() != 1000 || len(ps.Cloud().Positions) != 3000 || len(ps.Cloud().Colors) != 3000 {
		t.Fatalf("count=%d", ps.Count())
	}
	for _, c := range ps.Cloud().Colors {
		if c < 0 || c >= 1 {
			t.Fatalf("color component %v out of range", c)
		}
	}
	if ps.Buffer().Indexed() || ps.Buffer().VertexCount() != 1000 {
		t.Fatal("particle buffer must be unindexed with one vertex per particle")
	}
	if s.LiveBuffers() != 2 {
		t.Fatalf("live buffers = %d", s.LiveBuffers())
	}
	ps.Release()
	if s.LiveBuffers() != 0 {
		t.Fatal("release leaked buffers")
	}

	if _, err := NewParticleSystem(s, -1, 7, pipe); err == nil {
		t.Fatal("negative count accepted")
	}
}

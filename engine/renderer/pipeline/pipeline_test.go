package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface/recorder"
)

func TestDefaults(t *testing.T) {
	p := NewPipeline("empty", nil)
	if p.Usable() || p.Program() != nil {
		t.Fatal("nil program must make the pipeline unusable")
	}
	if p.Primitive() != surface.PrimitiveTriangles || !p.DepthTestEnabled() || p.DepthFunc() != surface.DepthLessEqual {
		t.Fatalf("defaults = %v %v %v", p.Primitive(), p.DepthTestEnabled(), p.DepthFunc())
	}
}

func TestOptionsAndProgram(t *testing.T) {
	s, err := recorder.New()
	if err != nil {
		t.Fatal(err)
	}
	prog := shader.Build(s, shader.Config{Key: "particles", Kind: shader.KindParticles})
	if prog == nil {
		t.Fatal("particle program failed to build")
	}
	defer prog.Release()

	p := NewPipeline("particles", prog,
		WithPrimitive(surface.PrimitivePoints),
		WithDepthFunc(surface.DepthLess),
		WithDepthTestEnabled(false),
	)
	if !p.Usable() || p.PipelineKey() != "particles" || p.Program().Key() != "particles" {
		t.Fatal("program not attached")
	}
	if p.Primitive() != surface.PrimitivePoints || p.DepthTestEnabled() || p.DepthFunc() != surface.DepthLess {
		t.Fatal("options not applied")
	}
	p.SetProgram(nil)
	if p.Usable() {
		t.Fatal("SetProgram(nil) left the pipeline usable")
	}
}

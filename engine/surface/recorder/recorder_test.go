package recorder

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

const testVertex = `attribute vec3 aPos;
attribute vec4 aColor;
uniform mat4 uMVP;
varying vec4 vColor;
void main() {
  gl_Position = uMVP * vec4(aPos, 1.0);
  vColor = aColor;
}`

const testFragment = `precision mediump float;
uniform float uAlpha;
varying vec4 vColor;
void main() {
  gl_FragColor = vec4(vColor.rgb, uAlpha);
}`

func mustProgram(t *testing.T, s *Surface, vsrc, fsrc string) surface.ProgramHandle {
	t.Helper()
	vs, err := s.CompileShader(surface.StageVertex, vsrc)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := s.CompileShader(surface.StageFragment, fsrc)
	if err != nil {
		t.Fatal(err)
	}
	p, err := s.LinkProgram(vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func floats(v ...float32) []byte {
	return append([]byte(nil), common.SliceToBytes(v)...)
}

func TestLocationsFollowDeclarations(t *testing.T) {
	s, _ := New()
	p := mustProgram(t, s, testVertex, testFragment)

	if loc := s.AttribLocation(p, "aPos"); loc != 0 {
		t.Fatalf("aPos = %d", loc)
	}
	if loc := s.AttribLocation(p, "aColor"); loc != 1 {
		t.Fatalf("aColor = %d", loc)
	}
	if loc := s.AttribLocation(p, "aNormal"); loc != surface.NoLocation {
		t.Fatalf("undeclared attribute resolved to %d", loc)
	}
	if !s.UniformLocation(p, "uMVP").Valid() || !s.UniformLocation(p, "uAlpha").Valid() {
		t.Fatal("declared uniforms did not resolve")
	}
	if s.UniformLocation(p, "uMissing") != surface.NoLocation {
		t.Fatal("undeclared uniform resolved")
	}
}

func TestCompileAndLinkFailures(t *testing.T) {
	s, _ := New()
	_, err := s.CompileShader(surface.StageVertex, "attribute vec3 a;")
	var ce *surface.ShaderCompileError
	if !errors.As(err, &ce) || ce.Stage != surface.StageVertex {
		t.Fatalf("missing main err = %v", err)
	}

	vs, _ := s.CompileShader(surface.StageVertex, testVertex)
	badFrag := `precision mediump float;
varying vec3 vColor;
void main() { gl_FragColor = vec4(vColor, 1.0); }`
	fs, err := s.CompileShader(surface.StageFragment, badFrag)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.LinkProgram(vs, fs)
	var le *surface.ShaderLinkError
	if !errors.As(err, &le) {
		t.Fatalf("varying type mismatch err = %v", err)
	}

	hooked, _ := New(WithCompileHook(func(stage surface.Stage, _ string) error {
		if stage == surface.StageFragment {
			return errors.New("ERROR: 0:3: syntax error")
		}
		return nil
	}))
	if _, err := hooked.CompileShader(surface.StageFragment, testFragment); !errors.As(err, &ce) || ce.Log != "ERROR: 0:3: syntax error" {
		t.Fatalf("hook err = %v", err)
	}
}

func TestDrawValidationAndRecording(t *testing.T) {
	s, _ := New(WithViewport(320, 240))
	p := mustProgram(t, s, testVertex, testFragment)

	pos, _ := s.CreateBuffer(surface.TargetVertex, floats(0, 0, 0, 1, 0, 0, 0, 1, 0), "pos")
	col, _ := s.CreateBuffer(surface.TargetVertex, floats(1, 0, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1), "col")
	idx, _ := s.CreateBuffer(surface.TargetIndex, common.SliceToBytes([]uint16{0, 1, 2}), "idx")

	if err := s.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	s.Clear(0, 0, 0, 1, 1)
	s.EnableDepthTest(surface.DepthLessEqual)
	s.UseProgram(p)
	s.BindAttribute(s.AttribLocation(p, "aPos"), pos, surface.AttributeLayout{Components: 3})

	var missing *surface.MissingAttributeError
	if err := s.DrawElements(surface.PrimitiveTriangles, idx, 3); !errors.As(err, &missing) || missing.Attribute != "aColor" {
		t.Fatalf("partial binding err = %v", err)
	}

	s.BindAttribute(s.AttribLocation(p, "aColor"), col, surface.AttributeLayout{Components: 4})
	s.Uniform1f(s.UniformLocation(p, "uAlpha"), 0.5)
	if err := s.DrawElements(surface.PrimitiveTriangles, idx, 3); err != nil {
		t.Fatal(err)
	}
	if err := s.DrawElements(surface.PrimitiveTriangles, idx, 6); err == nil {
		t.Fatal("overrunning the index buffer must fail")
	}
	if err := s.DrawArrays(surface.PrimitivePoints, 0, 4); err == nil {
		t.Fatal("reading a fourth vertex from three-vertex buffers must fail")
	}
	if err := s.EndFrame(); err != nil {
		t.Fatal(err)
	}

	f, ok := s.LastFrame()
	if !ok {
		t.Fatal("no frame recorded")
	}
	if f.Width != 320 || f.Height != 240 || f.Clears != 1 || !f.DepthTest || f.DepthFunc != surface.DepthLessEqual {
		t.Fatalf("frame state = %+v", f)
	}
	if len(f.Draws) != 1 {
		t.Fatalf("recorded %d draws", len(f.Draws))
	}
	if v, ok := f.Draws[0].Uniform(s, "uAlpha"); !ok || v[0] != 0.5 {
		t.Fatalf("uAlpha = %v, %v", v, ok)
	}
}

func TestUseProgramResetsBindings(t *testing.T) {
	s, _ := New()
	a := mustProgram(t, s, testVertex, testFragment)
	b := mustProgram(t, s, testVertex, testFragment)
	pos, _ := s.CreateBuffer(surface.TargetVertex, floats(0, 0, 0), "pos")
	col, _ := s.CreateBuffer(surface.TargetVertex, floats(1, 1, 1, 1), "col")

	_ = s.BeginFrame()
	s.UseProgram(a)
	s.BindAttribute(0, pos, surface.AttributeLayout{Components: 3})
	s.BindAttribute(1, col, surface.AttributeLayout{Components: 4})
	if err := s.DrawArrays(surface.PrimitivePoints, 0, 1); err != nil {
		t.Fatal(err)
	}
	s.UseProgram(b)
	if err := s.DrawArrays(surface.PrimitivePoints, 0, 1); err == nil {
		t.Fatal("bindings leaked across a program switch")
	}
	_ = s.EndFrame()
}

func TestUnavailableAndResourceLifetimes(t *testing.T) {
	_, err := New(WithUnavailable("no adapter"))
	if !errors.Is(err, surface.ErrUnsupportedSurface) {
		t.Fatalf("err = %v", err)
	}

	s, _ := New()
	h, _ := s.CreateBuffer(surface.TargetVertex, floats(1), "one")
	if s.LiveBuffers() != 1 {
		t.Fatalf("live = %d", s.LiveBuffers())
	}
	s.DeleteBuffer(h)
	if s.LiveBuffers() != 0 {
		t.Fatalf("live after delete = %d", s.LiveBuffers())
	}
	if _, err := s.CreateBuffer(surface.TargetIndex, []byte{1, 2, 3}, "odd"); err == nil {
		t.Fatal("odd index buffer accepted")
	}
	if _, err := s.CreateTexture(common.TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 15)}); err == nil {
		t.Fatal("short texture accepted")
	}
}

package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface/recorder"
)

func newRecorder(t *testing.T, opts ...recorder.RecorderBuilderOption) *recorder.Surface {
	t.Helper()
	s, err := recorder.New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBuildEveryPermutation(t *testing.T) {
	s := newRecorder(t)
	for c := Capability(0); c < capabilityEnd; c++ {
		p := Build(s, Config{Key: c.String(), Capabilities: c})
		if p == nil {
			t.Fatalf("%s: build failed", c)
		}
		loc := p.Locations()
		if !loc.Has(RolePosition) {
			t.Fatalf("%s: no position", c)
		}
		if loc.Has(RoleNormal) != c.Lit() {
			t.Fatalf("%s: normal presence %v", c, loc.Has(RoleNormal))
		}
		if loc.Has(RoleTangent) != c.Has(CapNormalMap) || loc.Has(RoleUV) != c.Has(CapNormalMap) {
			t.Fatalf("%s: tangent frame presence mismatch", c)
		}
		if loc.Has(RoleColor) != c.Has(CapVertexColor) || loc.Has(RoleRoughness) != c.Has(CapRoughness) {
			t.Fatalf("%s: optional stream presence mismatch", c)
		}
		if loc.HasUniform(UniformBumpMap) != c.Has(CapNormalMap) {
			t.Fatalf("%s: bump map uniform presence mismatch", c)
		}
		if loc.HasUniform(UniformNormalMatrix) != c.Lit() {
			t.Fatalf("%s: normal matrix presence mismatch", c)
		}
		if !loc.HasUniform(UniformProjection) || !loc.HasUniform(UniformModelView) || !loc.HasUniform(UniformBaseColor) {
			t.Fatalf("%s: missing transform uniforms", c)
		}
		if loc.Has(RoleParticlePosition) {
			t.Fatalf("%s: mesh program declares particle input", c)
		}
		p.Release()
		p.Release()
	}
	if s.LivePrograms() != 0 {
		t.Fatalf("%d programs leaked", s.LivePrograms())
	}
}

func TestBuildParticles(t *testing.T) {
	s := newRecorder(t)
	p := Build(s, Config{Key: "particles", Kind: KindParticles, Capabilities: PresetAllTerms})
	if p == nil {
		t.Fatal("particle program failed to build")
	}
	loc := p.Locations()
	if got := loc.AttributeRoles(); len(got) != 2 || got[0] != RoleParticlePosition || got[1] != RoleParticleColor {
		t.Fatalf("particle roles = %v", got)
	}
	if !loc.HasUniform(UniformPointSize) || loc.HasUniform(UniformNormalMatrix) {
		t.Fatal("particle uniforms wrong")
	}
}

func TestBuildReturnsNilOnCompileFailure(t *testing.T) {
	s := newRecorder(t, recorder.WithCompileHook(func(stage surface.Stage, _ string) error {
		if stage == surface.StageFragment {
			return errors.New("ERROR: 0:12: 'texture2D' : no matching overloaded function found")
		}
		return nil
	}))
	if p := Build(s, Config{Key: "broken", Capabilities: PresetBumpMap}); p != nil {
		t.Fatal("expected nil program")
	}
	if s.LivePrograms() != 0 {
		t.Fatal("failed build left a program behind")
	}
}

func TestBuildReturnsNilOnLinkFailure(t *testing.T) {
	s := newRecorder(t, recorder.WithLinkHook(func(_, _ string) error {
		return errors.New("too many varyings")
	}))
	if p := Build(s, Config{Key: "broken", Capabilities: PresetPhong}); p != nil {
		t.Fatal("expected nil program")
	}
}

func TestCompileAndLinkWrapErrors(t *testing.T) {
	s := newRecorder(t)
	_, err := CompileShader(s, surface.StageVertex, "")
	var ce *surface.ShaderCompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v", err)
	}
	_, err = LinkProgram(s, 999, 1000)
	var le *surface.ShaderLinkError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveLocationsUsesSentinel(t *testing.T) {
	s := newRecorder(t)
	p := Build(s, Config{Key: "flat", Capabilities: PresetFlat})
	table := ResolveLocations(s, p.Handle())
	if loc, ok := table.Attribute(RoleTangent); ok || loc != surface.NoLocation {
		t.Fatalf("tangent = %d, %v", loc, ok)
	}
	if loc, ok := table.Uniform(UniformShininess); ok || loc != -1 {
		t.Fatalf("shininess = %d, %v", loc, ok)
	}
}

func TestWGSLSourcesDeclareRoleLocations(t *testing.T) {
	vs, fs, err := Source(surface.LanguageWGSL, KindMesh, PresetAllTerms)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []Role{RolePosition, RoleNormal, RoleTangent, RoleBitangent, RoleColor, RoleUV, RoleRoughness} {
		want := "@location(" + string(rune('0'+r.Location())) + ") " + r.AttributeName() + ":"
		if !strings.Contains(vs, want) {
			t.Fatalf("vertex source lacks %q", want)
		}
	}
	if !strings.Contains(fs, "var uBumpMap: texture_2d<f32>") || !strings.Contains(fs, "uShininess: f32") {
		t.Fatal("fragment source lacks bump map or shininess")
	}

	vs, _, err = Source(surface.LanguageWGSL, KindMesh, 0)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(vs, "aVertexNormal") || strings.Contains(vs, "uNormalMatrix") {
		t.Fatal("unlit source declares lighting inputs")
	}

	if _, _, err := Source(surface.Language(9), KindMesh, 0); err == nil {
		t.Fatal("unknown language accepted")
	}
}

func TestParseCapabilities(t *testing.T) {
	c, err := ParseCapabilities([]string{"ambient", " Diffuse ", "normal_map", ""})
	if err != nil {
		t.Fatal(err)
	}
	if c != CapAmbient|CapDiffuse|CapNormalMap {
		t.Fatalf("caps = %s", c)
	}
	again, _ := ParseCapabilities(c.Names())
	if again != c {
		t.Fatalf("names round trip = %s", again)
	}
	if _, err := ParseCapabilities([]string{"shadows"}); err == nil {
		t.Fatal("unknown capability accepted")
	}
	if Capability(0).String() != "unlit" {
		t.Fatal("zero capability name")
	}
}

package wgpu_surface

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

func reflectProgram(t *testing.T, kind shader.Kind, caps shader.Capability) (*reflection, *reflection) {
	t.Helper()
	vsSrc, fsSrc, err := shader.Source(surface.LanguageWGSL, kind, caps)
	if err != nil {
		t.Fatal(err)
	}
	vs, err := reflectStage(surface.StageVertex, vsSrc)
	if err != nil {
		t.Fatalf("vertex: %v", err)
	}
	fs, err := reflectStage(surface.StageFragment, fsSrc)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	return vs, fs
}

func TestReflectPhongUniformLayout(t *testing.T) {
	vs, fs := reflectProgram(t, shader.KindMesh, shader.PresetPhong)
	if vs.entryPoint != "vs_main" || fs.entryPoint != "fs_main" {
		t.Fatalf("entry points %q %q", vs.entryPoint, fs.entryPoint)
	}

	want := map[string]uint64{
		"uProjectionMatrix": 0,
		"uModelViewMatrix":  64,
		"uNormalMatrix":     128,
		"uBaseColor":        192,
		"uAmbientColor":     208,
		"uLightDirection":   224,
		"uLightColor":       240,
		"uShininess":        252,
	}
	for name, off := range want {
		f, ok := vs.uniforms[name]
		if !ok || f.offset != off {
			t.Errorf("%s at %+v, want offset %d", name, f, off)
		}
	}
	if vs.uniformSize != 256 || fs.uniformSize != 256 {
		t.Fatalf("uniform block sizes %d %d", vs.uniformSize, fs.uniformSize)
	}
	if err := checkInterface(vs, fs); err != nil {
		t.Fatal(err)
	}
}

func TestReflectVertexInputsFollowRoles(t *testing.T) {
	vs, _ := reflectProgram(t, shader.KindMesh, shader.PresetAllTerms)
	if len(vs.inputs) != 7 {
		t.Fatalf("got %d inputs", len(vs.inputs))
	}
	for i, in := range vs.inputs {
		var role shader.Role = -1
		for _, r := range shader.Roles() {
			if r.AttributeName() == in.name {
				role = r
			}
		}
		if role < 0 {
			t.Fatalf("input %s matches no role", in.name)
		}
		if int(in.location) != role.Location() || in.format.components != role.Components() {
			t.Fatalf("input %d %s at %d with %d components", i, in.name, in.location, in.format.components)
		}
		if i > 0 && vs.inputs[i-1].location >= in.location {
			t.Fatal("inputs not sorted by location")
		}
	}
}

func TestReflectBumpMapResources(t *testing.T) {
	vs, fs := reflectProgram(t, shader.KindMesh, shader.PresetBumpMap)
	if len(vs.resources) != 1 || len(fs.resources) != 3 {
		t.Fatalf("resources vs=%d fs=%d", len(vs.resources), len(fs.resources))
	}
	if fs.resources[0].entry.Buffer.Type != wgpu.BufferBindingTypeUniform || !fs.resources[0].entry.Buffer.HasDynamicOffset {
		t.Fatal("binding 0 is not a dynamic uniform buffer")
	}
	if fs.resources[1].name != "uBumpMap" || fs.resources[1].entry.Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Fatalf("binding 1 = %+v", fs.resources[1])
	}
	if fs.resources[2].entry.Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Fatal("binding 2 is not a filtering sampler")
	}
}

func TestReflectParticles(t *testing.T) {
	vs, fs := reflectProgram(t, shader.KindParticles, 0)
	if len(vs.inputs) != 2 || vs.inputs[0].name != "aParticlePosition" {
		t.Fatalf("inputs = %+v", vs.inputs)
	}
	if f := vs.uniforms["uPointSize"]; f.offset != 128 || vs.uniformSize != 144 {
		t.Fatalf("uPointSize at %d, block %d", f.offset, vs.uniformSize)
	}
	if err := checkInterface(vs, fs); err != nil {
		t.Fatal(err)
	}
}

func TestCheckInterfaceMismatch(t *testing.T) {
	const vsSrc = `
struct Out {
  @builtin(position) p: vec4<f32>,
  @location(0) c: vec3<f32>,
}
@vertex
fn main_v() -> Out {
  var o: Out;
  return o;
}`
	const fsSrc = `
struct In {
  @builtin(position) p: vec4<f32>,
  @location(0) c: vec4<f32>,
  @location(1) extra: f32,
}
@fragment
fn main_f(input: In) -> @location(0) vec4<f32> {
  return input.c;
}`
	vs, err := reflectStage(surface.StageVertex, vsSrc)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := reflectStage(surface.StageFragment, fsSrc)
	if err != nil {
		t.Fatal(err)
	}
	if err := checkInterface(vs, fs); err == nil {
		t.Fatal("mismatched varying type linked")
	}
	delete(fs.varyings, 0)
	if err := checkInterface(vs, fs); err == nil {
		t.Fatal("unwritten varying linked")
	}
}

func TestReflectRejects(t *testing.T) {
	cases := map[string]struct {
		stage  surface.Stage
		source string
	}{
		"no vertex entry":   {surface.StageVertex, "fn helper() {}"},
		"no fragment entry": {surface.StageFragment, "@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }"},
		"integer input": {surface.StageVertex, `
struct In { @location(0) id: u32, }
@vertex fn v(input: In) -> @builtin(position) vec4<f32> { return vec4<f32>(); }`},
		"second bind group": {surface.StageFragment, `
@group(1) @binding(0) var s: sampler;
@fragment fn f() -> @location(0) vec4<f32> { return vec4<f32>(); }`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := reflectStage(tc.stage, tc.source); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestStructLayoutWithArrays(t *testing.T) {
	structs := parseStructBlocks(stripComments(`
// block comment /* nested */ stays out
struct Light { dir: vec3<f32>, power: f32, }
struct Block {
  lights: array<Light, 2>,
  count: u32, /* trailing */
}`))
	sizes := computeStructSizes(structs)
	if sizes["Light"].size != 16 || sizes["Block"].size != 48 {
		t.Fatalf("sizes = %+v", sizes)
	}
	offsets, ok := structFieldOffsets(structs[1], sizes)
	if !ok || offsets["count"].offset != 32 {
		t.Fatalf("offsets = %+v", offsets)
	}
}

package wgpu_surface

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

// textureSet is the texture bound to each texture binding slot, used as a bind group cache key.
type textureSet [maxTextureBindings]surface.TextureHandle

// program is a linked vertex/fragment pair. It owns the bind group layout both stages share,
// the render pipelines created for it and one bind group per combination of bound textures.
type program struct {
	vertex   *shaderStage
	fragment *shaderStage

	inputs          []vertexInput
	uniformSize     uint64
	uniforms        map[string]uniformField
	textureBindings map[string]uint32
	resources       []resourceBinding

	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	pipelines       map[pipelineKey]*wgpu.RenderPipeline
	bindGroups      map[textureSet]*wgpu.BindGroup

	staging  []byte
	textures textureSet
}

// newProgram merges the resources of both stages into one bind group layout and creates the
// pipeline layout. Caller must hold the mutex.
func (s *Surface) newProgram(vs, fs *shaderStage) (*program, error) {
	p := &program{
		vertex:          vs,
		fragment:        fs,
		inputs:          vs.refl.inputs,
		textureBindings: make(map[string]uint32),
		pipelines:       make(map[pipelineKey]*wgpu.RenderPipeline),
		bindGroups:      make(map[textureSet]*wgpu.BindGroup),
	}

	uniformRefl := vs.refl
	if uniformRefl.uniformStruct == "" {
		uniformRefl = fs.refl
	}
	if uniformRefl.uniformStruct == "" {
		return nil, fmt.Errorf("program declares no uniform block at @binding(0)")
	}
	p.uniformSize = uniformRefl.uniformSize
	p.uniforms = uniformRefl.uniforms
	p.staging = make([]byte, p.uniformSize)

	merged := make(map[uint32]resourceBinding)
	for _, st := range []*reflection{vs.refl, fs.refl} {
		for _, r := range st.resources {
			if prev, ok := merged[r.binding]; ok && prev.name != r.name {
				return nil, fmt.Errorf("@binding(%d) is %s in one stage and %s in the other", r.binding, prev.name, r.name)
			}
			merged[r.binding] = r
		}
	}
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(merged))
	for binding := range uint32(len(merged) + maxTextureBindings + 1) {
		r, ok := merged[binding]
		if !ok {
			continue
		}
		if r.entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined {
			if binding == 0 || binding > maxTextureBindings {
				return nil, fmt.Errorf("texture %s at @binding(%d) is outside bindings 1..%d", r.name, binding, maxTextureBindings)
			}
			p.textureBindings[r.name] = binding
		}
		p.resources = append(p.resources, r)
		entries = append(entries, r.entry)
	}
	if len(entries) != len(merged) {
		return nil, fmt.Errorf("resource bindings must lie in 0..%d", maxTextureBindings+1)
	}

	layout, err := s.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Program Bind Group Layout",
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	pipelineLayout, err := s.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Program Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		return nil, err
	}
	p.bindGroupLayout = layout
	p.pipelineLayout = pipelineLayout

	vs.refs++
	fs.refs++
	return p, nil
}

// renderPipeline returns the pipeline for a primitive and depth state, creating it on first use.
// Caller must hold the mutex.
func (s *Surface) renderPipeline(p *program, key pipelineKey) (*wgpu.RenderPipeline, error) {
	if rp, ok := p.pipelines[key]; ok {
		return rp, nil
	}

	// One buffer per stream, each tightly packed.
	vertexLayouts := make([]wgpu.VertexBufferLayout, len(p.inputs))
	for i, in := range p.inputs {
		vertexLayouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: in.format.size,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{{
				Format:         in.format.format,
				Offset:         0,
				ShaderLocation: in.location,
			}},
		}
	}

	topology := wgpu.PrimitiveTopologyTriangleList
	if key.primitive == surface.PrimitivePoints {
		topology = wgpu.PrimitiveTopologyPointList
	}
	depthCompare := wgpu.CompareFunctionAlways
	if key.depthTest {
		depthCompare = wgpu.CompareFunctionLess
		if key.depthFunc == surface.DepthLessEqual {
			depthCompare = wgpu.CompareFunctionLessEqual
		}
	}

	created, err := s.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("%s Render Pipeline", key.primitive),
		Layout: p.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     p.vertex.module,
			EntryPoint: p.vertex.refl.entryPoint,
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.fragment.module,
			EntryPoint: p.fragment.refl.entryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    s.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(s.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: key.depthTest,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu_surface: create %s pipeline: %w", key.primitive, err)
	}
	p.pipelines[key] = created
	return created, nil
}

// bindGroup returns the bind group for the currently bound textures, creating it on first use.
// Unbound or deleted textures fall back to the flat normal texture. Caller must hold the mutex.
func (s *Surface) bindGroup(p *program) (*wgpu.BindGroup, error) {
	key := p.textures
	for i, h := range key {
		if _, ok := s.textures[h]; !ok {
			key[i] = 0
		}
	}
	if bg, ok := p.bindGroups[key]; ok {
		return bg, nil
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(p.resources))
	for _, r := range p.resources {
		switch {
		case r.entry.Buffer.Type == wgpu.BufferBindingTypeUniform:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: r.binding,
				Buffer:  s.ring,
				Offset:  0,
				Size:    p.uniformSize,
			})
		case r.entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			view := s.flatTexture.view
			if t, ok := s.textures[key[r.binding-1]]; ok {
				view = t.view
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     r.binding,
				TextureView: view,
			})
		case r.entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: r.binding,
				Sampler: s.sampler,
			})
		default:
			return nil, fmt.Errorf("wgpu_surface: resource %s at @binding(%d) is not supported", r.name, r.binding)
		}
	}

	bg, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Program Bind Group",
		Layout:  p.bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu_surface: create bind group: %w", err)
	}
	p.bindGroups[key] = bg
	return bg, nil
}

// bindTexture records the texture for a binding in 1..maxTextureBindings.
func (p *program) bindTexture(binding uint32, tex surface.TextureHandle) {
	if binding == 0 || binding > maxTextureBindings {
		return
	}
	p.textures[binding-1] = tex
}

func (p *program) releaseBindGroups() {
	for key, bg := range p.bindGroups {
		bg.Release()
		delete(p.bindGroups, key)
	}
}

// release frees everything the program owns and drops its references to the stages.
func (p *program) release() {
	p.releaseBindGroups()
	for key, rp := range p.pipelines {
		rp.Release()
		delete(p.pipelines, key)
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for _, st := range []*shaderStage{p.vertex, p.fragment} {
		st.refs--
		st.release()
	}
	p.vertex, p.fragment = nil, nil
}

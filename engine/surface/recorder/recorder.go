// Package recorder implements surface.Surface in memory. It compiles GLSL by scanning
// declarations, validates every draw against the bound program and buffers, and records what
// each frame would have drawn. Tests and the headless binary render through it.
package recorder

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

var (
	attributeDeclRegex = regexp.MustCompile(`(?m)^\s*attribute\s+\w+\s+(\w+)\s*;`)
	uniformDeclRegex   = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*;`)
	varyingDeclRegex   = regexp.MustCompile(`(?m)^\s*varying\s+(\w+)\s+(\w+)\s*;`)
	mainRegex          = regexp.MustCompile(`void\s+main\s*\(\s*\)`)
)

// Binding is one attribute stream as seen by a recorded draw.
type Binding struct {
	Buffer surface.BufferHandle
	Layout surface.AttributeLayout
}

// DrawCall is a snapshot of the state a draw was issued with.
type DrawCall struct {
	Program     surface.ProgramHandle
	Primitive   surface.Primitive
	Indexed     bool
	IndexBuffer surface.BufferHandle
	First       int
	Count       int
	Attributes  map[surface.Location]Binding
	Uniforms    map[surface.Location][]float32
	Textures    map[surface.Location]surface.TextureHandle
}

// Uniform returns the values a named uniform held when the draw was issued.
func (d DrawCall) Uniform(s *Surface, name string) ([]float32, bool) {
	loc := s.UniformLocation(d.Program, name)
	if !loc.Valid() {
		return nil, false
	}
	v, ok := d.Uniforms[loc]
	return v, ok
}

// Frame is everything recorded between BeginFrame and EndFrame.
type Frame struct {
	Width, Height int
	ClearColor    [4]float32
	ClearDepth    float32
	Clears        int
	DepthTest     bool
	DepthFunc     surface.DepthFunc
	Draws         []DrawCall
}

type buffer struct {
	target surface.BufferTarget
	data   []byte
	label  string
}

type shader struct {
	stage    surface.Stage
	source   string
	varyings map[string]string
}

type program struct {
	vertexSource   string
	fragmentSource string
	attributes     map[string]surface.Location
	uniforms       map[string]surface.Location
	values         map[surface.Location][]float32
	textures       map[surface.Location]surface.TextureHandle
}

// Surface is the recording implementation of surface.Surface.
type Surface struct {
	mu sync.Mutex

	viewport    *surface.Viewport
	compileHook func(stage surface.Stage, source string) error
	linkHook    func(vertex, fragment string) error

	nextHandle uint32
	buffers    map[surface.BufferHandle]*buffer
	textures   map[surface.TextureHandle]common.TextureStagingData
	shaders    map[surface.ShaderHandle]*shader
	programs   map[surface.ProgramHandle]*program

	current  surface.ProgramHandle
	bindings map[surface.Location]Binding

	inFrame bool
	frame   Frame
	frames  []Frame
	keep    int
}

var _ surface.Surface = &Surface{}

// New creates a recording surface.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Surface: the surface
//   - error: a *surface.UnsupportedSurfaceError when WithUnavailable was given
func New(options ...RecorderBuilderOption) (*Surface, error) {
	s := &Surface{
		viewport: surface.NewViewport(800, 600),
		buffers:  make(map[surface.BufferHandle]*buffer),
		textures: make(map[surface.TextureHandle]common.TextureStagingData),
		shaders:  make(map[surface.ShaderHandle]*shader),
		programs: make(map[surface.ProgramHandle]*program),
		bindings: make(map[surface.Location]Binding),
		keep:     16,
	}
	var unavailable string
	for _, opt := range options {
		opt(s, &unavailable)
	}
	if unavailable != "" {
		return nil, &surface.UnsupportedSurfaceError{Reason: unavailable}
	}
	return s, nil
}

func (s *Surface) handle() uint32 {
	s.nextHandle++
	return s.nextHandle
}

func (s *Surface) Language() surface.Language {
	return surface.LanguageGLSL
}

func (s *Surface) Viewport() *surface.Viewport {
	return s.viewport
}

func (s *Surface) BeginFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFrame {
		return fmt.Errorf("recorder: BeginFrame called twice without EndFrame")
	}
	w, h := s.viewport.Size()
	s.inFrame = true
	s.frame = Frame{Width: w, Height: h}
	return nil
}

func (s *Surface) EndFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inFrame {
		return fmt.Errorf("recorder: EndFrame without BeginFrame")
	}
	s.inFrame = false
	s.frames = append(s.frames, s.frame)
	if len(s.frames) > s.keep {
		s.frames = slices.Delete(s.frames, 0, len(s.frames)-s.keep)
	}
	return nil
}

func (s *Surface) Clear(r, g, b, a, depth float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.ClearColor = [4]float32{r, g, b, a}
	s.frame.ClearDepth = depth
	s.frame.Clears++
}

func (s *Surface) EnableDepthTest(fn surface.DepthFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.DepthTest = true
	s.frame.DepthFunc = fn
}

func (s *Surface) CreateBuffer(target surface.BufferTarget, data []byte, label string) (surface.BufferHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(data) == 0 {
		return 0, fmt.Errorf("recorder: buffer %q is empty", label)
	}
	if target == surface.TargetIndex && len(data)%2 != 0 {
		return 0, fmt.Errorf("recorder: index buffer %q has odd length %d", label, len(data))
	}
	h := surface.BufferHandle(s.handle())
	s.buffers[h] = &buffer{target: target, data: slices.Clone(data), label: label}
	return h, nil
}

func (s *Surface) DeleteBuffer(h surface.BufferHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, h)
}

func (s *Surface) CreateTexture(data common.TextureStagingData) (surface.TextureHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !data.Valid() {
		return 0, fmt.Errorf("recorder: invalid texture staging data %dx%d with %d bytes", data.Width, data.Height, len(data.Pixels))
	}
	h := surface.TextureHandle(s.handle())
	s.textures[h] = data
	return h, nil
}

func (s *Surface) DeleteTexture(h surface.TextureHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.textures, h)
}

func (s *Surface) CompileShader(stage surface.Stage, source string) (surface.ShaderHandle, error) {
	if s.compileHook != nil {
		if err := s.compileHook(stage, source); err != nil {
			return 0, &surface.ShaderCompileError{Stage: stage, Log: err.Error()}
		}
	}
	if strings.TrimSpace(source) == "" {
		return 0, &surface.ShaderCompileError{Stage: stage, Log: "ERROR: 0:1: empty source"}
	}
	if !mainRegex.MatchString(source) {
		return 0, &surface.ShaderCompileError{Stage: stage, Log: "ERROR: missing entry point 'main'"}
	}
	if strings.Count(source, "{") != strings.Count(source, "}") {
		return 0, &surface.ShaderCompileError{Stage: stage, Log: "ERROR: unbalanced braces"}
	}
	if stage == surface.StageFragment && attributeDeclRegex.MatchString(source) {
		return 0, &surface.ShaderCompileError{Stage: stage, Log: "ERROR: attributes are not allowed in fragment shaders"}
	}

	varyings := make(map[string]string)
	for _, m := range varyingDeclRegex.FindAllStringSubmatch(source, -1) {
		varyings[m[2]] = m[1]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h := surface.ShaderHandle(s.handle())
	s.shaders[h] = &shader{stage: stage, source: source, varyings: varyings}
	return h, nil
}

func (s *Surface) DeleteShader(h surface.ShaderHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shaders, h)
}

func (s *Surface) LinkProgram(vertex, fragment surface.ShaderHandle) (surface.ProgramHandle, error) {
	s.mu.Lock()
	vs, vok := s.shaders[vertex]
	fs, fok := s.shaders[fragment]
	s.mu.Unlock()

	switch {
	case !vok || !fok:
		return 0, &surface.ShaderLinkError{Log: "unknown shader handle"}
	case vs.stage != surface.StageVertex || fs.stage != surface.StageFragment:
		return 0, &surface.ShaderLinkError{Log: "stages attached in the wrong order"}
	}
	for name, typ := range fs.varyings {
		vtyp, ok := vs.varyings[name]
		if !ok {
			return 0, &surface.ShaderLinkError{Log: fmt.Sprintf("varying %s not written by the vertex shader", name)}
		}
		if vtyp != typ {
			return 0, &surface.ShaderLinkError{Log: fmt.Sprintf("varying %s declared %s in vertex and %s in fragment", name, vtyp, typ)}
		}
	}
	if s.linkHook != nil {
		if err := s.linkHook(vs.source, fs.source); err != nil {
			return 0, &surface.ShaderLinkError{Log: err.Error()}
		}
	}

	p := &program{
		vertexSource:   vs.source,
		fragmentSource: fs.source,
		attributes:     make(map[string]surface.Location),
		uniforms:       make(map[string]surface.Location),
		values:         make(map[surface.Location][]float32),
		textures:       make(map[surface.Location]surface.TextureHandle),
	}
	for i, m := range attributeDeclRegex.FindAllStringSubmatch(vs.source, -1) {
		p.attributes[m[1]] = surface.Location(i)
	}
	for _, src := range []string{vs.source, fs.source} {
		for _, m := range uniformDeclRegex.FindAllStringSubmatch(src, -1) {
			if _, ok := p.uniforms[m[1]]; !ok {
				p.uniforms[m[1]] = surface.Location(len(p.uniforms))
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h := surface.ProgramHandle(s.handle())
	s.programs[h] = p
	return h, nil
}

func (s *Surface) DeleteProgram(h surface.ProgramHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.programs, h)
	if s.current == h {
		s.current = 0
	}
}

func (s *Surface) AttribLocation(p surface.ProgramHandle, name string) surface.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prog, ok := s.programs[p]; ok {
		if loc, ok := prog.attributes[name]; ok {
			return loc
		}
	}
	return surface.NoLocation
}

func (s *Surface) UniformLocation(p surface.ProgramHandle, name string) surface.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prog, ok := s.programs[p]; ok {
		if loc, ok := prog.uniforms[name]; ok {
			return loc
		}
	}
	return surface.NoLocation
}

// UseProgram switches programs. Attribute bindings are scoped to the program in use, so every
// stream must be rebound after a switch.
func (s *Surface) UseProgram(p surface.ProgramHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != p {
		clear(s.bindings)
	}
	s.current = p
}

func (s *Surface) BindAttribute(loc surface.Location, b surface.BufferHandle, layout surface.AttributeLayout) {
	if !loc.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[loc] = Binding{Buffer: b, Layout: layout}
}

func (s *Surface) setUniform(loc surface.Location, values ...float32) {
	if !loc.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.programs[s.current]; ok {
		p.values[loc] = values
	}
}

func (s *Surface) UniformMatrix4(loc surface.Location, m *[16]float32) {
	s.setUniform(loc, m[:]...)
}

func (s *Surface) Uniform1f(loc surface.Location, v float32) {
	s.setUniform(loc, v)
}

func (s *Surface) Uniform3f(loc surface.Location, x, y, z float32) {
	s.setUniform(loc, x, y, z)
}

func (s *Surface) Uniform4f(loc surface.Location, x, y, z, w float32) {
	s.setUniform(loc, x, y, z, w)
}

func (s *Surface) BindTexture(loc surface.Location, unit int, tex surface.TextureHandle) {
	if !loc.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.programs[s.current]; ok {
		p.textures[loc] = tex
		p.values[loc] = []float32{float32(unit)}
	}
}

func (s *Surface) DrawElements(prim surface.Primitive, indices surface.BufferHandle, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ib, ok := s.buffers[indices]
	if !ok || ib.target != surface.TargetIndex {
		return fmt.Errorf("recorder: %d is not an index buffer", indices)
	}
	if count < 0 || count*2 > len(ib.data) {
		return fmt.Errorf("recorder: draw of %d indices overruns index buffer %q (%d indices)", count, ib.label, len(ib.data)/2)
	}
	maxIndex := -1
	for i := 0; i < count; i++ {
		v := int(ib.data[i*2]) | int(ib.data[i*2+1])<<8
		maxIndex = max(maxIndex, v)
	}
	if err := s.validateDraw(maxIndex + 1); err != nil {
		return err
	}
	s.record(DrawCall{Primitive: prim, Indexed: true, IndexBuffer: indices, Count: count})
	return nil
}

func (s *Surface) DrawArrays(prim surface.Primitive, first, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if first < 0 || count < 0 {
		return fmt.Errorf("recorder: negative draw range %d+%d", first, count)
	}
	if err := s.validateDraw(first + count); err != nil {
		return err
	}
	s.record(DrawCall{Primitive: prim, First: first, Count: count})
	return nil
}

// validateDraw checks that a program is in use, that every attribute it declares is bound to a
// live vertex buffer, and that each buffer holds at least vertices elements.
func (s *Surface) validateDraw(vertices int) error {
	if !s.inFrame {
		return fmt.Errorf("recorder: draw outside of a frame")
	}
	p, ok := s.programs[s.current]
	if !ok {
		return fmt.Errorf("recorder: draw without a linked program in use")
	}
	for name, loc := range p.attributes {
		b, ok := s.bindings[loc]
		if !ok {
			return &surface.MissingAttributeError{Attribute: name, Reason: "no buffer bound"}
		}
		buf, ok := s.buffers[b.Buffer]
		if !ok || buf.target != surface.TargetVertex {
			return &surface.MissingAttributeError{Attribute: name, Reason: "bound handle is not a vertex buffer"}
		}
		stride := b.Layout.Stride
		if stride == 0 {
			stride = b.Layout.Components * b.Layout.Type.Size()
		}
		if vertices > 0 && b.Layout.Offset+(vertices-1)*stride+b.Layout.Components*b.Layout.Type.Size() > len(buf.data) {
			return fmt.Errorf("recorder: attribute %s reads past the end of buffer %q", name, buf.label)
		}
	}
	return nil
}

func (s *Surface) record(d DrawCall) {
	p := s.programs[s.current]
	d.Program = s.current
	d.Attributes = maps.Clone(s.bindings)
	d.Uniforms = make(map[surface.Location][]float32, len(p.values))
	for loc, v := range p.values {
		d.Uniforms[loc] = slices.Clone(v)
	}
	d.Textures = maps.Clone(p.textures)
	s.frame.Draws = append(s.frame.Draws, d)
}

// Frames returns the most recently completed frames, oldest first.
func (s *Surface) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.frames)
}

// LastFrame returns the most recently completed frame.
func (s *Surface) LastFrame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// BufferData returns a copy of a live buffer's contents.
func (s *Surface) BufferData(h surface.BufferHandle) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buffers[h]
	if !ok {
		return nil, false
	}
	return slices.Clone(b.data), true
}

// LiveBuffers returns the number of buffers not yet deleted.
func (s *Surface) LiveBuffers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffers)
}

// LivePrograms returns the number of programs not yet deleted.
func (s *Surface) LivePrograms() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.programs)
}

// ProgramSources returns the stage sources a program was linked from.
func (s *Surface) ProgramSources(h surface.ProgramHandle) (vertex, fragment string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[h]
	if !ok {
		return "", "", false
	}
	return p.vertexSource, p.fragmentSource, true
}

//go:build js && wasm

// Package webgl_surface implements surface.Surface on a browser canvas through a WebGL 1
// context. GLSL ES 1.00 sources compile unchanged; handles map onto JS objects.
package webgl_surface

import (
	"fmt"
	"log"
	"syscall/js"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

type buffer struct {
	value  js.Value
	target surface.BufferTarget
	size   int
}

type shader struct {
	value js.Value
	stage surface.Stage
}

type program struct {
	value js.Value

	// active lists the attributes the linked program consumes; every one must be fed.
	active     map[string]surface.Location
	attributes map[string]surface.Location
	uniforms   map[string]surface.Location
}

// Surface draws to a canvas with WebGL. It must be used from the goroutine that owns the JS
// event loop callbacks, which in practice is the requestAnimationFrame scheduler.
type Surface struct {
	canvas js.Value
	gl     js.Value
	consts glConsts

	viewport *surface.Viewport
	attrs    map[string]any

	nextHandle uint32
	buffers    map[surface.BufferHandle]*buffer
	textures   map[surface.TextureHandle]js.Value
	shaders    map[surface.ShaderHandle]*shader
	programs   map[surface.ProgramHandle]*program

	// uniformValues holds every WebGLUniformLocation; a surface.Location indexes into it.
	uniformValues []js.Value

	current surface.ProgramHandle
	enabled map[surface.Location]struct{}
	fed     map[surface.Location]struct{}
	lost    bool
	inFrame bool
	onLost  js.Func
}

var _ surface.Surface = &Surface{}

// New acquires a WebGL context on canvas.
//
// Parameters:
//   - canvas: an HTMLCanvasElement
//   - options: functional options
//
// Returns:
//   - *Surface: the surface, sized to the canvas
//   - error: a *surface.UnsupportedSurfaceError if no WebGL context can be created
func New(canvas js.Value, options ...WebGLSurfaceBuilderOption) (*Surface, error) {
	if canvas.IsUndefined() || canvas.IsNull() {
		return nil, &surface.UnsupportedSurfaceError{Reason: "no canvas element"}
	}
	s := &Surface{
		canvas:   canvas,
		attrs:    map[string]any{"antialias": true, "depth": true, "alpha": false},
		buffers:  make(map[surface.BufferHandle]*buffer),
		textures: make(map[surface.TextureHandle]js.Value),
		shaders:  make(map[surface.ShaderHandle]*shader),
		programs: make(map[surface.ProgramHandle]*program),
		enabled:  make(map[surface.Location]struct{}),
		fed:      make(map[surface.Location]struct{}),
	}
	for _, opt := range options {
		opt(s)
	}

	gl := canvas.Call("getContext", "webgl", s.attrs)
	if gl.IsNull() || gl.IsUndefined() {
		gl = canvas.Call("getContext", "experimental-webgl", s.attrs)
	}
	if gl.IsNull() || gl.IsUndefined() {
		return nil, &surface.UnsupportedSurfaceError{Reason: "WebGL is not available in this browser"}
	}
	s.gl = gl
	s.consts = loadConsts(gl)

	if s.viewport == nil {
		s.viewport = surface.NewViewport(canvas.Get("width").Int(), canvas.Get("height").Int())
	}

	s.onLost = js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			args[0].Call("preventDefault")
		}
		s.lost = true
		log.Printf("[WebGL] context lost")
		return nil
	})
	canvas.Call("addEventListener", "webglcontextlost", s.onLost)
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

// Lost reports whether the browser has taken the context away.
func (s *Surface) Lost() bool {
	return s.lost
}

func (s *Surface) BeginFrame() error {
	if s.lost {
		return &surface.UnsupportedSurfaceError{Reason: "WebGL context lost"}
	}
	if s.inFrame {
		return fmt.Errorf("webgl: BeginFrame called twice without EndFrame")
	}
	w, h := s.viewport.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("webgl: viewport %dx%d is empty", w, h)
	}
	if s.canvas.Get("width").Int() != w || s.canvas.Get("height").Int() != h {
		s.canvas.Set("width", w)
		s.canvas.Set("height", h)
	}
	s.gl.Call("viewport", 0, 0, w, h)
	s.inFrame = true
	return nil
}

func (s *Surface) EndFrame() error {
	if !s.inFrame {
		return fmt.Errorf("webgl: EndFrame without BeginFrame")
	}
	s.inFrame = false
	s.gl.Call("flush")
	return nil
}

func (s *Surface) Clear(r, g, b, a, depth float32) {
	s.gl.Call("clearColor", r, g, b, a)
	s.gl.Call("clearDepth", depth)
	s.gl.Call("clear", s.consts.colorBufferBit|s.consts.depthBufferBit)
}

func (s *Surface) EnableDepthTest(fn surface.DepthFunc) {
	s.gl.Call("enable", s.consts.depthTest)
	switch fn {
	case surface.DepthLess:
		s.gl.Call("depthFunc", s.consts.less)
	default:
		s.gl.Call("depthFunc", s.consts.lequal)
	}
}

func (s *Surface) CreateBuffer(target surface.BufferTarget, data []byte, label string) (surface.BufferHandle, error) {
	glTarget := s.consts.arrayBuffer
	if target == surface.TargetIndex {
		glTarget = s.consts.elementArrayBuffer
	}
	value := s.gl.Call("createBuffer")
	if value.IsNull() {
		return 0, fmt.Errorf("webgl: createBuffer %q failed", label)
	}
	s.gl.Call("bindBuffer", glTarget, value)
	s.gl.Call("bufferData", glTarget, uint8Array(data), s.consts.staticDraw)

	h := surface.BufferHandle(s.handle())
	s.buffers[h] = &buffer{value: value, target: target, size: len(data)}
	return h, nil
}

func (s *Surface) DeleteBuffer(h surface.BufferHandle) {
	b, ok := s.buffers[h]
	if !ok {
		return
	}
	s.gl.Call("deleteBuffer", b.value)
	delete(s.buffers, h)
}

func (s *Surface) CreateTexture(data common.TextureStagingData) (surface.TextureHandle, error) {
	if !data.Valid() {
		return 0, fmt.Errorf("webgl: invalid texture staging data %dx%d with %d bytes", data.Width, data.Height, len(data.Pixels))
	}
	tex := s.gl.Call("createTexture")
	t2d := s.consts.texture2D
	s.gl.Call("bindTexture", t2d, tex)
	s.gl.Call("texImage2D", t2d, 0, s.consts.rgba, data.Width, data.Height, 0, s.consts.rgba, s.consts.unsignedByte, uint8Array(data.Pixels))

	// WebGL 1 only repeats power-of-two textures.
	wrap := s.consts.clampToEdge
	if isPowerOfTwo(data.Width) && isPowerOfTwo(data.Height) {
		wrap = s.consts.repeat
	}
	s.gl.Call("texParameteri", t2d, s.consts.textureWrapS, wrap)
	s.gl.Call("texParameteri", t2d, s.consts.textureWrapT, wrap)
	s.gl.Call("texParameteri", t2d, s.consts.textureMinFilter, s.consts.linear)
	s.gl.Call("texParameteri", t2d, s.consts.textureMagFilter, s.consts.linear)

	h := surface.TextureHandle(s.handle())
	s.textures[h] = tex
	return h, nil
}

func (s *Surface) DeleteTexture(h surface.TextureHandle) {
	tex, ok := s.textures[h]
	if !ok {
		return
	}
	s.gl.Call("deleteTexture", tex)
	delete(s.textures, h)
}

func (s *Surface) CompileShader(stage surface.Stage, source string) (surface.ShaderHandle, error) {
	glStage := s.consts.vertexShader
	if stage == surface.StageFragment {
		glStage = s.consts.fragmentShader
	}
	value := s.gl.Call("createShader", glStage)
	s.gl.Call("shaderSource", value, source)
	s.gl.Call("compileShader", value)
	if !s.gl.Call("getShaderParameter", value, s.consts.compileStatus).Bool() {
		diag := s.gl.Call("getShaderInfoLog", value).String()
		s.gl.Call("deleteShader", value)
		return 0, &surface.ShaderCompileError{Stage: stage, Log: diag}
	}
	h := surface.ShaderHandle(s.handle())
	s.shaders[h] = &shader{value: value, stage: stage}
	return h, nil
}

func (s *Surface) DeleteShader(h surface.ShaderHandle) {
	sh, ok := s.shaders[h]
	if !ok {
		return
	}
	s.gl.Call("deleteShader", sh.value)
	delete(s.shaders, h)
}

func (s *Surface) LinkProgram(vertex, fragment surface.ShaderHandle) (surface.ProgramHandle, error) {
	vs, vok := s.shaders[vertex]
	fs, fok := s.shaders[fragment]
	if !vok || !fok {
		return 0, &surface.ShaderLinkError{Log: "unknown shader handle"}
	}
	if vs.stage != surface.StageVertex || fs.stage != surface.StageFragment {
		return 0, &surface.ShaderLinkError{Log: "stages must be one vertex and one fragment shader"}
	}

	value := s.gl.Call("createProgram")
	s.gl.Call("attachShader", value, vs.value)
	s.gl.Call("attachShader", value, fs.value)
	s.gl.Call("linkProgram", value)
	if !s.gl.Call("getProgramParameter", value, s.consts.linkStatus).Bool() {
		diag := s.gl.Call("getProgramInfoLog", value).String()
		s.gl.Call("deleteProgram", value)
		return 0, &surface.ShaderLinkError{Log: diag}
	}

	p := &program{
		value:      value,
		active:     make(map[string]surface.Location),
		attributes: make(map[string]surface.Location),
		uniforms:   make(map[string]surface.Location),
	}
	n := s.gl.Call("getProgramParameter", value, s.consts.activeAttributes).Int()
	for i := 0; i < n; i++ {
		info := s.gl.Call("getActiveAttrib", value, i)
		if info.IsNull() {
			continue
		}
		name := info.Get("name").String()
		p.active[name] = surface.Location(s.gl.Call("getAttribLocation", value, name).Int())
	}

	h := surface.ProgramHandle(s.handle())
	s.programs[h] = p
	return h, nil
}

func (s *Surface) DeleteProgram(h surface.ProgramHandle) {
	p, ok := s.programs[h]
	if !ok {
		return
	}
	s.gl.Call("deleteProgram", p.value)
	delete(s.programs, h)
	if s.current == h {
		s.current = 0
	}
}

func (s *Surface) AttribLocation(h surface.ProgramHandle, name string) surface.Location {
	p, ok := s.programs[h]
	if !ok {
		return surface.NoLocation
	}
	if loc, ok := p.attributes[name]; ok {
		return loc
	}
	loc := surface.Location(s.gl.Call("getAttribLocation", p.value, name).Int())
	if loc < 0 {
		loc = surface.NoLocation
	}
	p.attributes[name] = loc
	return loc
}

func (s *Surface) UniformLocation(h surface.ProgramHandle, name string) surface.Location {
	p, ok := s.programs[h]
	if !ok {
		return surface.NoLocation
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	value := s.gl.Call("getUniformLocation", p.value, name)
	loc := surface.NoLocation
	if !value.IsNull() && !value.IsUndefined() {
		loc = surface.Location(len(s.uniformValues))
		s.uniformValues = append(s.uniformValues, value)
	}
	p.uniforms[name] = loc
	return loc
}

func (s *Surface) UseProgram(h surface.ProgramHandle) {
	p, ok := s.programs[h]
	if !ok {
		return
	}
	if s.current != h {
		for loc := range s.enabled {
			s.gl.Call("disableVertexAttribArray", int(loc))
		}
		clear(s.enabled)
		clear(s.fed)
	}
	s.gl.Call("useProgram", p.value)
	s.current = h
}

func (s *Surface) BindAttribute(loc surface.Location, h surface.BufferHandle, layout surface.AttributeLayout) {
	b, ok := s.buffers[h]
	if !loc.Valid() || !ok || b.target != surface.TargetVertex {
		return
	}
	s.gl.Call("bindBuffer", s.consts.arrayBuffer, b.value)
	s.gl.Call("vertexAttribPointer", int(loc), layout.Components, s.consts.floatType, layout.Normalized, layout.Stride, layout.Offset)
	if _, on := s.enabled[loc]; !on {
		s.gl.Call("enableVertexAttribArray", int(loc))
		s.enabled[loc] = struct{}{}
	}
	s.fed[loc] = struct{}{}
}

func (s *Surface) uniform(loc surface.Location) (js.Value, bool) {
	if !loc.Valid() || int(loc) >= len(s.uniformValues) || s.current == 0 {
		return js.Value{}, false
	}
	return s.uniformValues[loc], true
}

func (s *Surface) UniformMatrix4(loc surface.Location, m *[16]float32) {
	if u, ok := s.uniform(loc); ok {
		s.gl.Call("uniformMatrix4fv", u, false, float32Array(m[:]))
	}
}

func (s *Surface) Uniform1f(loc surface.Location, v float32) {
	if u, ok := s.uniform(loc); ok {
		s.gl.Call("uniform1f", u, v)
	}
}

func (s *Surface) Uniform3f(loc surface.Location, x, y, z float32) {
	if u, ok := s.uniform(loc); ok {
		s.gl.Call("uniform3f", u, x, y, z)
	}
}

func (s *Surface) Uniform4f(loc surface.Location, x, y, z, w float32) {
	if u, ok := s.uniform(loc); ok {
		s.gl.Call("uniform4f", u, x, y, z, w)
	}
}

func (s *Surface) BindTexture(loc surface.Location, unit int, h surface.TextureHandle) {
	u, ok := s.uniform(loc)
	tex, tok := s.textures[h]
	if !ok || !tok {
		return
	}
	s.gl.Call("activeTexture", s.consts.texture0+unit)
	s.gl.Call("bindTexture", s.consts.texture2D, tex)
	s.gl.Call("uniform1i", u, unit)
}

func (s *Surface) DrawElements(prim surface.Primitive, indices surface.BufferHandle, count int) error {
	b, ok := s.buffers[indices]
	if !ok || b.target != surface.TargetIndex {
		return fmt.Errorf("webgl: %d is not an index buffer", indices)
	}
	if count < 0 || count*2 > b.size {
		return fmt.Errorf("webgl: %d indices exceed the %d-byte index buffer", count, b.size)
	}
	if err := s.checkInputs(); err != nil {
		return err
	}
	s.gl.Call("bindBuffer", s.consts.elementArrayBuffer, b.value)
	s.gl.Call("drawElements", s.mode(prim), count, s.consts.unsignedShort, 0)
	return nil
}

func (s *Surface) DrawArrays(prim surface.Primitive, first, count int) error {
	if first < 0 || count < 0 {
		return fmt.Errorf("webgl: invalid range first=%d count=%d", first, count)
	}
	if err := s.checkInputs(); err != nil {
		return err
	}
	s.gl.Call("drawArrays", s.mode(prim), first, count)
	return nil
}

// checkInputs rejects a draw whose program consumes an attribute nothing was bound to.
func (s *Surface) checkInputs() error {
	if !s.inFrame {
		return fmt.Errorf("webgl: draw outside BeginFrame/EndFrame")
	}
	p, ok := s.programs[s.current]
	if !ok {
		return fmt.Errorf("webgl: no program in use")
	}
	for name, loc := range p.active {
		if _, fed := s.fed[loc]; !fed {
			return &surface.MissingAttributeError{Attribute: name, Reason: "no buffer bound"}
		}
	}
	return nil
}

func (s *Surface) mode(prim surface.Primitive) int {
	if prim == surface.PrimitivePoints {
		return s.consts.points
	}
	return s.consts.triangles
}

// Release deletes every object still alive and detaches the context listeners.
func (s *Surface) Release() {
	for h := range s.programs {
		s.DeleteProgram(h)
	}
	for h := range s.shaders {
		s.DeleteShader(h)
	}
	for h := range s.buffers {
		s.DeleteBuffer(h)
	}
	for h := range s.textures {
		s.DeleteTexture(h)
	}
	s.canvas.Call("removeEventListener", "webglcontextlost", s.onLost)
	s.onLost.Release()
}

func isPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

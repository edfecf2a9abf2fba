// Package wgpu_surface implements surface.Surface on WebGPU for desktop windows. Immediate-mode
// calls are recorded into one render pass per frame: uniforms are staged per program and copied
// into a ring buffer bound with a dynamic offset per draw, and render pipelines are created
// lazily per primitive and depth state.
package wgpu_surface

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// uniformAlignment is the dynamic offset alignment every WebGPU adapter accepts.
	uniformAlignment = 256

	// textureLocationBase offsets texture binding indices so they never collide with the byte
	// offsets uniform locations encode.
	textureLocationBase = 1 << 24

	// maxTextureBindings is the number of sampled textures one program may declare.
	maxTextureBindings = 4

	defaultMaxDraws = 1024
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples used for multisample anti-aliasing.
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

type buffer struct {
	target surface.BufferTarget
	buf    *wgpu.Buffer
	size   uint64
}

type texture struct {
	tex  *wgpu.Texture
	view *wgpu.TextureView
}

type shaderStage struct {
	stage   surface.Stage
	module  *wgpu.ShaderModule
	refl    *reflection
	refs    int
	deleted bool
}

type pipelineKey struct {
	primitive surface.Primitive
	depthTest bool
	depthFunc surface.DepthFunc
}

type attributeBinding struct {
	buffer surface.BufferHandle
	layout surface.AttributeLayout
}

// Surface is the WebGPU implementation of surface.Surface.
type Surface struct {
	mu *sync.Mutex

	viewport      *surface.Viewport
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount
	forceFallback bool
	maxDraws      int

	instance      *wgpu.Instance
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	target        *wgpu.Surface
	surfaceFormat wgpu.TextureFormat

	configuredWidth  int
	configuredHeight int
	msaaTexture      *wgpu.Texture
	msaaView         *wgpu.TextureView
	depthTexture     *wgpu.Texture
	depthView        *wgpu.TextureView

	sampler     *wgpu.Sampler
	flatTexture *texture

	ring       *wgpu.Buffer
	ringSize   uint64
	arena      []byte
	growRing   bool
	nextHandle uint32

	buffers  map[surface.BufferHandle]*buffer
	textures map[surface.TextureHandle]*texture
	shaders  map[surface.ShaderHandle]*shaderStage
	programs map[surface.ProgramHandle]*program

	current   surface.ProgramHandle
	bindings  map[surface.Location]attributeBinding
	depthTest bool
	depthFunc surface.DepthFunc

	clearColor wgpu.Color
	clearDepth float32

	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView
	encoder      *wgpu.CommandEncoder
	pass         *wgpu.RenderPassEncoder
}

var _ surface.Surface = &Surface{}

// New creates a WebGPU surface drawing into the window described by desc. The calling goroutine
// is locked to its OS thread, and every later call must come from it.
//
// Parameters:
//   - desc: the platform surface descriptor of the window
//   - viewport: the live viewport resize events update
//   - options: functional options
//
// Returns:
//   - *Surface: the surface
//   - error: a *surface.UnsupportedSurfaceError when no adapter or device is available
func New(desc *wgpu.SurfaceDescriptor, viewport *surface.Viewport, options ...WGPUSurfaceBuilderOption) (*Surface, error) {
	if viewport == nil {
		panic("wgpu_surface: cannot create a surface without a viewport")
	}
	runtime.LockOSThread()

	s := &Surface{
		mu:          &sync.Mutex{},
		viewport:    viewport,
		presentMode: wgpu.PresentModeFifo,
		sampleCount: MSAAOff,
		maxDraws:    defaultMaxDraws,
		buffers:     make(map[surface.BufferHandle]*buffer),
		textures:    make(map[surface.TextureHandle]*texture),
		shaders:     make(map[surface.ShaderHandle]*shaderStage),
		programs:    make(map[surface.ProgramHandle]*program),
		bindings:    make(map[surface.Location]attributeBinding),
		clearColor:  wgpu.Color{A: 1},
		clearDepth:  1,
	}
	for _, opt := range options {
		opt(s)
	}
	if desc == nil {
		return nil, &surface.UnsupportedSurfaceError{Reason: "no window surface descriptor"}
	}

	s.instance = wgpu.CreateInstance(nil)
	s.target = s.instance.CreateSurface(desc)

	adapter, err := s.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: s.forceFallback,
		CompatibleSurface:    s.target,
	})
	if err != nil {
		s.releaseInstance()
		return nil, &surface.UnsupportedSurfaceError{Reason: "no compatible GPU adapter", Err: err}
	}
	s.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "oxy-raw device"})
	if err != nil {
		s.releaseInstance()
		return nil, &surface.UnsupportedSurfaceError{Reason: "could not open the GPU device", Err: err}
	}
	s.device = device
	s.queue = device.GetQueue()

	capabilities := s.target.GetCapabilities(s.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		s.releaseInstance()
		return nil, &surface.UnsupportedSurfaceError{Reason: "window surface reports no formats"}
	}
	s.surfaceFormat = capabilities.Formats[0]

	if err := s.init(); err != nil {
		s.Release()
		return nil, &surface.UnsupportedSurfaceError{Reason: "could not allocate surface resources", Err: err}
	}
	return s, nil
}

// init creates the shared sampler, the fallback flat normal texture and the uniform ring.
func (s *Surface) init() error {
	sampler, err := s.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Bump Map Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return err
	}
	s.sampler = sampler

	flat, err := s.uploadTexture(common.TextureStagingData{Pixels: []byte{128, 128, 255, 255}, Width: 1, Height: 1}, "Flat Normal Texture")
	if err != nil {
		return err
	}
	s.flatTexture = flat

	return s.allocateRing(s.maxDraws)
}

func (s *Surface) handle() uint32 {
	s.nextHandle++
	return s.nextHandle
}

func (s *Surface) Language() surface.Language {
	return surface.LanguageWGSL
}

func (s *Surface) Viewport() *surface.Viewport {
	return s.viewport
}

// configure (re)configures the swapchain and the depth and MSAA targets for a new size.
// Caller must hold the mutex.
func (s *Surface) configure(width, height int) error {
	capabilities := s.target.GetCapabilities(s.adapter)
	s.target.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: s.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	s.releaseTargets()

	count := uint32(s.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if count > 1 {
		tex, err := s.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        s.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return err
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return err
		}
		s.msaaTexture, s.msaaView = tex, view
	}

	// Depth sample count must match the color attachment.
	depth, err := s.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	view, err := depth.CreateView(nil)
	if err != nil {
		depth.Release()
		return err
	}
	s.depthTexture, s.depthView = depth, view

	s.configuredWidth, s.configuredHeight = width, height
	return nil
}

func (s *Surface) BeginFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frameTexture != nil {
		return fmt.Errorf("wgpu_surface: previous frame not yet presented")
	}
	w, h := s.viewport.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("wgpu_surface: viewport is %dx%d", w, h)
	}
	if w != s.configuredWidth || h != s.configuredHeight {
		if err := s.configure(w, h); err != nil {
			return fmt.Errorf("wgpu_surface: configure %dx%d: %w", w, h, err)
		}
	}
	if s.growRing {
		if err := s.allocateRing(s.maxDraws * 2); err != nil {
			return fmt.Errorf("wgpu_surface: grow uniform ring: %w", err)
		}
		s.growRing = false
	}

	surfaceTexture, err := s.target.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	s.frameTexture = surfaceTexture
	s.frameView = view
	s.encoder = encoder
	s.arena = s.arena[:0]
	s.depthTest = false
	s.clearColor = wgpu.Color{A: 1}
	s.clearDepth = 1
	return nil
}

// beginPass starts the frame's render pass with the clear values recorded so far.
// Caller must hold the mutex.
func (s *Surface) beginPass() *wgpu.RenderPassEncoder {
	if s.pass != nil {
		return s.pass
	}
	color := wgpu.RenderPassColorAttachment{
		View:       s.frameView,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: s.clearColor,
	}
	if s.sampleCount > 1 {
		color.View = s.msaaView
		color.ResolveTarget = s.frameView
		color.StoreOp = wgpu.StoreOpDiscard
	}
	s.pass = s.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            s.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: s.clearDepth,
		},
	})
	return s.pass
}

func (s *Surface) EndFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return fmt.Errorf("wgpu_surface: EndFrame without BeginFrame")
	}
	defer s.resetFrame()

	s.beginPass().End()
	if len(s.arena) > 0 {
		s.queue.WriteBuffer(s.ring, 0, s.arena)
	}

	commandBuffer, err := s.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("wgpu_surface: finish frame: %w", err)
	}
	s.queue.Submit(commandBuffer)
	commandBuffer.Release()
	s.target.Present()
	return nil
}

// resetFrame releases the per-frame objects. Caller must hold the mutex.
func (s *Surface) resetFrame() {
	if s.encoder != nil {
		s.encoder.Release()
	}
	if s.frameView != nil {
		s.frameView.Release()
	}
	if s.frameTexture != nil {
		s.frameTexture.Release()
	}
	s.encoder, s.pass, s.frameView, s.frameTexture = nil, nil, nil, nil
}

// Clear records the clear values of the frame's render pass. WebGPU clears when the pass
// begins, so a Clear issued after the first draw of a frame has no effect.
func (s *Surface) Clear(r, g, b, a, depth float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pass != nil {
		log.Printf("[Surface] Clear after the first draw of a frame is ignored")
		return
	}
	s.clearColor = wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
	s.clearDepth = depth
}

func (s *Surface) EnableDepthTest(fn surface.DepthFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depthTest = true
	s.depthFunc = fn
}

func (s *Surface) CreateBuffer(target surface.BufferTarget, data []byte, label string) (surface.BufferHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data) == 0 {
		return 0, fmt.Errorf("wgpu_surface: buffer %q is empty", label)
	}
	usage := wgpu.BufferUsageVertex
	if target == surface.TargetIndex {
		if len(data)%2 != 0 {
			return 0, fmt.Errorf("wgpu_surface: index buffer %q has odd length %d", label, len(data))
		}
		usage = wgpu.BufferUsageIndex
	}

	// Queue writes must be a multiple of four bytes.
	padded := data
	if rem := len(data) % 4; rem != 0 {
		padded = make([]byte, len(data)+4-rem)
		copy(padded, data)
	}
	buf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(padded)),
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu_surface: create buffer %q: %w", label, err)
	}
	s.queue.WriteBuffer(buf, 0, padded)

	h := surface.BufferHandle(s.handle())
	s.buffers[h] = &buffer{target: target, buf: buf, size: uint64(len(data))}
	return h, nil
}

func (s *Surface) DeleteBuffer(h surface.BufferHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buffers[h]; ok {
		b.buf.Release()
		delete(s.buffers, h)
	}
}

func (s *Surface) CreateTexture(data common.TextureStagingData) (surface.TextureHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.uploadTexture(data, "Texture")
	if err != nil {
		return 0, err
	}
	h := surface.TextureHandle(s.handle())
	s.textures[h] = t
	return h, nil
}

// uploadTexture creates a linear RGBA8 texture. Normal maps hold vectors, not colors, so no
// sRGB conversion is applied.
func (s *Surface) uploadTexture(data common.TextureStagingData, label string) (*texture, error) {
	if !data.Valid() {
		return nil, fmt.Errorf("wgpu_surface: invalid texture staging data %dx%d with %d bytes", data.Width, data.Height, len(data.Pixels))
	}
	size := wgpu.Extent3D{Width: data.Width, Height: data.Height, DepthOrArrayLayers: 1}
	tex, err := s.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	s.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&size,
	)
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &texture{tex: tex, view: view}, nil
}

func (s *Surface) DeleteTexture(h surface.TextureHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.textures[h]
	if !ok {
		return
	}
	for _, p := range s.programs {
		p.releaseBindGroups()
	}
	t.view.Release()
	t.tex.Release()
	delete(s.textures, h)
}

func (s *Surface) CompileShader(stage surface.Stage, source string) (surface.ShaderHandle, error) {
	refl, err := reflectStage(stage, source)
	if err != nil {
		return 0, &surface.ShaderCompileError{Stage: stage, Log: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	module, err := s.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fmt.Sprintf("%s shader", stage),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return 0, &surface.ShaderCompileError{Stage: stage, Log: err.Error()}
	}
	h := surface.ShaderHandle(s.handle())
	s.shaders[h] = &shaderStage{stage: stage, module: module, refl: refl}
	return h, nil
}

func (s *Surface) DeleteShader(h surface.ShaderHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.shaders[h]
	if !ok {
		return
	}
	delete(s.shaders, h)
	st.deleted = true
	st.release()
}

// release frees the module once the stage is deleted and no program uses it.
func (st *shaderStage) release() {
	if st.deleted && st.refs == 0 && st.module != nil {
		st.module.Release()
		st.module = nil
	}
}

func (s *Surface) LinkProgram(vertex, fragment surface.ShaderHandle) (surface.ProgramHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vs, vok := s.shaders[vertex]
	fs, fok := s.shaders[fragment]
	switch {
	case !vok || !fok:
		return 0, &surface.ShaderLinkError{Log: "unknown shader handle"}
	case vs.stage != surface.StageVertex || fs.stage != surface.StageFragment:
		return 0, &surface.ShaderLinkError{Log: "stages attached in the wrong order"}
	}
	if err := checkInterface(vs.refl, fs.refl); err != nil {
		return 0, &surface.ShaderLinkError{Log: err.Error()}
	}

	p, err := s.newProgram(vs, fs)
	if err != nil {
		return 0, &surface.ShaderLinkError{Log: err.Error()}
	}
	h := surface.ProgramHandle(s.handle())
	s.programs[h] = p
	return h, nil
}

func (s *Surface) DeleteProgram(h surface.ProgramHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[h]
	if !ok {
		return
	}
	p.release()
	delete(s.programs, h)
	if s.current == h {
		s.current = 0
	}
}

func (s *Surface) AttribLocation(h surface.ProgramHandle, name string) surface.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.programs[h]; ok {
		for _, in := range p.inputs {
			if in.name == name {
				return surface.Location(in.location)
			}
		}
	}
	return surface.NoLocation
}

// UniformLocation returns the byte offset of a member of the uniform block, or a texture
// binding offset by textureLocationBase.
func (s *Surface) UniformLocation(h surface.ProgramHandle, name string) surface.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[h]
	if !ok {
		return surface.NoLocation
	}
	if f, ok := p.uniforms[name]; ok {
		return surface.Location(f.offset)
	}
	if binding, ok := p.textureBindings[name]; ok {
		return surface.Location(textureLocationBase + int(binding))
	}
	return surface.NoLocation
}

// UseProgram switches programs. Attribute bindings are scoped to the program in use, so every
// stream must be rebound after a switch.
func (s *Surface) UseProgram(h surface.ProgramHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != h {
		clear(s.bindings)
	}
	s.current = h
}

func (s *Surface) BindAttribute(loc surface.Location, b surface.BufferHandle, layout surface.AttributeLayout) {
	if !loc.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[loc] = attributeBinding{buffer: b, layout: layout}
}

// setUniform writes little-endian floats into the staged uniform block of the current program.
func (s *Surface) setUniform(loc surface.Location, values ...float32) {
	if !loc.Valid() || loc >= textureLocationBase {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[s.current]
	if !ok {
		return
	}
	off := int(loc)
	if off+4*len(values) > len(p.staging) {
		log.Printf("[Surface] uniform write at %d overruns a %d byte block", off, len(p.staging))
		return
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(p.staging[off+4*i:], math.Float32bits(v))
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

// BindTexture binds tex to a texture binding of the current program. WebGPU addresses textures
// by binding, so unit is unused.
func (s *Surface) BindTexture(loc surface.Location, unit int, tex surface.TextureHandle) {
	if loc < textureLocationBase {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.programs[s.current]; ok {
		p.bindTexture(uint32(loc-textureLocationBase), tex)
	}
}

func (s *Surface) DrawElements(prim surface.Primitive, indices surface.BufferHandle, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ib, ok := s.buffers[indices]
	if !ok || ib.target != surface.TargetIndex {
		return fmt.Errorf("wgpu_surface: %d is not an index buffer", indices)
	}
	if count < 0 || uint64(count)*2 > ib.size {
		return fmt.Errorf("wgpu_surface: draw of %d indices overruns a %d index buffer", count, ib.size/2)
	}
	pass, err := s.prepareDraw(prim)
	if err != nil {
		return err
	}
	pass.SetIndexBuffer(ib.buf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(count), 1, 0, 0, 0)
	return nil
}

func (s *Surface) DrawArrays(prim surface.Primitive, first, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if first < 0 || count < 0 {
		return fmt.Errorf("wgpu_surface: negative draw range %d+%d", first, count)
	}
	pass, err := s.prepareDraw(prim)
	if err != nil {
		return err
	}
	pass.Draw(uint32(count), 1, uint32(first), 0)
	return nil
}

// prepareDraw validates the current program's inputs, stages its uniforms into the ring and
// sets pipeline, vertex buffers and bind group on the pass. Caller must hold the mutex.
func (s *Surface) prepareDraw(prim surface.Primitive) (*wgpu.RenderPassEncoder, error) {
	if s.encoder == nil {
		return nil, fmt.Errorf("wgpu_surface: draw outside of a frame")
	}
	p, ok := s.programs[s.current]
	if !ok {
		return nil, fmt.Errorf("wgpu_surface: draw without a linked program in use")
	}

	streams := make([]*buffer, len(p.inputs))
	offsets := make([]uint64, len(p.inputs))
	for i, in := range p.inputs {
		b, ok := s.bindings[surface.Location(in.location)]
		if !ok {
			return nil, &surface.MissingAttributeError{Attribute: in.name, Reason: "no buffer bound"}
		}
		buf, ok := s.buffers[b.buffer]
		if !ok || buf.target != surface.TargetVertex {
			return nil, &surface.MissingAttributeError{Attribute: in.name, Reason: "bound handle is not a vertex buffer"}
		}
		if b.layout.Components != in.format.components {
			return nil, &surface.MissingAttributeError{
				Attribute: in.name,
				Reason:    fmt.Sprintf("bound with %d components, shader reads %d", b.layout.Components, in.format.components),
			}
		}
		if b.layout.Stride != 0 && uint64(b.layout.Stride) != in.format.size {
			return nil, &surface.MissingAttributeError{Attribute: in.name, Reason: "interleaved streams are not supported"}
		}
		streams[i] = buf
		offsets[i] = uint64(b.layout.Offset)
	}

	slot := roundUpAlign(uniformAlignment, uint64(len(s.arena)))
	if slot+p.uniformSize > s.ringSize {
		s.growRing = true
		return nil, fmt.Errorf("wgpu_surface: uniform ring full after %d draws", len(s.arena)/uniformAlignment)
	}

	rp, err := s.renderPipeline(p, pipelineKey{primitive: prim, depthTest: s.depthTest, depthFunc: s.depthFunc})
	if err != nil {
		return nil, err
	}
	bg, err := s.bindGroup(p)
	if err != nil {
		return nil, err
	}

	s.arena = append(s.arena, make([]byte, int(slot)-len(s.arena))...)
	s.arena = append(s.arena, p.staging...)

	pass := s.beginPass()
	pass.SetPipeline(rp)
	for i, buf := range streams {
		pass.SetVertexBuffer(uint32(i), buf.buf, offsets[i], wgpu.WholeSize)
	}
	pass.SetBindGroup(0, bg, []uint32{uint32(slot)})
	return pass, nil
}

// allocateRing replaces the uniform ring with one holding draws uniform slots. Bind groups
// reference the ring, so every cached bind group is dropped. Caller must hold the mutex or be
// constructing the surface.
func (s *Surface) allocateRing(draws int) error {
	size := uint64(draws) * uniformAlignment
	ring, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Uniform Ring",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	if s.ring != nil {
		s.ring.Release()
	}
	for _, p := range s.programs {
		p.releaseBindGroups()
	}
	s.ring, s.ringSize, s.maxDraws = ring, size, draws
	s.arena = make([]byte, 0, size)
	return nil
}

func (s *Surface) releaseTargets() {
	if s.msaaView != nil {
		s.msaaView.Release()
		s.msaaTexture.Release()
		s.msaaView, s.msaaTexture = nil, nil
	}
	if s.depthView != nil {
		s.depthView.Release()
		s.depthTexture.Release()
		s.depthView, s.depthTexture = nil, nil
	}
}

func (s *Surface) releaseInstance() {
	if s.device != nil {
		s.device.Release()
		s.device = nil
	}
	if s.adapter != nil {
		s.adapter.Release()
		s.adapter = nil
	}
	if s.target != nil {
		s.target.Release()
		s.target = nil
	}
	if s.instance != nil {
		s.instance.Release()
		s.instance = nil
	}
}

// Release frees every GPU object the surface still owns. The surface is unusable afterwards.
func (s *Surface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetFrame()
	for h, p := range s.programs {
		p.release()
		delete(s.programs, h)
	}
	for h, st := range s.shaders {
		st.deleted = true
		st.release()
		delete(s.shaders, h)
	}
	for h, b := range s.buffers {
		b.buf.Release()
		delete(s.buffers, h)
	}
	for h, t := range s.textures {
		t.view.Release()
		t.tex.Release()
		delete(s.textures, h)
	}
	if s.flatTexture != nil {
		s.flatTexture.view.Release()
		s.flatTexture.tex.Release()
		s.flatTexture = nil
	}
	if s.sampler != nil {
		s.sampler.Release()
		s.sampler = nil
	}
	if s.ring != nil {
		s.ring.Release()
		s.ring = nil
	}
	s.releaseTargets()
	s.releaseInstance()
}

// Package surface defines the minimum immediate-mode graphics capability set the renderer
// draws through. Concrete surfaces live in sub-packages: recorder (in-memory, used by tests
// and headless runs), wgpu_surface (desktop WebGPU) and webgl_surface (js/wasm).
package surface

import (
	"github.com/Carmen-Shannon/oxy-raw/common"
)

// Language identifies the shading language a Surface compiles.
type Language int

const (
	// LanguageGLSL is GLSL ES 1.00 as accepted by WebGL.
	LanguageGLSL Language = iota

	// LanguageWGSL is the WebGPU shading language.
	LanguageWGSL
)

func (l Language) String() string {
	switch l {
	case LanguageGLSL:
		return "glsl"
	case LanguageWGSL:
		return "wgsl"
	default:
		return "unknown"
	}
}

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	// StageVertex is the per-vertex stage.
	StageVertex Stage = iota

	// StageFragment is the per-fragment stage.
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Primitive is the topology of a draw call.
type Primitive int

const (
	// PrimitiveTriangles draws a triangle list.
	PrimitiveTriangles Primitive = iota

	// PrimitivePoints draws a point list.
	PrimitivePoints
)

func (p Primitive) String() string {
	switch p {
	case PrimitiveTriangles:
		return "triangles"
	case PrimitivePoints:
		return "points"
	default:
		return "unknown"
	}
}

// DepthFunc is the depth comparison used when depth testing is enabled.
type DepthFunc int

const (
	// DepthLess passes fragments strictly closer than the stored depth.
	DepthLess DepthFunc = iota

	// DepthLessEqual passes fragments closer than or equal to the stored depth.
	DepthLessEqual
)

// ElementType is the scalar type of an attribute component.
type ElementType int

const (
	// ElementFloat32 is a 32-bit IEEE float.
	ElementFloat32 ElementType = iota
)

// Size returns the byte size of a single element of this type.
func (e ElementType) Size() int {
	switch e {
	case ElementFloat32:
		return 4
	default:
		return 0
	}
}

// BufferTarget selects what a buffer will be bound as.
type BufferTarget int

const (
	// TargetVertex is a per-vertex attribute buffer.
	TargetVertex BufferTarget = iota

	// TargetIndex is a uint16 element index buffer.
	TargetIndex
)

// Handles are opaque, surface-scoped identifiers. Zero is never a valid handle.
type (
	BufferHandle  uint32
	ShaderHandle  uint32
	ProgramHandle uint32
	TextureHandle uint32
)

// Location is a resolved attribute or uniform slot inside a linked program.
type Location int32

// NoLocation marks a name the program does not declare or does not use.
const NoLocation Location = -1

// Valid reports whether the location refers to a real slot.
func (l Location) Valid() bool {
	return l >= 0
}

// AttributeLayout describes how a vertex buffer feeds one attribute.
// Stride 0 means tightly packed.
type AttributeLayout struct {
	Components int
	Type       ElementType
	Normalized bool
	Stride     int
	Offset     int
}

// Surface is an immediate-mode drawing surface. All methods are called from the frame loop
// goroutine; implementations are not required to be safe for concurrent use except for the
// Viewport, which resize events may update from elsewhere.
type Surface interface {
	// Language returns the shading language CompileShader accepts.
	Language() Language

	// Viewport returns the surface's live viewport. Callers read it fresh every frame.
	Viewport() *Viewport

	// BeginFrame prepares the surface for a new frame (acquire swapchain image, reconfigure on resize).
	//
	// Returns:
	//   - error: an error if the frame cannot be started; the frame should be skipped
	BeginFrame() error

	// EndFrame submits all work recorded since BeginFrame and presents it.
	//
	// Returns:
	//   - error: an error if submission failed
	EndFrame() error

	// Clear clears the color target to the given color and the depth target to depth.
	Clear(r, g, b, a, depth float32)

	// EnableDepthTest turns on depth testing with the given comparison.
	EnableDepthTest(fn DepthFunc)

	// CreateBuffer uploads data into a new immutable GPU buffer.
	//
	// Parameters:
	//   - target: whether the buffer holds vertex attributes or uint16 indices
	//   - data: the raw bytes to upload
	//   - label: a debug label
	//
	// Returns:
	//   - BufferHandle: the new buffer
	//   - error: an error if allocation fails
	CreateBuffer(target BufferTarget, data []byte, label string) (BufferHandle, error)

	// DeleteBuffer frees a buffer. Unknown handles are ignored.
	DeleteBuffer(h BufferHandle)

	// CreateTexture uploads an RGBA8 image into a new sampled 2D texture.
	//
	// Returns:
	//   - TextureHandle: the new texture
	//   - error: an error if the staging data is invalid or allocation fails
	CreateTexture(data common.TextureStagingData) (TextureHandle, error)

	// DeleteTexture frees a texture. Unknown handles are ignored.
	DeleteTexture(h TextureHandle)

	// CompileShader compiles a single stage.
	//
	// Returns:
	//   - ShaderHandle: the compiled stage
	//   - error: a *ShaderCompileError carrying the compiler diagnostic on rejection
	CompileShader(stage Stage, source string) (ShaderHandle, error)

	// DeleteShader frees a compiled stage. Linked programs keep working.
	DeleteShader(h ShaderHandle)

	// LinkProgram links a vertex and a fragment stage.
	//
	// Returns:
	//   - ProgramHandle: the linked program
	//   - error: a *ShaderLinkError carrying the linker diagnostic on failure
	LinkProgram(vertex, fragment ShaderHandle) (ProgramHandle, error)

	// DeleteProgram frees a linked program. Unknown handles are ignored.
	DeleteProgram(h ProgramHandle)

	// AttribLocation resolves a vertex attribute by name, or NoLocation.
	AttribLocation(p ProgramHandle, name string) Location

	// UniformLocation resolves a uniform by name, or NoLocation.
	UniformLocation(p ProgramHandle, name string) Location

	// UseProgram makes p the target of subsequent Bind*/Uniform*/Draw* calls.
	UseProgram(p ProgramHandle)

	// BindAttribute feeds the attribute at loc from buffer b.
	BindAttribute(loc Location, b BufferHandle, layout AttributeLayout)

	// UniformMatrix4 sets a column-major mat4 uniform.
	UniformMatrix4(loc Location, m *[16]float32)

	// Uniform1f sets a float uniform.
	Uniform1f(loc Location, v float32)

	// Uniform3f sets a vec3 uniform.
	Uniform3f(loc Location, x, y, z float32)

	// Uniform4f sets a vec4 uniform.
	Uniform4f(loc Location, x, y, z, w float32)

	// BindTexture binds tex to the sampler uniform at loc using texture unit unit.
	BindTexture(loc Location, unit int, tex TextureHandle)

	// DrawElements draws count uint16 indices from the index buffer.
	//
	// Returns:
	//   - error: an error if the current program or its inputs are incomplete
	DrawElements(p Primitive, indices BufferHandle, count int) error

	// DrawArrays draws count vertices starting at first without an index buffer.
	//
	// Returns:
	//   - error: an error if the current program or its inputs are incomplete
	DrawArrays(p Primitive, first, count int) error
}

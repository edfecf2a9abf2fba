package shader

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// Config describes one program permutation.
type Config struct {
	// Key is a unique label used in diagnostics and pipeline lookups.
	Key string

	// Kind selects the mesh or the particle program family.
	Kind Kind

	// Capabilities are the lighting terms composed into a KindMesh program.
	Capabilities Capability
}

// program is the implementation of the Program interface.
type program struct {
	surface   surface.Surface
	handle    surface.ProgramHandle
	config    Config
	locations LocationTable
	released  bool
}

// Program is a linked GPU program plus its resolved location table. Programs are created once
// at scene setup and are read-only for the lifetime of the scene.
type Program interface {
	// Key returns the config key the program was built from.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Handle returns the surface handle of the linked program.
	//
	// Returns:
	//   - surface.ProgramHandle: the handle
	Handle() surface.ProgramHandle

	// Config returns the permutation the program was built from.
	//
	// Returns:
	//   - Config: the config
	Config() Config

	// Locations returns the resolved attribute and uniform locations.
	//
	// Returns:
	//   - *LocationTable: the location table, never nil
	Locations() *LocationTable

	// Release deletes the program from its surface. Subsequent calls are no-ops.
	Release()
}

var _ Program = &program{}

// CompileShader compiles one stage on s.
//
// Parameters:
//   - s: the surface to compile on
//   - stage: the pipeline stage
//   - source: the stage source in s.Language()
//
// Returns:
//   - surface.ShaderHandle: the compiled stage
//   - error: a *surface.ShaderCompileError carrying the compiler diagnostic
func CompileShader(s surface.Surface, stage surface.Stage, source string) (surface.ShaderHandle, error) {
	h, err := s.CompileShader(stage, source)
	if err != nil {
		var ce *surface.ShaderCompileError
		if errors.As(err, &ce) {
			return 0, err
		}
		return 0, &surface.ShaderCompileError{Stage: stage, Log: err.Error()}
	}
	return h, nil
}

// LinkProgram links two compiled stages on s.
//
// Parameters:
//   - s: the surface the stages were compiled on
//   - vertex: the vertex stage
//   - fragment: the fragment stage
//
// Returns:
//   - surface.ProgramHandle: the linked program
//   - error: a *surface.ShaderLinkError carrying the linker diagnostic
func LinkProgram(s surface.Surface, vertex, fragment surface.ShaderHandle) (surface.ProgramHandle, error) {
	h, err := s.LinkProgram(vertex, fragment)
	if err != nil {
		var le *surface.ShaderLinkError
		if errors.As(err, &le) {
			return 0, err
		}
		return 0, &surface.ShaderLinkError{Log: err.Error()}
	}
	return h, nil
}

// ResolveLocations looks up every attribute and uniform role by name. Names the program does
// not declare, or that the compiler optimized away, stay at surface.NoLocation; this is not
// an error since optional inputs are looked up unconditionally.
//
// Parameters:
//   - s: the surface the program was linked on
//   - p: the linked program
//
// Returns:
//   - LocationTable: the resolved table
func ResolveLocations(s surface.Surface, p surface.ProgramHandle) LocationTable {
	t := NewLocationTable()
	for _, r := range Roles() {
		t.setAttribute(r, s.AttribLocation(p, r.AttributeName()))
	}
	for _, u := range UniformRoles() {
		t.setUniform(u, s.UniformLocation(p, u.UniformName()))
	}
	return t
}

// Build renders, compiles and links a program permutation for s and resolves its locations.
// On any failure the diagnostic is logged and nil is returned; callers skip draws for a nil
// program instead of aborting the scene.
//
// Parameters:
//   - s: the surface to build on
//   - cfg: the permutation to build
//
// Returns:
//   - Program: the linked program, or nil on failure
func Build(s surface.Surface, cfg Config) Program {
	p, err := build(s, cfg)
	if err != nil {
		log.Printf("[Shader] %s: %v", cfg.Key, err)
		return nil
	}
	return p
}

func build(s surface.Surface, cfg Config) (*program, error) {
	if s == nil {
		panic("shader: cannot build a program without a surface")
	}
	vsSrc, fsSrc, err := Source(s.Language(), cfg.Kind, cfg.Capabilities)
	if err != nil {
		return nil, err
	}

	vs, err := CompileShader(s, surface.StageVertex, vsSrc)
	if err != nil {
		return nil, err
	}
	defer s.DeleteShader(vs)

	fs, err := CompileShader(s, surface.StageFragment, fsSrc)
	if err != nil {
		return nil, err
	}
	defer s.DeleteShader(fs)

	h, err := LinkProgram(s, vs, fs)
	if err != nil {
		return nil, err
	}

	p := &program{
		surface:   s,
		handle:    h,
		config:    cfg,
		locations: ResolveLocations(s, h),
	}
	if !p.locations.Has(p.requiredRole()) {
		s.DeleteProgram(h)
		return nil, fmt.Errorf("linked program does not expose %s", p.requiredRole())
	}
	return p, nil
}

// requiredRole is the one input every program of a family must consume.
func (p *program) requiredRole() Role {
	if p.config.Kind == KindParticles {
		return RoleParticlePosition
	}
	return RolePosition
}

func (p *program) Key() string {
	return p.config.Key
}

func (p *program) Handle() surface.ProgramHandle {
	return p.handle
}

func (p *program) Config() Config {
	return p.config
}

func (p *program) Locations() *LocationTable {
	return &p.locations
}

func (p *program) Release() {
	if p.released {
		return
	}
	p.released = true
	p.surface.DeleteProgram(p.handle)
}

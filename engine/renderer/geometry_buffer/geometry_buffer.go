// Package geometry_buffer uploads generated geometry into immutable GPU buffers and records
// one binding descriptor per attribute stream.
package geometry_buffer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// AttributeBinding describes how one GPU buffer feeds one shader input.
type AttributeBinding struct {
	Buffer     surface.BufferHandle
	Components int
	Type       surface.ElementType
	Normalized bool
	Stride     int
	Offset     int
}

// Validate checks the component count and, for a non-zero stride, that one element fits in it.
//
// Returns:
//   - error: a descriptive error, or nil
func (b AttributeBinding) Validate() error {
	if b.Components < 1 || b.Components > 4 {
		return fmt.Errorf("geometry_buffer: component count %d outside [1,4]", b.Components)
	}
	if b.Stride != 0 && b.Components*b.Type.Size() > b.Stride {
		return fmt.Errorf("geometry_buffer: %d components of %d bytes exceed stride %d", b.Components, b.Type.Size(), b.Stride)
	}
	if b.Offset < 0 {
		return fmt.Errorf("geometry_buffer: negative offset %d", b.Offset)
	}
	return nil
}

// Layout returns the binding as the surface consumes it.
func (b AttributeBinding) Layout() surface.AttributeLayout {
	return surface.AttributeLayout{
		Components: b.Components,
		Type:       b.Type,
		Normalized: b.Normalized,
		Stride:     b.Stride,
		Offset:     b.Offset,
	}
}

// meshRoles maps geometry streams to the shader roles that consume them.
var meshRoles = map[geometry.Attribute]shader.Role{
	geometry.AttributePosition:  shader.RolePosition,
	geometry.AttributeNormal:    shader.RoleNormal,
	geometry.AttributeTangent:   shader.RoleTangent,
	geometry.AttributeBitangent: shader.RoleBitangent,
	geometry.AttributeColor:     shader.RoleColor,
	geometry.AttributeUV:        shader.RoleUV,
	geometry.AttributeRoughness: shader.RoleRoughness,
}

// GeometryBuffer is the GPU-resident form of a Geometry or ParticleCloud. It is shared, not
// owned, by the entities that draw it.
type GeometryBuffer struct {
	surface     surface.Surface
	label       string
	bindings    map[shader.Role]AttributeBinding
	index       surface.BufferHandle
	indexCount  int
	vertexCount int
}

// Upload creates one static buffer per non-empty attribute stream plus one index buffer.
//
// Parameters:
//   - s: the surface to allocate on
//   - g: the geometry to upload, validated first
//   - label: a debug label prefix
//
// Returns:
//   - *GeometryBuffer: the uploaded buffers and their bindings
//   - error: a validation or allocation error; nothing stays allocated on failure
func Upload(s surface.Surface, g *geometry.Geometry, label string) (*GeometryBuffer, error) {
	if g == nil {
		return nil, errors.New("geometry_buffer: nil geometry")
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("geometry_buffer: %s: %w", label, err)
	}
	if len(g.Indices) == 0 {
		return nil, fmt.Errorf("geometry_buffer: %s has no indices", label)
	}

	gb := newGeometryBuffer(s, label, g.VertexCount())
	for _, a := range geometry.Attributes() {
		data := g.Stream(a)
		if len(data) == 0 {
			continue
		}
		if err := gb.uploadStream(meshRoles[a], a.Components(), data); err != nil {
			gb.Release()
			return nil, err
		}
	}

	h, err := s.CreateBuffer(surface.TargetIndex, common.SliceToBytes(g.Indices), label+".indices")
	if err != nil {
		gb.Release()
		return nil, fmt.Errorf("geometry_buffer: %s indices: %w", label, err)
	}
	gb.index = h
	gb.indexCount = len(g.Indices)
	return gb, nil
}

// UploadParticles uploads a point cloud as two unindexed streams.
//
// Parameters:
//   - s: the surface to allocate on
//   - p: the cloud to upload
//   - label: a debug label prefix
//
// Returns:
//   - *GeometryBuffer: the uploaded buffers, with no index buffer
//   - error: an allocation error
func UploadParticles(s surface.Surface, p *geometry.ParticleCloud, label string) (*GeometryBuffer, error) {
	if p == nil {
		return nil, errors.New("geometry_buffer: nil particle cloud")
	}
	if len(p.Colors) != len(p.Positions) {
		return nil, fmt.Errorf("geometry_buffer: %s has %d position and %d color floats", label, len(p.Positions), len(p.Colors))
	}
	gb := newGeometryBuffer(s, label, p.Count())
	if p.Count() == 0 {
		return gb, nil
	}
	if err := gb.uploadStream(shader.RoleParticlePosition, 3, p.Positions); err != nil {
		gb.Release()
		return nil, err
	}
	if err := gb.uploadStream(shader.RoleParticleColor, 3, p.Colors); err != nil {
		gb.Release()
		return nil, err
	}
	return gb, nil
}

func newGeometryBuffer(s surface.Surface, label string, vertices int) *GeometryBuffer {
	if s == nil {
		panic("geometry_buffer: cannot upload without a surface")
	}
	return &GeometryBuffer{
		surface:     s,
		label:       label,
		bindings:    make(map[shader.Role]AttributeBinding),
		vertexCount: vertices,
	}
}

func (gb *GeometryBuffer) uploadStream(role shader.Role, components int, data []float32) error {
	binding := AttributeBinding{
		Components: components,
		Type:       surface.ElementFloat32,
	}
	if err := binding.Validate(); err != nil {
		return err
	}
	h, err := gb.surface.CreateBuffer(surface.TargetVertex, common.SliceToBytes(data), gb.label+"."+role.AttributeName())
	if err != nil {
		return fmt.Errorf("geometry_buffer: %s %s: %w", gb.label, role, err)
	}
	binding.Buffer = h
	gb.bindings[role] = binding
	return nil
}

// Label returns the debug label.
func (gb *GeometryBuffer) Label() string {
	return gb.label
}

// Binding returns the binding for role and whether the geometry carries that stream.
func (gb *GeometryBuffer) Binding(role shader.Role) (AttributeBinding, bool) {
	b, ok := gb.bindings[role]
	return b, ok
}

// Has reports whether the geometry carries a stream for role.
func (gb *GeometryBuffer) Has(role shader.Role) bool {
	_, ok := gb.bindings[role]
	return ok
}

// Roles returns the uploaded roles in declaration order.
func (gb *GeometryBuffer) Roles() []shader.Role {
	var out []shader.Role
	for _, r := range shader.Roles() {
		if gb.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Indexed reports whether the geometry has an index buffer.
func (gb *GeometryBuffer) Indexed() bool {
	return gb.index != 0
}

// IndexBuffer returns the index buffer handle, or 0 for unindexed geometry.
func (gb *GeometryBuffer) IndexBuffer() surface.BufferHandle {
	return gb.index
}

// IndexCount returns the number of indices, 3 × TriangleCount.
func (gb *GeometryBuffer) IndexCount() int {
	return gb.indexCount
}

// TriangleCount returns the number of indexed triangles.
func (gb *GeometryBuffer) TriangleCount() int {
	return gb.indexCount / 3
}

// VertexCount returns the number of vertices in every stream.
func (gb *GeometryBuffer) VertexCount() int {
	return gb.vertexCount
}

// Release deletes every buffer. The GeometryBuffer must not be drawn afterwards.
func (gb *GeometryBuffer) Release() {
	for role, b := range gb.bindings {
		gb.surface.DeleteBuffer(b.Buffer)
		delete(gb.bindings, role)
	}
	if gb.index != 0 {
		gb.surface.DeleteBuffer(gb.index)
		gb.index = 0
		gb.indexCount = 0
	}
}

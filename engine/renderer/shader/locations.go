package shader

import (
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// LocationTable maps every Role and UniformRole to its resolved location in one program.
// Unresolved entries hold surface.NoLocation, so support for a role is a presence check.
type LocationTable struct {
	attributes [roleCount]surface.Location
	uniforms   [uniformRoleCount]surface.Location
}

// NewLocationTable returns a table with every entry unresolved.
func NewLocationTable() LocationTable {
	var t LocationTable
	for i := range t.attributes {
		t.attributes[i] = surface.NoLocation
	}
	for i := range t.uniforms {
		t.uniforms[i] = surface.NoLocation
	}
	return t
}

// Attribute returns the location of r and whether the program declares it.
func (t *LocationTable) Attribute(r Role) (surface.Location, bool) {
	if r < 0 || r >= roleCount {
		return surface.NoLocation, false
	}
	loc := t.attributes[r]
	return loc, loc.Valid()
}

// Uniform returns the location of u and whether the program declares it.
func (t *LocationTable) Uniform(u UniformRole) (surface.Location, bool) {
	if u < 0 || u >= uniformRoleCount {
		return surface.NoLocation, false
	}
	loc := t.uniforms[u]
	return loc, loc.Valid()
}

// Has reports whether the program declares the attribute role r.
func (t *LocationTable) Has(r Role) bool {
	_, ok := t.Attribute(r)
	return ok
}

// HasUniform reports whether the program declares the uniform role u.
func (t *LocationTable) HasUniform(u UniformRole) bool {
	_, ok := t.Uniform(u)
	return ok
}

// AttributeRoles returns the declared attribute roles in declaration order.
func (t *LocationTable) AttributeRoles() []Role {
	var out []Role
	for _, r := range Roles() {
		if t.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (t *LocationTable) setAttribute(r Role, loc surface.Location) {
	t.attributes[r] = loc
}

func (t *LocationTable) setUniform(u UniformRole, loc surface.Location) {
	t.uniforms[u] = loc
}

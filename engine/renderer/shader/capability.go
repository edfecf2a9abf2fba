package shader

import (
	"fmt"
	"strings"
)

// Capability is an independently toggleable lighting term composed into a mesh program.
type Capability uint32

const (
	// CapAmbient adds a constant ambient term.
	CapAmbient Capability = 1 << iota

	// CapDiffuse adds a Lambertian term from one directional light.
	CapDiffuse

	// CapSpecular adds a Phong specular term from the same light.
	CapSpecular

	// CapNormalMap perturbs the normal with a tangent-space bump map.
	CapNormalMap

	// CapVertexColor multiplies the base color by a per-vertex color stream.
	CapVertexColor

	// CapRoughness scales the specular exponent by a per-vertex roughness stream.
	CapRoughness

	capabilityEnd
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapAmbient, "ambient"},
	{CapDiffuse, "diffuse"},
	{CapSpecular, "specular"},
	{CapNormalMap, "normal_map"},
	{CapVertexColor, "vertex_color"},
	{CapRoughness, "roughness"},
}

// Presets selectable at runtime, in the order the demo revisions introduced them.
const (
	PresetFlat     = CapVertexColor
	PresetLambert  = CapAmbient | CapDiffuse
	PresetPhong    = CapAmbient | CapDiffuse | CapSpecular | CapRoughness
	PresetBumpMap  = CapAmbient | CapDiffuse | CapSpecular | CapNormalMap
	PresetAllTerms = capabilityEnd - 1
)

// Presets returns the runtime-selectable capability sets in order.
func Presets() []Capability {
	return []Capability{PresetFlat, PresetLambert, PresetPhong, PresetBumpMap}
}

// Has reports whether every bit of o is set in c.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// Lit reports whether any term needs a surface normal.
func (c Capability) Lit() bool {
	return c&(CapDiffuse|CapSpecular|CapNormalMap) != 0
}

func (c Capability) String() string {
	if c == 0 {
		return "unlit"
	}
	var parts []string
	for _, n := range capabilityNames {
		if c.Has(n.cap) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseCapabilities combines capability names (as printed by String) into one set.
//
// Parameters:
//   - names: capability names such as "diffuse" or "normal_map"
//
// Returns:
//   - Capability: the combined set
//   - error: an error naming the first unknown capability
func ParseCapabilities(names []string) (Capability, error) {
	var c Capability
outer:
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		for _, n := range capabilityNames {
			if n.name == name {
				c |= n.cap
				continue outer
			}
		}
		return 0, fmt.Errorf("shader: unknown capability %q", raw)
	}
	return c, nil
}

// Names returns the capability names set in c, the inverse of ParseCapabilities.
func (c Capability) Names() []string {
	var out []string
	for _, n := range capabilityNames {
		if c.Has(n.cap) {
			out = append(out, n.name)
		}
	}
	return out
}

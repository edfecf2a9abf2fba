package wgpu_surface

import (
	"strconv"
	"strings"
)

// wgslPrimitiveLayoutMap maps WGSL scalar, vector and matrix types to their size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},

	"vec2<u32>": {8, 8},
	"vec3<u32>": {12, 16},
	"vec4<u32>": {16, 16},

	// matCxR<f32>: C columns of vecR<f32>
	"mat3x3<f32>": {48, 16},
	"mat3x3f":     {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

// roundUpAlign rounds value up to the next multiple of a power-of-two alignment.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout resolves a WGSL type to its size and alignment using primitives, already
// computed structs and fixed-size arrays.
//
// Parameters:
//   - typeName: the WGSL type name, e.g. "f32", "Uniforms", "array<vec4<f32>, 4>"
//   - knownTypes: already-resolved struct layouts
//
// Returns:
//   - wgslTypeLayout: the resolved layout
//   - bool: false for runtime-sized arrays and unknown types
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}

	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		parts := strings.SplitN(typeName[6:len(typeName)-1], ",", 2)
		if len(parts) != 2 {
			return wgslTypeLayout{}, false
		}
		elemLayout, ok := resolveTypeLayout(strings.TrimSpace(parts[0]), knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return wgslTypeLayout{}, false
		}
		stride := roundUpAlign(elemLayout.align, elemLayout.size)
		return wgslTypeLayout{count * stride, elemLayout.align}, true
	}
	return wgslTypeLayout{}, false
}

// structFieldOffsets places each field at the next offset aligned for its type. Builtin fields
// are not part of a buffer layout and are skipped.
//
// Returns:
//   - map[string]uniformField: byte range per field name
//   - bool: false if any field type cannot be resolved
func structFieldOffsets(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (map[string]uniformField, bool) {
	out := make(map[string]uniformField, len(ps.fields))
	offset := uint64(0)
	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		layout, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return nil, false
		}
		offset = roundUpAlign(layout.align, offset)
		out[field.name] = uniformField{offset: offset, size: layout.size}
		offset += layout.size
	}
	return out, true
}

// computeStructLayout computes the size and alignment of a struct: the end of its last field
// rounded up to the largest field alignment.
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)
	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		layout, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(layout.align, offset) + layout.size
		maxAlign = max(maxAlign, layout.align)
	}
	return wgslTypeLayout{roundUpAlign(maxAlign, offset), maxAlign}, true
}

// computeStructSizes resolves every struct layout, iterating until structs that nest other
// structs have been resolved too.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	remaining := append([]parsedStruct(nil), structs...)

	for len(remaining) > 0 {
		progress := false
		next := remaining[:0]
		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
				progress = true
			} else {
				next = append(next, ps)
			}
		}
		remaining = next
		if !progress {
			break
		}
	}
	return resolved
}

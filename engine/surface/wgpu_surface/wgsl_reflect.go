package wgpu_surface

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps the float WGSL types a vertex stream can feed to a wgpu format.
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4, 1},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8, 2},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8, 2},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12, 3},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12, 3},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16, 4},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16, 4},
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field: optional attributes, name, colon, type
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex captures the @vertex entry point name and its input type
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\s+fn\s+(\w+)\s*\(\s*(?:\w+\s*:\s*(\w+))?`)

	// fragmentEntryRegex captures the @fragment entry point name and its input type
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\s+fn\s+(\w+)\s*\(\s*(?:\w+\s*:\s*(\w+))?`)

	// vertexReturnRegex captures the struct a @vertex entry point returns
	vertexReturnRegex = regexp.MustCompile(`(?s)@vertex\s+fn\s+\w+\s*\([^)]*\)\s*->\s*(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name and type
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// reflectStage extracts the entry point, uniform block, vertex inputs, inter-stage varyings and
// resource bindings of one stage. Errors are reported as the compiler would, so the caller can
// wrap them in a *surface.ShaderCompileError.
//
// Parameters:
//   - stage: the stage the source is compiled for
//   - source: the WGSL source
//
// Returns:
//   - *reflection: the reflected interface of the stage
//   - error: an error if the stage has no entry point or uses an unsupported layout
func reflectStage(stage surface.Stage, source string) (*reflection, error) {
	cleaned := stripComments(source)
	structs := parseStructBlocks(cleaned)
	byName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		byName[ps.name] = ps
	}
	layouts := computeStructSizes(structs)

	r := &reflection{
		uniforms: make(map[string]uniformField),
		varyings: make(map[int]string),
	}

	var inputType, outputType string
	switch stage {
	case surface.StageVertex:
		m := vertexEntryRegex.FindStringSubmatch(cleaned)
		if m == nil {
			return nil, fmt.Errorf("error: no @vertex entry point")
		}
		r.entryPoint, inputType = m[1], m[2]
		if rm := vertexReturnRegex.FindStringSubmatch(cleaned); rm != nil {
			outputType = rm[1]
		}
	case surface.StageFragment:
		m := fragmentEntryRegex.FindStringSubmatch(cleaned)
		if m == nil {
			return nil, fmt.Errorf("error: no @fragment entry point")
		}
		r.entryPoint, inputType = m[1], m[2]
	default:
		return nil, fmt.Errorf("error: unsupported stage %s", stage)
	}

	if stage == surface.StageVertex && inputType != "" {
		ps, ok := byName[inputType]
		if !ok {
			return nil, fmt.Errorf("error: unresolved vertex input type %s", inputType)
		}
		inputs, err := vertexInputs(ps)
		if err != nil {
			return nil, err
		}
		r.inputs = inputs
	}

	// The vertex stage writes the varyings it returns; the fragment stage reads the ones it takes.
	varyingType := outputType
	if stage == surface.StageFragment {
		varyingType = inputType
	}
	if ps, ok := byName[varyingType]; ok {
		for _, f := range ps.fields {
			if !f.isBuiltin && f.location >= 0 {
				r.varyings[f.location] = f.typeName
			}
		}
	}

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		name := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])
		if group != 0 {
			return nil, fmt.Errorf("error: %s uses bind group %d, only group 0 is supported", name, group)
		}

		entry := classifyResource(uint32(binding), addressSpace, typeName)
		if entry.Buffer.Type == wgpu.BufferBindingTypeUniform {
			ps, ok := byName[typeName]
			if !ok {
				return nil, fmt.Errorf("error: uniform %s has non-struct type %s", name, typeName)
			}
			offsets, ok := structFieldOffsets(ps, layouts)
			if !ok {
				return nil, fmt.Errorf("error: cannot lay out uniform struct %s", typeName)
			}
			r.uniformStruct = typeName
			r.uniformSize = layouts[typeName].size
			r.uniforms = offsets
			entry.Buffer.HasDynamicOffset = true
			entry.Buffer.MinBindingSize = r.uniformSize
		}
		r.resources = append(r.resources, resourceBinding{binding: uint32(binding), name: name, entry: entry})
	}
	sort.Slice(r.resources, func(i, j int) bool {
		return r.resources[i].binding < r.resources[j].binding
	})
	return r, nil
}

// vertexInputs converts a vertex input struct into sorted attribute inputs.
func vertexInputs(ps parsedStruct) ([]vertexInput, error) {
	out := make([]vertexInput, 0, len(ps.fields))
	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		if f.location < 0 {
			return nil, fmt.Errorf("error: vertex input %s has no @location", f.name)
		}
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return nil, fmt.Errorf("error: vertex input %s has unsupported type %s", f.name, f.typeName)
		}
		out = append(out, vertexInput{name: f.name, location: uint32(f.location), format: info})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].location < out[j].location
	})
	return out, nil
}

// checkInterface validates that every varying the fragment stage reads is written by the
// vertex stage with the same type.
//
// Returns:
//   - error: a description of the first mismatch, or nil
func checkInterface(vs, fs *reflection) error {
	locs := make([]int, 0, len(fs.varyings))
	for loc := range fs.varyings {
		locs = append(locs, loc)
	}
	sort.Ints(locs)
	for _, loc := range locs {
		want := fs.varyings[loc]
		got, ok := vs.varyings[loc]
		if !ok {
			return fmt.Errorf("fragment input @location(%d) is not written by the vertex stage", loc)
		}
		if got != want {
			return fmt.Errorf("@location(%d) is %s in the vertex stage and %s in the fragment stage", loc, got, want)
		}
	}
	if vs.uniformStruct != "" && fs.uniformStruct != "" && vs.uniformSize != fs.uniformSize {
		return fmt.Errorf("uniform block is %d bytes in the vertex stage and %d in the fragment stage", vs.uniformSize, fs.uniformSize)
	}
	return nil
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

// parseStructFields parses the body of a struct block into fields, extracting @location and
// @builtin attributes along with the field name and type.
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{location: -1}
		if builtinRegex.MatchString(line) {
			field.isBuiltin = true
		}
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}
	return fields
}

// classifyResource builds the layout entry of one resource declaration. Every entry is visible
// to both stages so the two stages can share one bind group layout.
func classifyResource(binding uint32, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}

	if addressSpace != "" {
		if addressSpace == "uniform" {
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		} else if strings.HasPrefix(addressSpace, "storage") {
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}
		return entry
	}

	switch {
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_2d"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	}
	return entry
}

// stripComments removes single-line and (nested) block comments from WGSL source.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i++
				continue
			}
			if source[i] == '*' && source[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// splitAtTopLevelCommas splits a string at commas that are not nested inside angle brackets,
// so array<T, N> stays one field.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

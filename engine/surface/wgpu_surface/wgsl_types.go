package wgpu_surface

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format, its byte size and its float component count.
type vertexFormatInfo struct {
	format     wgpu.VertexFormat
	size       uint64
	components int
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is a single field of a WGSL struct.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// uniformField is one member of the uniform block with its resolved byte range.
type uniformField struct {
	offset uint64
	size   uint64
}

// vertexInput is one @location input of the vertex entry point.
type vertexInput struct {
	name     string
	location uint32
	format   vertexFormatInfo
}

// resourceBinding is one @group(0) @binding(N) declaration.
type resourceBinding struct {
	binding uint32
	name    string
	entry   wgpu.BindGroupLayoutEntry
}

// reflection is everything the surface needs to know about a compiled stage.
type reflection struct {
	entryPoint string

	// uniformStruct is the type bound at @binding(0) and uniforms its members.
	uniformStruct string
	uniformSize   uint64
	uniforms      map[string]uniformField

	// inputs are sorted by location.
	inputs []vertexInput

	// varyings maps inter-stage @location to its WGSL type.
	varyings map[int]string

	resources []resourceBinding
}

//go:build js && wasm

package webgl_surface

import "syscall/js"

type glConsts struct {
	arrayBuffer        int
	elementArrayBuffer int
	staticDraw         int
	floatType          int
	unsignedShort      int
	unsignedByte       int
	triangles          int
	points             int
	colorBufferBit     int
	depthBufferBit     int
	depthTest          int
	less               int
	lequal             int
	vertexShader       int
	fragmentShader     int
	compileStatus      int
	linkStatus         int
	activeAttributes   int
	texture2D          int
	texture0           int
	rgba               int
	textureMinFilter   int
	textureMagFilter   int
	textureWrapS       int
	textureWrapT       int
	linear             int
	repeat             int
	clampToEdge        int
}

func loadConsts(gl js.Value) glConsts {
	return glConsts{
		arrayBuffer:        gl.Get("ARRAY_BUFFER").Int(),
		elementArrayBuffer: gl.Get("ELEMENT_ARRAY_BUFFER").Int(),
		staticDraw:         gl.Get("STATIC_DRAW").Int(),
		floatType:          gl.Get("FLOAT").Int(),
		unsignedShort:      gl.Get("UNSIGNED_SHORT").Int(),
		unsignedByte:       gl.Get("UNSIGNED_BYTE").Int(),
		triangles:          gl.Get("TRIANGLES").Int(),
		points:             gl.Get("POINTS").Int(),
		colorBufferBit:     gl.Get("COLOR_BUFFER_BIT").Int(),
		depthBufferBit:     gl.Get("DEPTH_BUFFER_BIT").Int(),
		depthTest:          gl.Get("DEPTH_TEST").Int(),
		less:               gl.Get("LESS").Int(),
		lequal:             gl.Get("LEQUAL").Int(),
		vertexShader:       gl.Get("VERTEX_SHADER").Int(),
		fragmentShader:     gl.Get("FRAGMENT_SHADER").Int(),
		compileStatus:      gl.Get("COMPILE_STATUS").Int(),
		linkStatus:         gl.Get("LINK_STATUS").Int(),
		activeAttributes:   gl.Get("ACTIVE_ATTRIBUTES").Int(),
		texture2D:          gl.Get("TEXTURE_2D").Int(),
		texture0:           gl.Get("TEXTURE0").Int(),
		rgba:               gl.Get("RGBA").Int(),
		textureMinFilter:   gl.Get("TEXTURE_MIN_FILTER").Int(),
		textureMagFilter:   gl.Get("TEXTURE_MAG_FILTER").Int(),
		textureWrapS:       gl.Get("TEXTURE_WRAP_S").Int(),
		textureWrapT:       gl.Get("TEXTURE_WRAP_T").Int(),
		linear:             gl.Get("LINEAR").Int(),
		repeat:             gl.Get("REPEAT").Int(),
		clampToEdge:        gl.Get("CLAMP_TO_EDGE").Int(),
	}
}

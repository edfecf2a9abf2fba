//go:build js && wasm

package webgl_surface

import (
	"syscall/js"
	"unsafe"
)

// uint8Array copies data into a fresh JS Uint8Array.
func uint8Array(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	if len(data) > 0 {
		js.CopyBytesToJS(arr, data)
	}
	return arr
}

// float32Array copies data into a fresh JS Float32Array.
func float32Array(data []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(data))
	if len(data) == 0 {
		return arr
	}
	buf := arr.Get("buffer")
	view := js.Global().Get("Uint8Array").New(buf, arr.Get("byteOffset"), arr.Get("byteLength"))
	js.CopyBytesToJS(view, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4))
	return arr
}

//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/Carmen-Shannon/oxy-raw/common"
)

// canvasEvents adapts browser events on the page to the engine's EventSource. Callbacks run
// on the browser event loop between frames.
type canvasEvents struct {
	window js.Value
	canvas js.Value

	funcs  []js.Func
	closed bool

	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(code uint32)
}

func newCanvasEvents(canvas js.Value) *canvasEvents {
	c := &canvasEvents{window: js.Global(), canvas: canvas}
	c.fitCanvas()

	c.listen(c.window, "resize", func(js.Value) {
		w, h := c.fitCanvas()
		if c.onResize != nil {
			c.onResize(w, h)
		}
	})
	c.listen(c.canvas, "wheel", func(ev js.Value) {
		ev.Call("preventDefault")
		if c.onScroll == nil {
			return
		}
		// Wheel down is a positive deltaY and zooms out.
		if dy := ev.Get("deltaY").Float(); dy > 0 {
			c.onScroll(-1)
		} else if dy < 0 {
			c.onScroll(1)
		}
	})
	c.listen(c.window, "keydown", func(ev js.Value) {
		if code, ok := keyCode(ev.Get("key").String()); ok && c.onKeyDown != nil {
			c.onKeyDown(code)
		}
	})
	c.listen(c.window, "pagehide", func(js.Value) {
		c.closed = true
	})
	return c
}

func (c *canvasEvents) listen(target js.Value, event string, fn func(ev js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	target.Call("addEventListener", event, f)
	c.funcs = append(c.funcs, f)
}

// fitCanvas sizes the canvas backing store to its CSS box.
func (c *canvasEvents) fitCanvas() (int, int) {
	w := c.canvas.Get("clientWidth").Int()
	h := c.canvas.Get("clientHeight").Int()
	if w <= 0 || h <= 0 {
		return c.canvasSize()
	}
	c.canvas.Set("width", w)
	c.canvas.Set("height", h)
	return w, h
}

func (c *canvasEvents) canvasSize() (int, int) {
	return c.canvas.Get("width").Int(), c.canvas.Get("height").Int()
}

func (c *canvasEvents) PollEvents() bool {
	return !c.closed
}

func (c *canvasEvents) SetResizeCallback(callback func(width, height int)) {
	c.onResize = callback
}

func (c *canvasEvents) SetScrollCallback(callback func(delta float32)) {
	c.onScroll = callback
}

func (c *canvasEvents) setKeyDownCallback(callback func(code uint32)) {
	c.onKeyDown = callback
}

func (c *canvasEvents) Close() error {
	c.closed = true
	for _, f := range c.funcs {
		f.Release()
	}
	c.funcs = nil
	return nil
}

// keyCode maps a KeyboardEvent.key value onto the shared key codes.
func keyCode(key string) (uint32, bool) {
	switch key {
	case "+", "=":
		return common.KeyEqual, true
	case "-", "_":
		return common.KeyMinus, true
	}
	if len(key) != 1 {
		return 0, false
	}
	ch := key[0]
	switch {
	case ch >= 'a' && ch <= 'z':
		return uint32(ch - 'a' + 'A'), true
	case ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return uint32(ch), true
	}
	return 0, false
}

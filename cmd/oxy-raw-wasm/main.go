//go:build js && wasm

// Command oxy-raw-wasm draws the default scene into the page's <canvas id="oxy"> with WebGL,
// paced by requestAnimationFrame. The query string may override shape, cubes, particles
// and caps.
package main

import (
	"context"
	"log"
	"strconv"
	"strings"
	"syscall/js"

	"github.com/Carmen-Shannon/oxy-raw/engine"
	"github.com/Carmen-Shannon/oxy-raw/engine/config"
	"github.com/Carmen-Shannon/oxy-raw/engine/controls"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface/webgl_surface"
)

const canvasID = "oxy"

// firstFrameClamp bounds the first requestAnimationFrame delta, whose timestamp is relative
// to page load.
const firstFrameClamp = 1.0 / 30

func configFromQuery(cfg config.Config) config.Config {
	q := js.Global().Get("URLSearchParams").New(js.Global().Get("location").Get("search"))
	get := func(name string) (string, bool) {
		v := q.Call("get", name)
		if v.IsNull() {
			return "", false
		}
		return v.String(), true
	}
	if v, ok := get("shape"); ok {
		cfg.Scene.Shape = v
	}
	if v, ok := get("caps"); ok {
		cfg.Scene.Capabilities = strings.Split(v, ",")
	}
	if v, ok := get("cubes"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scene.Cubes = n
		}
	}
	if v, ok := get("particles"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scene.Particles.Count = n
		}
	}
	return cfg
}

func main() {
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", canvasID)

	cfg := configFromQuery(config.Default())
	cfg.Animation.FirstFrameClamp = firstFrameClamp
	if err := cfg.Validate(); err != nil {
		log.Printf("[Main] %v, using defaults", err)
		cfg = config.Default()
		cfg.Animation.FirstFrameClamp = firstFrameClamp
	}

	events := newCanvasEvents(canvas)
	w, h := events.canvasSize()
	s, err := webgl_surface.New(canvas, webgl_surface.WithViewport(surface.NewViewport(w, h)))
	if err != nil {
		showError(doc, err)
		return
	}

	eng, err := engine.NewEngine(s,
		engine.WithConfig(cfg),
		engine.WithWindow(events),
		engine.WithScheduler(animator.NewAnimationFrameScheduler()),
	)
	if err != nil {
		s.Release()
		showError(doc, err)
		return
	}
	defer eng.Close()

	keys := controls.NewControls(eng.Params(), controls.WithSpacing(cfg.Scene.Spacing))
	events.setKeyDownCallback(func(code uint32) {
		keys.HandleKey(code)
	})

	if err := eng.Run(context.Background()); err != nil {
		showError(doc, err)
	}
}

// showError replaces the canvas area with a message when no frame can be drawn.
func showError(doc js.Value, err error) {
	log.Printf("[Main] %v", err)
	p := doc.Call("createElement", "p")
	p.Set("textContent", "Rendering unavailable: "+err.Error())
	doc.Get("body").Call("appendChild", p)
}

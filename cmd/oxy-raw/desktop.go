package main

import (
	"context"

	"github.com/Carmen-Shannon/oxy-raw/engine"
	"github.com/Carmen-Shannon/oxy-raw/engine/config"
	"github.com/Carmen-Shannon/oxy-raw/engine/controls"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface/wgpu_surface"
	"github.com/Carmen-Shannon/oxy-raw/engine/window"
)

// runDesktop opens a window and draws into it until the window closes or ctx is cancelled.
func runDesktop(ctx context.Context, cfg config.Config) error {
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}

	presentMode := wgpu_surface.PresentModeVSync
	if cfg.Window.PresentMode == "uncapped" {
		presentMode = wgpu_surface.PresentModeUncapped
	}
	w, h := win.Size()
	s, err := wgpu_surface.New(win.SurfaceDescriptor(), surface.NewViewport(w, h),
		wgpu_surface.WithPresentMode(presentMode),
		wgpu_surface.WithForceSoftware(cfg.Window.Software),
	)
	if err != nil {
		win.Close()
		return err
	}

	eng, err := engine.NewEngine(s, engine.WithConfig(cfg), engine.WithWindow(win))
	if err != nil {
		s.Release()
		win.Close()
		return err
	}
	defer eng.Close()

	keys := controls.NewControls(eng.Params(), controls.WithSpacing(cfg.Scene.Spacing))
	win.SetKeyDownCallback(func(k window.Key) {
		keys.HandleKey(uint32(k))
	})

	return eng.Run(ctx)
}

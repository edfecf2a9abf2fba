// Command oxy-raw draws the configured scene in a desktop window, or records it headlessly.
//
//	oxy-raw [-config path] [-backend wgpu|headless] [-shape sphere|cube|pyramid|polygon] ...
//
// Flags override the YAML configuration; -save writes the merged result back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/Carmen-Shannon/oxy-raw/engine/config"
)

type options struct {
	configPath string
	save       bool

	backend   string
	shape     string
	sides     int
	cubes     int
	particles int
	caps      string
	fps       int
	frames    int
	speed     float64
	width     int
	height    int
	software  bool
	uncapped  bool
	profile   bool
}

func parseFlags(args []string) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("oxy-raw", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", config.DefaultPath, "YAML configuration file")
	fs.BoolVar(&o.save, "save", false, "write the merged configuration back to -config")
	fs.StringVar(&o.backend, "backend", "", "wgpu or headless")
	fs.StringVar(&o.shape, "shape", "", "sphere, cube, pyramid or polygon")
	fs.IntVar(&o.sides, "sides", 0, "polygon side count")
	fs.IntVar(&o.cubes, "cubes", 0, "extra cubes placed beside the shape")
	fs.IntVar(&o.particles, "particles", 0, "particle count, 0 disables the particle pass")
	fs.StringVar(&o.caps, "caps", "", "comma-separated lighting terms, e.g. ambient,diffuse,specular")
	fs.IntVar(&o.fps, "fps", 0, "frame rate")
	fs.IntVar(&o.frames, "frames", 0, "headless frame count")
	fs.Float64Var(&o.speed, "speed", 0, "rotation speed")
	fs.IntVar(&o.width, "width", 0, "window width")
	fs.IntVar(&o.height, "height", 0, "window height")
	fs.BoolVar(&o.software, "software", false, "force the software adapter")
	fs.BoolVar(&o.uncapped, "uncapped", false, "present without vsync")
	fs.BoolVar(&o.profile, "profile", false, "log frame statistics once per second")
	err := fs.Parse(args)
	return o, fs, err
}

// apply copies every flag set on the command line into cfg.
func (o options) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = o.backend
		case "shape":
			cfg.Scene.Shape = o.shape
		case "sides":
			cfg.Scene.PolygonSides = o.sides
		case "cubes":
			cfg.Scene.Cubes = o.cubes
		case "particles":
			cfg.Scene.Particles.Count = o.particles
		case "caps":
			cfg.Scene.Capabilities = strings.Split(o.caps, ",")
		case "fps":
			cfg.Animation.FPS = o.fps
		case "frames":
			cfg.Animation.Frames = o.frames
		case "speed":
			cfg.Animation.RotationSpeed = o.speed
		case "width":
			cfg.Window.Width = o.width
		case "height":
			cfg.Window.Height = o.height
		case "software":
			cfg.Window.Software = o.software
		case "uncapped":
			if o.uncapped {
				cfg.Window.PresentMode = "uncapped"
			}
		case "profile":
			cfg.Profiling = o.profile
		}
	})
}

func run(args []string) error {
	o, fs, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.apply(fs, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if o.save {
		if err := config.Save(o.configPath, cfg); err != nil {
			return err
		}
		log.Printf("[Main] wrote %s", o.configPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cfg.Backend {
	case config.BackendHeadless:
		return runHeadless(ctx, cfg)
	default:
		return runDesktop(ctx, cfg)
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatalf("[Main] %v", err)
	}
}

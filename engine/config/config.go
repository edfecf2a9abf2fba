// Package config loads and saves the demo's YAML configuration. A missing file yields the
// defaults; command-line flags override individual fields after loading.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/params"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up relative to the working directory.
const DefaultPath = "config/oxy-raw.yml"

// Backend names accepted in Config.Backend.
const (
	BackendWGPU     = "wgpu"
	BackendHeadless = "headless"
)

// Shape names accepted in SceneConfig.Shape.
const (
	ShapeSphere  = "sphere"
	ShapeCube    = "cube"
	ShapePyramid = "pyramid"
	ShapePolygon = "polygon"
)

// WindowConfig sizes the desktop window and the headless viewport.
type WindowConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Title       string `yaml:"title"`
	PresentMode string `yaml:"present_mode"` // "vsync" or "uncapped"
	Software    bool   `yaml:"force_software,omitempty"`
}

// SphereConfig parameterizes the UV sphere.
type SphereConfig struct {
	LatitudeBands  int     `yaml:"latitude_bands"`
	LongitudeBands int     `yaml:"longitude_bands"`
	Radius         float32 `yaml:"radius"`
	Jitter         float32 `yaml:"jitter,omitempty"`
	Seed           int64   `yaml:"seed"`
}

// ParticleConfig parameterizes the particle cloud. Count 0 disables the particle pass.
type ParticleConfig struct {
	Count     int     `yaml:"count"`
	Seed      int64   `yaml:"seed"`
	PointSize float32 `yaml:"point_size"`
}

// BumpMapConfig parameterizes the procedural bump map used by the normal_map capability.
type BumpMapConfig struct {
	Size     int     `yaml:"size"`
	Seed     int64   `yaml:"seed"`
	Blur     float64 `yaml:"blur"`
	Strength float64 `yaml:"strength"`
}

// LightConfig describes the scene's directional light.
type LightConfig struct {
	Direction [3]float32 `yaml:"direction"`
	Color     [3]float32 `yaml:"color"`
	Ambient   [3]float32 `yaml:"ambient"`
	Intensity float32    `yaml:"intensity"`
}

// SceneConfig selects what is drawn.
type SceneConfig struct {
	Shape          string         `yaml:"shape"`
	Sphere         SphereConfig   `yaml:"sphere"`
	PolygonSides   int            `yaml:"polygon_sides"`
	Cubes          int            `yaml:"cubes"`
	Spacing        float32        `yaml:"spacing"`
	Particles      ParticleConfig `yaml:"particles"`
	BumpMap        BumpMapConfig  `yaml:"bump_map"`
	Light          LightConfig    `yaml:"light"`
	Capabilities   []string       `yaml:"capabilities"`
	CameraDistance float32        `yaml:"camera_distance"`
}

// AnimationConfig controls the frame loop.
type AnimationConfig struct {
	RotationSpeed   float64 `yaml:"rotation_speed"`
	Zoom            float32 `yaml:"zoom"`
	FPS             int     `yaml:"fps"`
	FirstFrameClamp float64 `yaml:"first_frame_clamp,omitempty"`
	Frames          int     `yaml:"frames"` // headless frame count; 0 runs until interrupted
}

// Config is the whole configuration file.
type Config struct {
	Backend   string          `yaml:"backend"`
	Profiling bool            `yaml:"profiling"`
	Window    WindowConfig    `yaml:"window"`
	Scene     SceneConfig     `yaml:"scene"`
	Animation AnimationConfig `yaml:"animation"`
}

// Default returns the built-in configuration: a lit 32x32 sphere with a particle cloud in an
// 800x600 window.
func Default() Config {
	return Config{
		Backend: BackendWGPU,
		Window: WindowConfig{
			Width:       800,
			Height:      600,
			Title:       "oxy-raw",
			PresentMode: "vsync",
		},
		Scene: SceneConfig{
			Shape: ShapeSphere,
			Sphere: SphereConfig{
				LatitudeBands:  32,
				LongitudeBands: 32,
				Radius:         1,
				Seed:           1,
			},
			PolygonSides: 6,
			Spacing:      2.5,
			Particles: ParticleConfig{
				Count:     1000,
				Seed:      1,
				PointSize: 2,
			},
			BumpMap: BumpMapConfig{
				Size:     256,
				Seed:     1,
				Blur:     1.5,
				Strength: 2,
			},
			Light: LightConfig{
				Direction: [3]float32{5, 5, 5},
				Color:     [3]float32{1, 1, 1},
				Ambient:   [3]float32{0.25, 0.25, 0.25},
				Intensity: 1,
			},
			Capabilities:   shader.PresetPhong.Names(),
			CameraDistance: 6,
		},
		Animation: AnimationConfig{
			RotationSpeed: 0.01,
			Zoom:          1,
			FPS:           60,
			Frames:        120,
		},
	}
}

// Load reads the configuration at path on top of Default. A missing file is not an error.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, parse or validation error; the returned Config is then Default()
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.fillEmpty()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the parent directory if needed.
//
// Parameters:
//   - path: the YAML file
//   - cfg: the configuration
//
// Returns:
//   - error: a marshal or write error
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// fillEmpty restores the defaults of string fields a file set to "".
func (c *Config) fillEmpty() {
	d := Default()
	c.Backend = common.Coalesce(c.Backend, d.Backend)
	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.PresentMode = common.Coalesce(c.Window.PresentMode, d.Window.PresentMode)
	c.Scene.Shape = common.Coalesce(c.Scene.Shape, d.Scene.Shape)
}

// Validate rejects values no component can use.
//
// Returns:
//   - error: the first invalid field
func (c Config) Validate() error {
	switch c.Backend {
	case BackendWGPU, BackendHeadless:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Scene.Shape {
	case ShapeSphere, ShapeCube, ShapePyramid, ShapePolygon:
	default:
		return fmt.Errorf("unknown shape %q", c.Scene.Shape)
	}
	switch c.Window.PresentMode {
	case "vsync", "uncapped":
	default:
		return fmt.Errorf("unknown present_mode %q", c.Window.PresentMode)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Scene.Sphere.LatitudeBands < 1 || c.Scene.Sphere.LongitudeBands < 1 {
		return fmt.Errorf("sphere bands %dx%d must be at least 1", c.Scene.Sphere.LatitudeBands, c.Scene.Sphere.LongitudeBands)
	}
	if c.Scene.PolygonSides < 3 {
		return fmt.Errorf("polygon_sides %d must be at least 3", c.Scene.PolygonSides)
	}
	if c.Scene.Cubes < 0 || c.Scene.Particles.Count < 0 {
		return errors.New("cubes and particles.count must not be negative")
	}
	if r := c.Animation.RotationSpeed; math.IsNaN(r) || r < params.MinRotationSpeed || r > params.MaxRotationSpeed {
		return fmt.Errorf("animation.rotation_speed %v must be in [%v, %v]", r, params.MinRotationSpeed, params.MaxRotationSpeed)
	}
	if z := float64(c.Animation.Zoom); math.IsNaN(z) || math.IsInf(z, 0) || z < params.MinZoom {
		return fmt.Errorf("animation.zoom %v must be a finite value of at least %v", z, params.MinZoom)
	}
	if c.Animation.FPS < 1 {
		return fmt.Errorf("animation.fps %d must be positive", c.Animation.FPS)
	}
	if c.Scene.BumpMap.Size < 1 {
		return fmt.Errorf("bump_map.size %d must be positive", c.Scene.BumpMap.Size)
	}
	if d := c.Scene.Light.Direction; d == [3]float32{} {
		return errors.New("scene.light.direction must not be zero")
	}
	if i := float64(c.Scene.Light.Intensity); math.IsNaN(i) || math.IsInf(i, 0) || i < 0 {
		return fmt.Errorf("scene.light.intensity %v must be finite and not negative", i)
	}
	if _, err := c.Capabilities(); err != nil {
		return err
	}
	return nil
}

// Capabilities parses Scene.Capabilities.
//
// Returns:
//   - shader.Capability: the capability set
//   - error: an error naming an unknown capability
func (c Config) Capabilities() (shader.Capability, error) {
	return shader.ParseCapabilities(c.Scene.Capabilities)
}

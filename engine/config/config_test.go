package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	caps, err := cfg.Capabilities()
	if err != nil || caps != shader.PresetPhong {
		t.Fatalf("caps = %v, err = %v", caps, err)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Width != 800 || cfg.Scene.Shape != ShapeSphere {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfg.yml")
	cfg := Default()
	cfg.Backend = BackendHeadless
	cfg.Scene.Shape = ShapePolygon
	cfg.Scene.PolygonSides = 9
	cfg.Scene.Capabilities = shader.PresetBumpMap.Names()
	cfg.Animation.Frames = 5

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Backend != BackendHeadless || got.Scene.PolygonSides != 9 || got.Animation.Frames != 5 {
		t.Fatalf("got %+v", got)
	}
	if caps, _ := got.Capabilities(); caps != shader.PresetBumpMap {
		t.Fatalf("caps = %v", caps)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	if err := os.WriteFile(path, []byte("scene:\n  shape: cube\n  cubes: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene.Shape != ShapeCube || cfg.Scene.Cubes != 4 {
		t.Fatalf("scene = %+v", cfg.Scene)
	}
	if cfg.Scene.Sphere.LatitudeBands != 32 || cfg.Animation.RotationSpeed != 0.01 {
		t.Fatal("unset fields lost their defaults")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"backend":    "backend: vulkan\n",
		"shape":      "scene:\n  shape: torus\n",
		"sides":      "scene:\n  polygon_sides: 2\n",
		"capability": "scene:\n  capabilities: [ambient, glow]\n",
		"fps":        "animation:\n  fps: 0\n",
		"speed":      "animation:\n  rotation_speed: .nan\n",
		"fast":       "animation:\n  rotation_speed: 0.5\n",
		"zoom":       "animation:\n  zoom: .nan\n",
		"zoom_inf":   "animation:\n  zoom: .inf\n",
		"present":    "window:\n  present_mode: adaptive\n",
		"light_dir":  "scene:\n  light:\n    direction: [0, 0, 0]\n",
		"light_int":  "scene:\n  light:\n    intensity: -1\n",
		"light_nan":  "scene:\n  light:\n    intensity: .nan\n",
		"light_len":  "scene:\n  light:\n    color: [1, 1]\n",
		"syntax":     "window: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err == nil {
				t.Fatal("invalid config accepted")
			}
			if !strings.Contains(err.Error(), path) {
				t.Fatalf("error does not name the file: %v", err)
			}
			if cfg.Backend != BackendWGPU {
				t.Fatal("failed load must return defaults")
			}
		})
	}
}

func TestEmptyStringsFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	body := "backend: \"\"\nwindow:\n  title: \"\"\n  present_mode: \"\"\nscene:\n  shape: \"\"\n  light:\n    color: [1, 0.5, 0]\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.Backend != def.Backend || cfg.Window.Title != def.Window.Title ||
		cfg.Window.PresentMode != def.Window.PresentMode || cfg.Scene.Shape != def.Scene.Shape {
		t.Fatalf("empty strings kept: %+v", cfg)
	}
	if cfg.Scene.Light.Color != [3]float32{1, 0.5, 0} || cfg.Scene.Light.Intensity != 1 {
		t.Fatalf("light = %+v", cfg.Scene.Light)
	}
}

package light

import (
	"testing"

	"github.com/chewxy/math32"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-5
}

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()
	if l.Type() != LightTypeDirectional {
		t.Fatalf("type = %v", l.Type())
	}
	d := l.Direction()
	want := 1 / math32.Sqrt(3)
	for i, c := range d {
		if !near(c, want) {
			t.Fatalf("direction[%d] = %v, want %v", i, c, want)
		}
	}
	if l.Radiance() != [3]float32{1, 1, 1} {
		t.Fatalf("radiance = %v", l.Radiance())
	}
	if l.Ambient() != [3]float32{0.25, 0.25, 0.25} {
		t.Fatalf("ambient = %v", l.Ambient())
	}
}

func TestBuilderOptions(t *testing.T) {
	l := NewLight(
		WithDirection(0, 0, 4),
		WithColor(1, 0.5, 0),
		WithAmbient(0.1, 0.1, 0.2),
		WithIntensity(2),
	)
	if l.Direction() != [3]float32{0, 0, 1} {
		t.Fatalf("direction = %v", l.Direction())
	}
	if l.Color() != [3]float32{1, 0.5, 0} {
		t.Fatalf("color = %v", l.Color())
	}
	if l.Radiance() != [3]float32{2, 1, 0} {
		t.Fatalf("radiance = %v", l.Radiance())
	}
	if l.Ambient() != [3]float32{0.1, 0.1, 0.2} {
		t.Fatalf("ambient = %v", l.Ambient())
	}

	if NewLight(WithIntensity(-3)).Intensity() != 0 {
		t.Fatal("negative intensity not clamped")
	}
}

func TestDisabledLightHasNoRadiance(t *testing.T) {
	l := NewLight(WithEnabled(false))
	if l.Radiance() != [3]float32{} {
		t.Fatalf("radiance = %v", l.Radiance())
	}
	l.SetEnabled(true)
	l.SetIntensity(0.5)
	l.SetColor(1, 1, 0)
	if l.Radiance() != [3]float32{0.5, 0.5, 0} {
		t.Fatalf("radiance = %v", l.Radiance())
	}
}

func TestSetDirectionNormalizes(t *testing.T) {
	l := NewLight()
	l.SetDirection(0, -3, 0)
	if l.Direction() != [3]float32{0, -1, 0} {
		t.Fatalf("direction = %v", l.Direction())
	}
	l.SetDirection(0, 0, 0)
	if l.Direction() != [3]float32{} {
		t.Fatalf("zero direction became %v", l.Direction())
	}
}

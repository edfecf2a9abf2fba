package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/common"
)

func TestDefaults(t *testing.T) {
	c := NewCamera()
	if math.Abs(float64(c.Fov())-math.Pi/4) > 1e-6 || c.Near() != 0.1 || c.Far() != 100 || c.Aspect() != 1 {
		t.Fatalf("fov=%v near=%v far=%v aspect=%v", c.Fov(), c.Near(), c.Far(), c.Aspect())
	}
}

func TestProjectionIsDeterministicPerAspect(t *testing.T) {
	a := NewCamera(WithAspect(16.0 / 9.0))
	b := NewCamera()
	b.SetAspect(4.0 / 3.0)
	b.SetAspect(16.0 / 9.0)
	if a.ProjectionMatrix() != b.ProjectionMatrix() {
		t.Fatal("same aspect produced different projections")
	}

	var want [16]float32
	common.Perspective(want[:], a.Fov(), 16.0/9.0, 0.1, 100)
	if a.ProjectionMatrix() != want {
		t.Fatal("projection differs from common.Perspective")
	}

	b.SetAspect(0)
	if b.Aspect() != 1 {
		t.Fatalf("degenerate aspect stored as %v", b.Aspect())
	}
}

func TestZoomDividesDistance(t *testing.T) {
	c := NewCamera(WithDistance(6))
	if v := c.ViewMatrix(); v[14] != -6 {
		t.Fatalf("zoom 1 translation = %v", v[14])
	}
	c.SetZoom(2)
	if v := c.ViewMatrix(); v[14] != -3 {
		t.Fatalf("zoom 2 translation = %v", v[14])
	}
	c.SetZoom(0.01)
	if c.Zoom() != MinZoom {
		t.Fatalf("zoom clamped to %v", c.Zoom())
	}
	if v := c.ViewMatrix(); math.Abs(float64(v[14])+60) > 1e-3 {
		t.Fatalf("min zoom translation = %v", v[14])
	}
}

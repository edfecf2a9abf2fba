package controls

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine"
	"github.com/Carmen-Shannon/oxy-raw/engine/params"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/shader"
)

func TestSpeedKeysClamp(t *testing.T) {
	p := params.NewParams(params.WithRotationSpeed(0.01))
	c := NewControls(p, WithSpeedStep(0.02))

	c.HandleKey(common.KeyEqual)
	if got := p.RotationSpeed(); got < 0.0299 || got > 0.0301 {
		t.Fatalf("speed after + = %v", got)
	}
	for range 5 {
		c.HandleKey(common.KeyKPSubtract)
	}
	if p.RotationSpeed() != params.MinRotationSpeed {
		t.Fatalf("speed not clamped: %v", p.RotationSpeed())
	}
}

func TestCubeKeysFollowLayout(t *testing.T) {
	p := params.NewParams()
	c := NewControls(p, WithSpacing(3))

	for range 3 {
		c.HandleKey(common.KeyC)
	}
	want := engine.CubePlacements(3, 3)
	got := p.Placements()
	if len(got) != 3 {
		t.Fatalf("got %d placements", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("placement %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	c.HandleKey(common.KeyX)
	c.HandleKey(common.KeyX)
	if n := len(p.Placements()); n != 1 {
		t.Fatalf("%d placements after two removals", n)
	}
}

func TestSidesAndPresets(t *testing.T) {
	p := params.NewParams(params.WithSides(3))
	c := NewControls(p)

	c.HandleKey(common.KeyO)
	if p.Sides() != params.MinSides {
		t.Fatalf("sides went below minimum: %d", p.Sides())
	}
	c.HandleKey(common.KeyP)
	if p.Sides() != 4 {
		t.Fatalf("sides = %d", p.Sides())
	}

	c.HandleKey(common.Key4)
	if p.Capabilities() != shader.PresetBumpMap {
		t.Fatalf("key 4 selected %s", p.Capabilities())
	}
	c.HandleKey(common.Key5)
	if p.Capabilities() != shader.PresetAllTerms {
		t.Fatalf("key 5 selected %s", p.Capabilities())
	}
}

func TestResetAndUnbound(t *testing.T) {
	p := params.NewParams(params.WithRotationSpeed(0.02), params.WithZoom(1))
	c := NewControls(p)

	p.SetRotationSpeed(0.08)
	p.Scroll(5)
	c.HandleKey(common.KeyR)
	if p.RotationSpeed() != 0.02 || p.Zoom() != 1 {
		t.Fatalf("reset to speed %v zoom %v", p.RotationSpeed(), p.Zoom())
	}

	before := p.Snapshot().Version
	if c.HandleKey('Q') {
		t.Fatal("Q reported as bound")
	}
	if p.Snapshot().Version != before {
		t.Fatal("unbound key changed params")
	}
}

package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-raw/engine/renderer"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithUpdateInterval(time.Second),
		WithTimeSource(func() time.Time { return now }),
	)

	logged := 0
	for i := 0; i < 130; i++ {
		now = now.Add(time.Second / 60)
		p.Record(renderer.FrameStats{Draws: 2, Entities: 1}, false)
		if p.Tick() {
			logged++
		}
	}
	if logged != 2 {
		t.Fatalf("logged %d times over two seconds", logged)
	}
}

func TestRecordAccumulatesTotals(t *testing.T) {
	p := NewProfiler()
	p.Record(renderer.FrameStats{Draws: 3, SkippedEntities: 1, SkippedStreams: 2, Particles: 100}, false)
	p.Record(renderer.FrameStats{}, true)

	got := p.Totals()
	want := Totals{Frames: 2, Draws: 3, SkippedEntities: 1, SkippedStreams: 2, Particles: 100, FailedFrames: 1}
	if got != want {
		t.Fatalf("totals = %+v, want %+v", got, want)
	}
}

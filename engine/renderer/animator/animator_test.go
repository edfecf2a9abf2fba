package animator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClockAccumulatesPureDelta(t *testing.T) {
	c := NewClock()
	var deltas []float64
	for _, ts := range []float64{0.0, 0.016, 0.033} {
		deltas = append(deltas, c.Tick(ts))
	}
	if !approx(c.Accumulated(), 0.033) {
		t.Fatalf("accumulated = %v", c.Accumulated())
	}
	if deltas[0] != 0 || !approx(deltas[1], 0.016) || !approx(deltas[2], 0.017) {
		t.Fatalf("deltas = %v", deltas)
	}
	if c.Frames() != 3 || c.LastTimestamp() != 0.033 {
		t.Fatalf("frames=%d last=%v", c.Frames(), c.LastTimestamp())
	}
}

func TestClockFirstDeltaIsFirstTimestamp(t *testing.T) {
	c := NewClock()
	if d := c.Tick(12.5); d != 12.5 {
		t.Fatalf("first delta = %v", d)
	}

	clamped := NewClock(WithFirstFrameClamp(0.1))
	if d := clamped.Tick(12.5); d != 0.1 {
		t.Fatalf("clamped first delta = %v", d)
	}
	if d := clamped.Tick(14.5); d != 2 {
		t.Fatalf("second delta must not be clamped, got %v", d)
	}

	started := NewClock(WithStartTimestamp(10))
	if d := started.Tick(10.25); d != 0.25 {
		t.Fatalf("delta from start timestamp = %v", d)
	}
}

func TestClockDifferenceMatchesElapsedTime(t *testing.T) {
	timestamps := []float64{0.5, 0.5, 0.51, 0.9, 1.7, 1.7, 3.25, 10}
	c := NewClock()
	acc := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		c.Tick(ts)
		acc[i] = c.Accumulated()
		if i > 0 && acc[i] < acc[i-1] {
			t.Fatalf("accumulation decreased at %d", i)
		}
	}
	for i := range timestamps {
		for j := i; j < len(timestamps); j++ {
			if got, want := acc[j]-acc[i], timestamps[j]-timestamps[i]; math.Abs(got-want) > 1e-9 {
				t.Fatalf("acc[%d]-acc[%d] = %v, want %v", j, i, got, want)
			}
		}
	}
}

func TestAnimatorRate(t *testing.T) {
	a := NewAnimator()
	a.Advance(1, DefaultRotationSpeed)
	if !approx(a.Angle(), 1) {
		t.Fatalf("default speed: one second = %v rad", a.Angle())
	}
	a.Advance(0.5, 0.1)
	if !approx(a.Angle(), 6) {
		t.Fatalf("max speed: angle = %v", a.Angle())
	}
	a.Advance(100, 0)
	if !approx(a.Angle(), 6) {
		t.Fatal("zero speed moved the angle")
	}
	a.SetAngle(0)
	if a.Angle() != 0 {
		t.Fatal("SetAngle ignored")
	}
}

func TestLoopRunsFramesInOrderUntilDone(t *testing.T) {
	var seen []FrameTime
	l := NewLoop(NewFixedStepScheduler(0.016, 5), func(_ context.Context, ft FrameTime) error {
		seen = append(seen, ft)
		if ft.Index == 2 {
			return errors.New("transient")
		}
		return nil
	}, WithQuietErrors())

	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 5 {
		t.Fatalf("ran %d frames", len(seen))
	}
	for i, ft := range seen {
		if ft.Index != i || !approx(ft.Now, float64(i+1)*0.016) || !approx(ft.Delta, 0.016) {
			t.Fatalf("frame %d = %+v", i, ft)
		}
	}
	if !approx(l.Clock().Accumulated(), 0.08) || l.Running() {
		t.Fatalf("accumulated=%v running=%v", l.Clock().Accumulated(), l.Running())
	}
}

func TestLoopStopsOnErrStop(t *testing.T) {
	frames := 0
	l := NewLoop(NewFixedStepScheduler(0.01, 0), func(_ context.Context, ft FrameTime) error {
		frames++
		if ft.Index == 3 {
			return fmt.Errorf("surface lost: %w", ErrStop)
		}
		return nil
	})
	err := l.Run(context.Background())
	if !errors.Is(err, ErrStop) || frames != 4 {
		t.Fatalf("err=%v frames=%d", err, frames)
	}
}

func TestLoopCancellation(t *testing.T) {
	ms := NewManualScheduler(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var frames []float64

	l := NewLoop(ms, func(_ context.Context, ft FrameTime) error {
		frames = append(frames, ft.Now)
		if len(frames) == 2 {
			cancel()
		}
		return nil
	})
	ms.Push(0.1, 0.2)
	go func() { done <- l.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	if len(frames) != 2 {
		t.Fatalf("frames after cancel = %v", frames)
	}

	ms.Push(0.3)
	if len(frames) != 2 {
		t.Fatal("frame ran after teardown")
	}
}

func TestManualSchedulerDrainsThenEnds(t *testing.T) {
	ms := NewManualScheduler(3)
	ms.Push(0, 0.016, 0.033)
	ms.Close()
	l := NewLoop(ms, func(context.Context, FrameTime) error { return nil })
	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !approx(l.Clock().Accumulated(), 0.033) {
		t.Fatalf("accumulated = %v", l.Clock().Accumulated())
	}
}

func TestTickerSchedulerCancels(t *testing.T) {
	s := NewTickerScheduler(1000)
	ctx, cancel := context.WithCancel(context.Background())
	first, err := s.Next(ctx)
	if err != nil || first < 0 {
		t.Fatalf("first=%v err=%v", first, err)
	}
	second, err := s.Next(ctx)
	if err != nil || second < first {
		t.Fatalf("second=%v err=%v", second, err)
	}
	cancel()
	if _, err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err after cancel = %v", err)
	}
}

func TestLoopStopsTickerWhenSchedulerEnds(t *testing.T) {
	ts := NewTickerScheduler(1000).(*tickerScheduler)
	sched := &endingScheduler{next: ts, frames: 2}
	l := NewLoop(sched, func(context.Context, FrameTime) error { return nil })
	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !sched.stopped {
		t.Fatal("loop did not stop the scheduler")
	}
	if ts.ticker != nil {
		t.Fatal("ticker still running after the loop returned")
	}

	// A stopped ticker re-arms on the next call.
	first, err := ts.Next(context.Background())
	if err != nil || first <= 0 {
		t.Fatalf("re-armed Next = %v, %v", first, err)
	}
	ts.Stop()
}

// endingScheduler forwards to a ticker for a fixed number of frames, then reports done.
type endingScheduler struct {
	next    *tickerScheduler
	frames  int
	stopped bool
}

func (e *endingScheduler) Next(ctx context.Context) (float64, error) {
	if e.frames == 0 {
		return 0, ErrSchedulerDone
	}
	e.frames--
	return e.next.Next(ctx)
}

func (e *endingScheduler) Stop() {
	e.stopped = true
	e.next.Stop()
}

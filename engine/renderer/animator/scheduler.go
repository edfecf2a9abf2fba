package animator

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSchedulerDone is returned by Scheduler.Next when the scheduler will produce no more frames.
// Loop.Run treats it as a normal end of the loop.
var ErrSchedulerDone = errors.New("animator: scheduler done")

// Scheduler arms exactly one frame at a time. Next blocks until the next display refresh and
// returns its timestamp in seconds; the caller renders, then calls Next again to re-arm.
type Scheduler interface {
	// Next waits for the next frame.
	//
	// Parameters:
	//   - ctx: cancels the wait
	//
	// Returns:
	//   - float64: the frame timestamp in seconds, monotonically non-decreasing
	//   - error: ctx.Err() on cancellation, ErrSchedulerDone when exhausted
	Next(ctx context.Context) (float64, error)
}

// Stopper is implemented by schedulers that hold a timer or a host callback between frames.
// Loop.Run calls Stop when it returns; a later Next re-arms the scheduler.
type Stopper interface {
	Stop()
}

// tickerScheduler paces frames with a time.Ticker.
type tickerScheduler struct {
	mu     *sync.Mutex
	start  time.Time
	period time.Duration
	ticker *time.Ticker
}

// NewTickerScheduler creates a Scheduler ticking at fps frames per second. Timestamps are
// seconds since the first call to Next.
//
// Parameters:
//   - fps: the target refresh rate; values <= 0 default to 60
//
// Returns:
//   - Scheduler: the scheduler
func NewTickerScheduler(fps int) Scheduler {
	if fps <= 0 {
		fps = 60
	}
	return &tickerScheduler{mu: &sync.Mutex{}, period: time.Second / time.Duration(fps)}
}

// arm starts the ticker if it is not running.
func (t *tickerScheduler) arm() *time.Ticker {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.start.IsZero() {
		t.start = time.Now()
	}
	if t.ticker == nil {
		t.ticker = time.NewTicker(t.period)
	}
	return t.ticker
}

func (t *tickerScheduler) Next(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		t.Stop()
		return 0, err
	}
	ticker := t.arm()
	select {
	case <-ctx.Done():
		t.Stop()
		return 0, ctx.Err()
	case now := <-ticker.C:
		return now.Sub(t.start).Seconds(), nil
	}
}

// Stop releases the ticker.
func (t *tickerScheduler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

// fixedStepScheduler yields evenly spaced timestamps without waiting.
type fixedStepScheduler struct {
	step   float64
	frames int
	issued int
}

// NewFixedStepScheduler creates a Scheduler that yields step, 2·step, ... for frames frames
// and then ErrSchedulerDone. It never sleeps; the headless mode and tests use it.
//
// Parameters:
//   - step: the timestamp spacing in seconds
//   - frames: how many frames to yield; values <= 0 never stop
//
// Returns:
//   - Scheduler: the scheduler
func NewFixedStepScheduler(step float64, frames int) Scheduler {
	return &fixedStepScheduler{step: step, frames: frames}
}

func (f *fixedStepScheduler) Next(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.frames > 0 && f.issued >= f.frames {
		return 0, ErrSchedulerDone
	}
	f.issued++
	return float64(f.issued) * f.step, nil
}

// ManualScheduler yields exactly the timestamps pushed into it.
type ManualScheduler struct {
	ch     chan float64
	closed chan struct{}
	once   sync.Once
}

// NewManualScheduler creates a ManualScheduler with room for buffer pending timestamps.
func NewManualScheduler(buffer int) *ManualScheduler {
	return &ManualScheduler{
		ch:     make(chan float64, buffer),
		closed: make(chan struct{}),
	}
}

// Push queues a timestamp. It blocks while the buffer is full.
func (m *ManualScheduler) Push(ts ...float64) {
	for _, t := range ts {
		m.ch <- t
	}
}

// Close ends the schedule once every pushed timestamp has been consumed.
func (m *ManualScheduler) Close() {
	m.once.Do(func() { close(m.closed) })
}

func (m *ManualScheduler) Next(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	select {
	case t := <-m.ch:
		return t, nil
	default:
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case t := <-m.ch:
		return t, nil
	case <-m.closed:
		select {
		case t := <-m.ch:
			return t, nil
		default:
			return 0, ErrSchedulerDone
		}
	}
}

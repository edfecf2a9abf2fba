package animator

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrStop, wrapped into an error returned by a FrameFunc, ends the loop after that frame.
var ErrStop = errors.New("animator: stop loop")

// FrameTime is the clock state handed to one frame.
type FrameTime struct {
	// Index is the zero-based frame number.
	Index int

	// Now is the scheduler timestamp in seconds.
	Now float64

	// Delta is the time since the previous frame in seconds.
	Delta float64

	// Accumulated is the sum of all deltas so far.
	Accumulated float64
}

// FrameFunc renders one frame. A returned error is logged and the loop continues, unless it
// wraps ErrStop.
type FrameFunc func(ctx context.Context, ft FrameTime) error

// loop is the implementation of the Loop interface.
type loop struct {
	mu        *sync.Mutex
	scheduler Scheduler
	clock     *Clock
	frame     FrameFunc
	running   bool
	logErrors bool
}

// Loop is a cooperative frame task: it waits for one scheduled frame, runs it to completion,
// then re-arms. Frames never overlap.
type Loop interface {
	// Run drives frames until ctx is cancelled, the scheduler is exhausted, or a frame returns
	// an error wrapping ErrStop. The in-flight frame always completes first.
	//
	// Parameters:
	//   - ctx: cancellation token captured at teardown
	//
	// Returns:
	//   - error: nil on cancellation or exhaustion, the stopping error otherwise
	Run(ctx context.Context) error

	// Clock returns the loop's clock.
	//
	// Returns:
	//   - *Clock: the clock, owned by the loop
	Clock() *Clock

	// Running reports whether Run is active.
	//
	// Returns:
	//   - bool: true while Run has not returned
	Running() bool
}

var _ Loop = &loop{}

// NewLoop creates a Loop.
//
// Parameters:
//   - scheduler: arms each frame
//   - frame: renders each frame
//   - options: functional options
//
// Returns:
//   - Loop: the loop
func NewLoop(scheduler Scheduler, frame FrameFunc, options ...LoopBuilderOption) Loop {
	if scheduler == nil || frame == nil {
		panic("animator: NewLoop requires a scheduler and a frame function")
	}
	l := &loop{
		mu:        &sync.Mutex{},
		scheduler: scheduler,
		frame:     frame,
		logErrors: true,
	}
	for _, opt := range options {
		opt(l)
	}
	if l.clock == nil {
		l.clock = NewClock()
	}
	return l
}

func (l *loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errors.New("animator: loop already running")
	}
	l.running = true
	l.mu.Unlock()
	defer func() {
		if st, ok := l.scheduler.(Stopper); ok {
			st.Stop()
		}
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for index := 0; ; index++ {
		now, err := l.scheduler.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrSchedulerDone) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		delta := l.clock.Tick(now)
		ft := FrameTime{Index: index, Now: now, Delta: delta, Accumulated: l.clock.Accumulated()}
		if err := l.frame(ctx, ft); err != nil {
			if errors.Is(err, ErrStop) {
				return err
			}
			if l.logErrors {
				log.Printf("[Loop] frame %d: %v", index, err)
			}
		}
	}
}

func (l *loop) Clock() *Clock {
	return l.clock
}

func (l *loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

//go:build js && wasm

package animator

import (
	"context"
	"syscall/js"
)

// rafScheduler arms one window.requestAnimationFrame callback per Next call.
type rafScheduler struct {
	window js.Value
	frames chan float64
	cb     js.Func
	armed  bool
	handle js.Value
}

// NewAnimationFrameScheduler creates a Scheduler backed by requestAnimationFrame. Timestamps
// are the callback's DOMHighResTimeStamp converted to seconds.
//
// Returns:
//   - Scheduler: the scheduler
func NewAnimationFrameScheduler() Scheduler {
	return &rafScheduler{
		window: js.Global(),
		frames: make(chan float64, 1),
	}
}

func (r *rafScheduler) Next(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		r.Stop()
		return 0, err
	}
	if !r.armed {
		r.cb = js.FuncOf(func(this js.Value, args []js.Value) any {
			ts := 0.0
			if len(args) > 0 {
				ts = args[0].Float() / 1000
			}
			r.frames <- ts
			return nil
		})
		r.armed = true
	}
	r.handle = r.window.Call("requestAnimationFrame", r.cb)
	select {
	case <-ctx.Done():
		r.Stop()
		return 0, ctx.Err()
	case ts := <-r.frames:
		r.handle = js.Undefined()
		return ts, nil
	}
}

// Stop cancels a pending callback and releases the js.Func.
func (r *rafScheduler) Stop() {
	if !r.armed {
		return
	}
	if !r.handle.IsUndefined() {
		r.window.Call("cancelAnimationFrame", r.handle)
		r.handle = js.Undefined()
	}
	r.cb.Release()
	r.armed = false
}

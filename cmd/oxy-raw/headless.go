package main

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-raw/engine"
	"github.com/Carmen-Shannon/oxy-raw/engine/config"
	"github.com/Carmen-Shannon/oxy-raw/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-raw/engine/surface/recorder"
	"github.com/schollz/progressbar/v3"
)

// runHeadless renders the configured number of frames against a recording surface on a fixed
// time step and prints the totals. Frames 0 runs until interrupted.
func runHeadless(ctx context.Context, cfg config.Config) error {
	rec, err := recorder.New(recorder.WithViewport(cfg.Window.Width, cfg.Window.Height))
	if err != nil {
		return err
	}
	bar := progressbar.Default(-1, "frames")
	if cfg.Animation.Frames > 0 {
		bar = progressbar.Default(int64(cfg.Animation.Frames), "frames")
	}
	defer bar.Close()

	sched := &progressScheduler{
		next: animator.NewFixedStepScheduler(1/float64(cfg.Animation.FPS), cfg.Animation.Frames),
		bar:  bar,
	}
	eng, err := engine.NewEngine(rec, engine.WithConfig(cfg), engine.WithScheduler(sched))
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Run(ctx); err != nil {
		return err
	}
	bar.Finish()
	t := eng.Profiler().Totals()
	fmt.Printf("frames=%d failed=%d draws=%d skipped_entities=%d skipped_streams=%d particles=%d angle=%.3f\n",
		t.Frames, t.FailedFrames, t.Draws, t.SkippedEntities, t.SkippedStreams, t.Particles, eng.Angle())
	return nil
}

// progressScheduler advances a progress bar for every frame it releases.
type progressScheduler struct {
	next     animator.Scheduler
	bar      *progressbar.ProgressBar
	released bool
}

func (p *progressScheduler) Next(ctx context.Context) (float64, error) {
	if p.released {
		p.bar.Add(1)
	}
	ts, err := p.next.Next(ctx)
	p.released = err == nil
	return ts, err
}

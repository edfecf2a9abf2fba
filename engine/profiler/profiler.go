package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-raw/engine/renderer"
)

// Totals accumulates renderer statistics over the profiler's lifetime.
type Totals struct {
	Frames          int
	Draws           int
	SkippedEntities int
	SkippedStreams  int
	Particles       int
	FailedFrames    int
}

// Profiler tracks frame rate, draw statistics and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// interval counters, reset each time stats are logged
	draws   int
	skipped int

	totals Totals
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Record adds one rendered frame's statistics. Failed frames are counted but contribute no
// draws.
//
// Parameters:
//   - stats: what the frame did
//   - failed: true if the surface rejected the frame
func (p *Profiler) Record(stats renderer.FrameStats, failed bool) {
	p.totals.Frames++
	if failed {
		p.totals.FailedFrames++
	}
	p.totals.Draws += stats.Draws
	p.totals.SkippedEntities += stats.SkippedEntities
	p.totals.SkippedStreams += stats.SkippedStreams
	p.totals.Particles += stats.Particles
	p.draws += stats.Draws
	p.skipped += stats.SkippedEntities
}

// Totals returns the statistics accumulated by Record.
func (p *Profiler) Totals() Totals {
	return p.totals
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, draw calls per frame, skipped entities, heap usage, allocation
// rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	drawsPerFrame := float64(p.draws) / float64(p.frameCount)

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Draws/frame: %.1f | Skipped: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, drawsPerFrame, p.skipped, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.frameCount = 0
	p.draws = 0
	p.skipped = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

package profiler

import (
	"log"
	"runtime"
	"time"
)

// fpsSmoothing is the exponential moving average weight applied to new
// frame samples when updating the smoothed FPS estimate.
const fpsSmoothing = 0.1

// Profiler tracks per-frame timing and memory statistics for performance
// monitoring. Frame time and a smoothed FPS estimate are available after
// every frame; memory stats are logged at a configurable interval.
type Profiler struct {
	frameCount     int
	frameStart     time.Time
	lastTime       time.Time
	updateInterval time.Duration
	frameTimeMs    float64
	smoothedFPS    float64
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler with default settings.
// Log interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	now := time.Now()
	return &Profiler{
		frameStart:     now,
		lastTime:       now,
		updateInterval: time.Second,
	}
}

// BeginFrame marks the start of a frame. Call once per frame before any
// rendering work, paired with EndFrame.
func (p *Profiler) BeginFrame() {
	p.frameStart = time.Now()
}

// EndFrame marks the end of a frame, updating the frame time and smoothed
// FPS estimate. Logs memory statistics when the update interval has
// elapsed. Statistics include: FPS, heap usage, allocation rate, GC
// count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this frame, false otherwise
func (p *Profiler) EndFrame() bool {
	now := time.Now()
	p.frameTimeMs = float64(now.Sub(p.frameStart).Microseconds()) / 1000

	if p.frameTimeMs > 0 {
		instant := 1000 / p.frameTimeMs
		if p.smoothedFPS == 0 {
			p.smoothedFPS = instant
		} else {
			p.smoothedFPS += (instant - p.smoothedFPS) * fpsSmoothing
		}
	}

	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	// Calculate allocation rate (MB/sec)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// Calculate GC pause stats (last pause and max recent pause)
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		// Find max pause since last log
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// FrameTimeMs returns the duration of the most recent frame in
// milliseconds.
func (p *Profiler) FrameTimeMs() float64 {
	return p.frameTimeMs
}

// FPS returns the exponentially smoothed frames-per-second estimate.
func (p *Profiler) FPS() float64 {
	return p.smoothedFPS
}

package core

import (
	"maps"
	"slices"
	"time"
)

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling average of frame times and the frames per second
// measured over the last full second.
type Metrics struct {
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAVG              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records the duration of one frame, in seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	if m.frameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += m.msTimes[i]
		}
		m.msAVG = sum / float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	// Count all frames.
	m.frames++

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS >= 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame time in milliseconds.
func (m *Metrics) FrameTime() float64 {
	return m.msAVG
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAVG
}

// BenchmarkResult is the average duration of the samples taken under one name.
type BenchmarkResult struct {
	Name    string
	Samples int
	Average time.Duration
}

// Benchmark times named sections of the frame loop.
type Benchmark struct {
	tests map[string][]time.Duration
}

func NewBenchmark() *Benchmark {
	return &Benchmark{
		tests: make(map[string][]time.Duration),
	}
}

// Bench runs fn and records how long it took under name.
func (b *Benchmark) Bench(name string, fn func()) {
	start := time.Now()
	fn()
	b.tests[name] = append(b.tests[name], time.Since(start))
}

// Results returns one average per name, sorted by name.
func (b *Benchmark) Results() []BenchmarkResult {
	names := slices.Sorted(maps.Keys(b.tests))
	results := make([]BenchmarkResult, 0, len(names))
	for _, name := range names {
		durations := b.tests[name]
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		results = append(results, BenchmarkResult{
			Name:    name,
			Samples: len(durations),
			Average: total / time.Duration(len(durations)),
		})
	}
	return results
}

// LogResults prints the averages through the engine logger.
func (b *Benchmark) LogResults() {
	for _, r := range b.Results() {
		LogInfo("Benchmark for '%s': %d micros average over %d samples", r.Name, r.Average.Microseconds(), r.Samples)
	}
}

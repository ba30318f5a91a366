package debug

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RunProfiler times a plugin's Run calls and relates them to the real-time
// budget of the blocks they processed. It is used by hosts around Run, never
// inside it.
type RunProfiler struct {
	sampleRate float64
	maxSamples int

	count   uint64
	frames  uint64
	total   time.Duration
	min     time.Duration
	max     time.Duration
	recent  []time.Duration
	nextIdx int
}

// NewRunProfiler keeps the last maxSamples timings for percentiles.
func NewRunProfiler(sampleRate float64, maxSamples int) *RunProfiler {
	if maxSamples <= 0 {
		maxSamples = 1000
	}
	return &RunProfiler{
		sampleRate: sampleRate,
		maxSamples: maxSamples,
		recent:     make([]time.Duration, 0, maxSamples),
	}
}

// Time runs fn, which processes a block of frames samples, and records how
// long it took.
func (p *RunProfiler) Time(frames int, fn func()) {
	start := time.Now()
	fn()
	p.Record(frames, time.Since(start))
}

// Record stores one timing.
func (p *RunProfiler) Record(frames int, elapsed time.Duration) {
	if p.count == 0 || elapsed < p.min {
		p.min = elapsed
	}
	if elapsed > p.max {
		p.max = elapsed
	}
	p.count++
	p.frames += uint64(frames)
	p.total += elapsed

	if len(p.recent) < p.maxSamples {
		p.recent = append(p.recent, elapsed)
	} else {
		p.recent[p.nextIdx] = elapsed
	}
	p.nextIdx = (p.nextIdx + 1) % p.maxSamples
}

// Count returns the number of recorded calls.
func (p *RunProfiler) Count() uint64 {
	return p.count
}

// Average returns the mean time per call.
func (p *RunProfiler) Average() time.Duration {
	if p.count == 0 {
		return 0
	}
	return p.total / time.Duration(p.count)
}

// Percentile returns the pth percentile (0-100) of the recent timings.
func (p *RunProfiler) Percentile(pct float64) time.Duration {
	if len(p.recent) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(p.recent))
	copy(sorted, p.recent)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := int(float64(len(sorted)-1) * pct / 100.0)
	return sorted[index]
}

// Load returns processing time as a percentage of the audio duration
// processed.
func (p *RunProfiler) Load() float64 {
	if p.frames == 0 || p.sampleRate <= 0 {
		return 0
	}
	audio := float64(p.frames) / p.sampleRate * float64(time.Second)
	return float64(p.total) / audio * 100.0
}

// Report generates a performance report.
func (p *RunProfiler) Report(name string) string {
	if p.count == 0 {
		return "No measurements recorded"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", name)
	fmt.Fprintf(&sb, "  Calls:   %d\n", p.count)
	fmt.Fprintf(&sb, "  Frames:  %d\n", p.frames)
	fmt.Fprintf(&sb, "  Average: %v\n", p.Average())
	fmt.Fprintf(&sb, "  Min:     %v\n", p.min)
	fmt.Fprintf(&sb, "  Max:     %v\n", p.max)
	fmt.Fprintf(&sb, "  p99:     %v\n", p.Percentile(99))
	fmt.Fprintf(&sb, "  Load:    %.4f%%\n", p.Load())
	return sb.String()
}

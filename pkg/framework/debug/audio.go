package debug

import (
	"fmt"
	"math"
)

// ClipThreshold is the magnitude at which a sample counts as clipped.
const ClipThreshold = 1.0

// BufferReport summarises problems found in one output buffer.
type BufferReport struct {
	Samples int
	NaN     int
	Inf     int
	Clipped int
	Peak    float32
}

// OK reports whether the buffer holds only finite samples.
func (r BufferReport) OK() bool {
	return r.NaN == 0 && r.Inf == 0
}

// InspectBuffer scans a buffer for non-finite and clipped samples.
func InspectBuffer(buffer []float32) BufferReport {
	r := BufferReport{Samples: len(buffer)}
	for _, s := range buffer {
		f := float64(s)
		switch {
		case math.IsNaN(f):
			r.NaN++
			continue
		case math.IsInf(f, 0):
			r.Inf++
			continue
		}
		abs := s
		if abs < 0 {
			abs = -abs
		}
		if abs > r.Peak {
			r.Peak = abs
		}
		if abs > ClipThreshold {
			r.Clipped++
		}
	}
	return r
}

// CheckBuffer performs basic sanity checks on an audio buffer.
func CheckBuffer(buffer []float32, name string) []string {
	var issues []string

	r := InspectBuffer(buffer)
	if r.NaN > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d NaN values", name, r.NaN))
	}
	if r.Inf > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d infinite values", name, r.Inf))
	}
	if r.Clipped > 0 {
		issues = append(issues, fmt.Sprintf("%s: %d samples exceed %.1f (peak %.3f)", name, r.Clipped, ClipThreshold, r.Peak))
	}

	return issues
}

// CheckAudioBuffer logs the issues CheckBuffer finds as warnings.
func CheckAudioBuffer(buffer []float32, name string) bool {
	issues := CheckBuffer(buffer, name)
	for _, issue := range issues {
		Warn("%s", issue)
	}
	return len(issues) == 0
}

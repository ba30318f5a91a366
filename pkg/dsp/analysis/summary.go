package analysis

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/gain"
)

// Summary describes a whole signal rather than one block.
type Summary struct {
	Samples int
	Peak    float64 // linear
	Energy  float64 // sum of squares
}

// Summarize measures a complete float64 signal.
func Summarize(signal []float64) Summary {
	if len(signal) == 0 {
		return Summary{}
	}
	return Summary{
		Samples: len(signal),
		Peak:    vecmath.MaxAbs(signal),
		Energy:  vecmath.DotProduct(signal, signal),
	}
}

// RMS returns the linear RMS level, 0 for an empty signal.
func (s Summary) RMS() float64 {
	if s.Samples == 0 {
		return 0
	}
	return math.Sqrt(s.Energy / float64(s.Samples))
}

// PeakDB returns the peak level in dB.
func (s Summary) PeakDB() float64 {
	return gain.LinearToDb(s.Peak)
}

// RMSDB returns the RMS level in dB.
func (s Summary) RMSDB() float64 {
	return gain.LinearToDb(s.RMS())
}

// CrestDB returns the crest factor in dB.
func (s Summary) CrestDB() float64 {
	return s.PeakDB() - s.RMSDB()
}

// Widen copies a float32 block into dst as float64, growing dst if needed.
func Widen(dst []float64, block []float32) []float64 {
	if cap(dst) < len(block) {
		dst = make([]float64, len(block))
	}
	dst = dst[:len(block)]
	for i, s := range block {
		dst[i] = float64(s)
	}
	return dst
}

package analysis

import (
	"math"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/gain"
)

// TroughCeiling is where the running minimum starts. Blocks whose samples
// all have magnitude >= 1 report a 0 dB trough.
const TroughCeiling = 1.0

// Levels are the readings of one block, all in dB. Zero amplitudes read as
// gain.MinDB instead of -Inf.
type Levels struct {
	Peak   float32
	RMS    float32
	Trough float32
	Crest  float32
}

// Measure computes peak, RMS, trough and crest factor for one block. ok is
// false for an empty block, which has no defined RMS; the caller keeps its
// previous readings.
func Measure(block []float32) (levels Levels, ok bool) {
	if len(block) == 0 {
		return Levels{}, false
	}

	maxSample := float32(0)
	minSample := float32(TroughCeiling)
	sumOfSquares := 0.0

	for _, s := range block {
		abs := s
		if abs < 0 {
			abs = -abs
		}
		if abs < minSample {
			minSample = abs
		}
		if abs > maxSample {
			maxSample = abs
		}
		sumOfSquares += float64(s) * float64(s)
	}

	// RMS never exceeds the peak, and equals it when every magnitude is the
	// same. Summing would otherwise leave it a few ulps off.
	rms := math.Min(math.Sqrt(sumOfSquares/float64(len(block))), float64(maxSample))
	if minSample == maxSample {
		rms = float64(maxSample)
	}

	// Crest is taken from the published values so that Crest == Peak - RMS
	// holds exactly for the host.
	peak := float32(gain.LinearToDb(float64(maxSample)))
	rmsDB := float32(gain.LinearToDb(rms))

	return Levels{
		Peak:   peak,
		RMS:    rmsDB,
		Trough: float32(gain.LinearToDb(float64(minSample))),
		Crest:  peak - rmsDB,
	}, true
}

// Package gain provides amplitude and gain-related DSP operations.
package gain

import (
	"math"
)

// Constants for dB conversion
const (
	// MinDB is the floor reported for zero amplitude (effectively -infinity)
	MinDB = -200.0

	// Reference amplitude for dB calculations
	RefAmplitude = 1.0
)

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0 or below the floor.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	db := 20.0 * math.Log10(linear/RefAmplitude)
	if db < MinDB {
		return MinDB
	}
	return db
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// LinearToDb32 is the float32 version of LinearToDb.
func LinearToDb32(linear float32) float32 {
	return float32(LinearToDb(float64(linear)))
}

// DbToLinear32 is the float32 version of DbToLinear.
func DbToLinear32(db float32) float32 {
	return float32(DbToLinear(float64(db)))
}

// Factor returns 10^(db/20) for any db, with no floor or clamp. Very large
// values overflow to +Inf rather than failing.
func Factor(db float32) float32 {
	return float32(math.Pow(10.0, float64(db)/20.0))
}

// Apply applies a gain factor to a sample.
func Apply(sample, gain float32) float32 {
	return sample * gain
}

// ApplyBuffer applies gain to an entire buffer in-place.
func ApplyBuffer(buffer []float32, gain float32) {
	for i := range buffer {
		buffer[i] *= gain
	}
}

// ApplyBufferTo applies gain to a buffer and stores in destination.
func ApplyBufferTo(src []float32, gain float32, dst []float32) {
	length := len(src)
	if len(dst) < length {
		length = len(dst)
	}

	for i := 0; i < length; i++ {
		dst[i] = src[i] * gain
	}
}

// Silence zeroes a buffer.
func Silence(dst []float32) {
	for i := range dst {
		dst[i] = 0
	}
}

// Muted reports whether a mute control is engaged. Only exactly 1.0
// counts; 0.5, 2 or -1 leave the signal through.
func Muted(control float32) bool {
	return control == 1
}

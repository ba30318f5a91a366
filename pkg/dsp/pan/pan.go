// Package pan provides stereo panning and balance operations.
package pan

import (
	"math"
)

// BoostDB is the gain the rising channel reaches at either extreme.
const BoostDB = 3.0

// Gains returns the left and right gains for a pan or balance position.
// pan: -1.0 = hard left, 0.0 = center, 1.0 = hard right
//
// Each channel follows 10^(3*log2(1∓pan)/20): unity at center, +3 dB on the
// rising side at the extreme, and a logarithmic fall toward silence on the
// other side. Positions that reach or pass the falling extreme give exactly
// 0 instead of NaN.
func Gains(pan float32) (left, right float32) {
	p := float64(pan)
	return channelGain(1 - p), channelGain(1 + p)
}

// channelGain evaluates 10^(BoostDB*log2(x)/20) with x <= 0 saturated to 0.
func channelGain(x float64) float32 {
	if !(x > 0) {
		return 0
	}
	return float32(math.Pow(10.0, BoostDB*math.Log2(x)/20.0))
}

// Process pans a mono buffer, creating stereo output.
func Process(mono []float32, pan float32, leftOut, rightOut []float32) {
	leftGain, rightGain := Gains(pan)

	length := len(mono)
	if len(leftOut) < length {
		length = len(leftOut)
	}
	if len(rightOut) < length {
		length = len(rightOut)
	}

	for i := 0; i < length; i++ {
		sample := mono[i]
		leftOut[i] = sample * leftGain
		rightOut[i] = sample * rightGain
	}
}

// Balance scales an existing stereo signal with the same law as Process,
// each channel by its own gain.
// balance: -1.0 = left only, 0.0 = centered, 1.0 = right only
func Balance(leftIn, rightIn []float32, balance float32, leftOut, rightOut []float32) {
	leftGain, rightGain := Gains(balance)

	length := len(leftIn)
	if len(rightIn) < length {
		length = len(rightIn)
	}
	if len(leftOut) < length {
		length = len(leftOut)
	}
	if len(rightOut) < length {
		length = len(rightOut)
	}

	for i := 0; i < length; i++ {
		leftOut[i] = leftIn[i] * leftGain
		rightOut[i] = rightIn[i] * rightGain
	}
}

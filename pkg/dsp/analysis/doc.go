// Package analysis provides level analysis for the meter plugin and the
// offline host.
//
// Block levels (Levels, Measure) are computed fresh for every block with no
// memory of earlier blocks, so very short blocks give noisy readings. They
// are allocation-free and safe on the audio thread.
//
// Whole-signal summaries (Summarize) work on float64 signals that are
// already in memory and use the vectorised kernels of algo-vecmath. They are
// meant for offline reports, not for the audio thread.
//
// Example usage:
//
//	levels, ok := analysis.Measure(block)
//	if !ok {
//	    return // empty block, keep the previous readings
//	}
//	fmt.Printf("peak %.1f dB, rms %.1f dB, crest %.1f dB\n",
//	    levels.Peak, levels.RMS, levels.Crest)
//
//	summary := analysis.Summarize(wholeFile)
//	fmt.Printf("file peak %.1f dB\n", summary.PeakDB())
package analysis

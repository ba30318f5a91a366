package plugin

import (
	"fmt"
	"math"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

// CheckSampleRate rejects rates a host could not have meant.
func CheckSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("sample rate %v: %w", sampleRate, ladspa.ErrInvalidSampleRate)
	}
	return nil
}

package analysis

import (
	"math"
	"testing"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/gain"
)

func constantBlock(n int, value float32) []float32 {
	block := make([]float32, n)
	for i := range block {
		block[i] = value
	}
	return block
}

func TestMeasureConstantBlock(t *testing.T) {
	amplitudes := []float32{0.5, 0.1, 0.3, 0.7, 0.9, 0.999, 0.001, 1.5}
	lengths := []int{1, 64, 1000, 4096, 100000}

	for _, a := range amplitudes {
		for _, n := range lengths {
			for _, sign := range []float32{1, -1} {
				levels, ok := Measure(constantBlock(n, sign*a))
				if !ok {
					t.Fatalf("Measure(%f) not ok", a)
				}

				if levels.Peak != levels.RMS || levels.Crest != 0 {
					t.Errorf("amplitude %f, n %d: peak %v rms %v crest %v, want peak == rms and crest 0",
						sign*a, n, levels.Peak, levels.RMS, levels.Crest)
				}
				want := 20 * math.Log10(float64(a))
				if math.Abs(float64(levels.Peak)-want) > 1e-4 {
					t.Errorf("amplitude %f: peak = %f dB, want %f dB", sign*a, levels.Peak, want)
				}
				if a < 1 && math.Abs(float64(levels.Trough)-want) > 1e-4 {
					t.Errorf("amplitude %f: trough = %f dB, want %f dB", sign*a, levels.Trough, want)
				}
			}
		}
	}
}

func TestMeasureCrestIsPeakMinusRMS(t *testing.T) {
	block := make([]float32, 4096)
	x := uint32(1)
	for i := range block {
		x = x*1664525 + 1013904223
		block[i] = float32(int32(x)) / (1 << 31)
	}

	for _, n := range []int{1, 2, 17, 1000, 4096} {
		levels, _ := Measure(block[:n])
		if levels.Crest != levels.Peak-levels.RMS {
			t.Errorf("n %d: crest %v != peak %v - rms %v", n, levels.Crest, levels.Peak, levels.RMS)
		}
		if levels.Crest < 0 {
			t.Errorf("n %d: crest = %v, want >= 0", n, levels.Crest)
		}
	}
}

func TestMeasureMixedBlock(t *testing.T) {
	block := []float32{0.1, -0.5, 0.3, -0.7, 0.2}
	levels, ok := Measure(block)
	if !ok {
		t.Fatal("Measure not ok")
	}

	wantPeak := 20 * math.Log10(0.7)
	wantTrough := 20 * math.Log10(0.1)
	sum := 0.0
	for _, s := range block {
		sum += float64(s) * float64(s)
	}
	wantRMS := 20 * math.Log10(math.Sqrt(sum/float64(len(block))))

	if math.Abs(float64(levels.Peak)-wantPeak) > 1e-4 {
		t.Errorf("peak = %f, want %f", levels.Peak, wantPeak)
	}
	if math.Abs(float64(levels.Trough)-wantTrough) > 1e-4 {
		t.Errorf("trough = %f, want %f", levels.Trough, wantTrough)
	}
	if math.Abs(float64(levels.RMS)-wantRMS) > 1e-4 {
		t.Errorf("rms = %f, want %f", levels.RMS, wantRMS)
	}
	if math.Abs(float64(levels.Crest)-(wantPeak-wantRMS)) > 1e-4 {
		t.Errorf("crest = %f, want %f", levels.Crest, wantPeak-wantRMS)
	}
}

func TestMeasureZeroBlock(t *testing.T) {
	levels, ok := Measure(make([]float32, 64))
	if !ok {
		t.Fatal("Measure not ok")
	}

	for name, got := range map[string]float32{"peak": levels.Peak, "rms": levels.RMS, "trough": levels.Trough} {
		if math.IsNaN(float64(got)) || math.IsInf(float64(got), 0) {
			t.Errorf("%s = %f, want a finite floor", name, got)
		}
		if got != gain.MinDB {
			t.Errorf("%s = %f, want %f", name, got, float32(gain.MinDB))
		}
	}
	if levels.Crest != 0 {
		t.Errorf("crest = %f, want 0", levels.Crest)
	}
}

func TestMeasureTroughSaturates(t *testing.T) {
	levels, _ := Measure([]float32{1.5, -2, 1})
	if levels.Trough != 0 {
		t.Errorf("trough = %f, want 0 dB when every sample is >= 1", levels.Trough)
	}
	if levels.Peak <= 0 {
		t.Errorf("peak = %f, want > 0 dB", levels.Peak)
	}
}

func TestMeasureEmptyBlock(t *testing.T) {
	levels, ok := Measure(nil)
	if ok {
		t.Error("Measure(nil) reported ok")
	}
	if levels != (Levels{}) {
		t.Errorf("Measure(nil) = %+v, want zero value", levels)
	}
}

func TestMeasureDoesNotAllocate(t *testing.T) {
	block := constantBlock(512, 0.25)
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = Measure(block)
	})
	if allocs != 0 {
		t.Errorf("Measure allocated %v times", allocs)
	}
}

func BenchmarkMeasure(b *testing.B) {
	block := constantBlock(512, 0.25)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Measure(block)
	}
}

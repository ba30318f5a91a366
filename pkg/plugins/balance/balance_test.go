package balance

import (
	"math"
	"testing"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/pan"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

type rig struct {
	inst                 ladspa.Instance
	ctl                  []ladspa.Data
	inL, inR, outL, outR []ladspa.Data
}

func newRig(t *testing.T, n int) *rig {
	t.Helper()
	d, err := Descriptor()
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	inst, err := d.Instantiate(d, 48000)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	r := &rig{
		inst: inst,
		ctl:  []ladspa.Data{0},
		inL:  make([]ladspa.Data, n),
		inR:  make([]ladspa.Data, n),
		outL: make([]ladspa.Data, n),
		outR: make([]ladspa.Data, n),
	}
	for i := 0; i < n; i++ {
		r.inL[i] = 0.5
		r.inR[i] = -0.25
	}
	inst.ConnectPort(PortBalance, r.ctl)
	inst.ConnectPort(PortInputLeft, r.inL)
	inst.ConnectPort(PortInputRight, r.inR)
	inst.ConnectPort(PortOutputLeft, r.outL)
	inst.ConnectPort(PortOutputRight, r.outR)
	return r
}

func TestDescriptor(t *testing.T) {
	d, err := Descriptor()
	if err != nil {
		t.Fatal(err)
	}
	if d.UniqueID != 52 || d.Label != "cme_balance" || d.Name != "Balance (CME)" {
		t.Errorf("descriptor = %d %q %q", d.UniqueID, d.Label, d.Name)
	}

	names := []string{"Balance", "Input (L)", "Input (R)", "Output (L)", "Output (R)"}
	for i, name := range names {
		if d.Ports[i].Name != name {
			t.Errorf("port %d = %q, want %q", i, d.Ports[i].Name, name)
		}
	}
	for i := PortInputLeft; i <= PortInputRight; i++ {
		if !d.Ports[i].Descriptor.IsInput() || !d.Ports[i].Descriptor.IsAudio() {
			t.Errorf("port %d = %v, want input audio", i, d.Ports[i].Descriptor)
		}
	}
	for i := PortOutputLeft; i <= PortOutputRight; i++ {
		if !d.Ports[i].Descriptor.IsOutput() || !d.Ports[i].Descriptor.IsAudio() {
			t.Errorf("port %d = %v, want output audio", i, d.Ports[i].Descriptor)
		}
	}

	r := d.Ports[PortBalance].Range
	if r.LowerBound != -1 || r.UpperBound != 1 {
		t.Errorf("balance range = [%v, %v]", r.LowerBound, r.UpperBound)
	}
}

// Each channel must come from its own input, including right input vs left
// output, which share no binding.
func TestChannelsBindIndependently(t *testing.T) {
	r := newRig(t, 8)
	r.inst.Run(8)

	for i := 0; i < 8; i++ {
		if r.outL[i] != 0.5 {
			t.Fatalf("outL[%d] = %g, want 0.5 from the left input", i, r.outL[i])
		}
		if r.outR[i] != -0.25 {
			t.Fatalf("outR[%d] = %g, want -0.25 from the right input", i, r.outR[i])
		}
	}
	if r.inR[0] != -0.25 {
		t.Errorf("right input was overwritten: %g", r.inR[0])
	}
}

func TestMatchesPanLaw(t *testing.T) {
	r := newRig(t, 8)

	for _, b := range []ladspa.Data{-1, -0.5, 0, 0.25, 1} {
		r.ctl[0] = b
		r.inst.Run(8)

		lg, rg := pan.Gains(b)
		if r.outL[3] != r.inL[3]*lg || r.outR[3] != r.inR[3]*rg {
			t.Errorf("balance %v: %g/%g, want %g/%g", b, r.outL[3], r.outR[3], r.inL[3]*lg, r.inR[3]*rg)
		}
	}
}

func TestHardBalanceSaturates(t *testing.T) {
	r := newRig(t, 4)
	r.ctl[0] = 1
	r.inst.Run(4)

	if r.outL[0] != 0 {
		t.Errorf("outL = %g, want 0 at balance 1", r.outL[0])
	}
	boost := -0.25 * math.Pow(10, 3.0/20)
	if math.Abs(float64(r.outR[0])-boost) > 1e-6 {
		t.Errorf("outR = %g, want %g", r.outR[0], boost)
	}
}

func TestRebindHonoursLatest(t *testing.T) {
	r := newRig(t, 4)
	other := []ladspa.Data{1, 1, 1, 1}
	r.inst.ConnectPort(PortInputRight, other)
	r.inst.Run(4)

	if r.outR[0] != 1 {
		t.Errorf("outR = %g, want the rebound input", r.outR[0])
	}
}

func TestZeroSamples(t *testing.T) {
	r := newRig(t, 4)
	r.outL[0] = 9
	r.inst.Run(0)
	if r.outL[0] != 9 {
		t.Errorf("Run(0) wrote output")
	}
}

func TestRunDoesNotAllocate(t *testing.T) {
	r := newRig(t, 256)
	allocs := testing.AllocsPerRun(100, func() {
		r.inst.Run(256)
	})
	if allocs != 0 {
		t.Errorf("Run allocated %v times", allocs)
	}
}

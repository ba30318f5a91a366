package port

import (
	"errors"
	"testing"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

func TestBuilder(t *testing.T) {
	gain := Control(0, "Gain").Input().Range(-120, 120).Default0().Build()

	if gain.Descriptor != ladspa.PortInput|ladspa.PortControl {
		t.Errorf("descriptor = %v, want input control", gain.Descriptor)
	}
	if gain.Range.LowerBound != -120 || gain.Range.UpperBound != 120 {
		t.Errorf("range = [%v, %v], want [-120, 120]", gain.Range.LowerBound, gain.Range.UpperBound)
	}
	want := ladspa.HintBoundedBelow | ladspa.HintBoundedAbove | ladspa.HintDefault0
	if gain.Range.Hint != want {
		t.Errorf("hint = %#x, want %#x", gain.Range.Hint, want)
	}

	mute := Control(1, "Mute").Input().Toggle().Default0().Build()
	if mute.Range.Hint != ladspa.HintToggled|ladspa.HintDefault0 {
		t.Errorf("mute hint = %#x", mute.Range.Hint)
	}

	out := Audio(3, "Output").Input().Output().Build()
	if out.Descriptor != ladspa.PortOutput|ladspa.PortAudio {
		t.Errorf("Output() did not replace Input(): %v", out.Descriptor)
	}
	if out.Range.Hint != 0 {
		t.Errorf("audio port hint = %#x, want 0", out.Range.Hint)
	}
}

func TestBuilderDefaultReplaces(t *testing.T) {
	p := Control(0, "x").Input().Default(ladspa.HintDefaultMaximum).Default0().Build()
	if p.Range.Hint.Default() != ladspa.HintDefault0 {
		t.Errorf("default = %#x, want HintDefault0", p.Range.Hint.Default())
	}
}

type testInstance struct {
	control []ladspa.Data
	input   []ladspa.Data
	output  []ladspa.Data
}

func testPorts() []ladspa.Port {
	return []ladspa.Port{
		Control(0, "Level").Input().Build(),
		Audio(1, "Input").Input().Build(),
		Audio(2, "Output").Output().Build(),
	}
}

func newTestTable(t *testing.T, inst *testInstance) *Table {
	t.Helper()
	table, err := NewTable(testPorts(), map[uint32]*[]ladspa.Data{
		0: &inst.control,
		1: &inst.input,
		2: &inst.output,
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestTableConnect(t *testing.T) {
	inst := &testInstance{}
	table := newTestTable(t, inst)

	level := []ladspa.Data{0.5}
	in := make([]ladspa.Data, 4)
	out := make([]ladspa.Data, 4)

	table.Connect(0, level)
	table.Connect(1, in)
	table.Connect(2, out)
	table.Connect(7, in) // ignored

	if &inst.control[0] != &level[0] || &inst.input[0] != &in[0] || &inst.output[0] != &out[0] {
		t.Fatal("bindings not stored in their fields")
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
}

func TestTableRebind(t *testing.T) {
	inst := &testInstance{}
	table := newTestTable(t, inst)

	first := make([]ladspa.Data, 4)
	second := make([]ladspa.Data, 4)
	table.Connect(2, first)
	table.Connect(2, second)

	if &inst.output[0] != &second[0] {
		t.Error("latest binding not honoured")
	}
}

func TestTableReady(t *testing.T) {
	inst := &testInstance{}
	table := newTestTable(t, inst)

	if table.Ready(0) {
		t.Error("Ready with nothing bound")
	}

	table.Connect(0, []ladspa.Data{1})
	table.Connect(1, make([]ladspa.Data, 8))
	table.Connect(2, make([]ladspa.Data, 4))

	if !table.Ready(4) {
		t.Error("not Ready for a block that fits every buffer")
	}
	if table.Ready(5) {
		t.Error("Ready for a block longer than the output buffer")
	}
	if table.Ready(-1) {
		t.Error("Ready for a negative block")
	}

	table.Connect(0, []ladspa.Data{})
	if table.Ready(1) {
		t.Error("Ready with an empty control binding")
	}

	table.Connect(0, []ladspa.Data{1})
	table.Reset()
	if inst.control != nil || inst.input != nil || inst.output != nil {
		t.Error("Reset left bindings behind")
	}
}

func TestTableConnectDoesNotAllocate(t *testing.T) {
	inst := &testInstance{}
	table := newTestTable(t, inst)
	buf := make([]ladspa.Data, 64)

	allocs := testing.AllocsPerRun(100, func() {
		table.Connect(1, buf)
		table.Connect(9, buf)
		_ = table.Ready(64)
	})
	if allocs != 0 {
		t.Errorf("Connect/Ready allocated %v times", allocs)
	}
}

func TestNewTableValidation(t *testing.T) {
	var a, b, c []ladspa.Data

	tests := []struct {
		name   string
		fields map[uint32]*[]ladspa.Data
	}{
		{"missing port", map[uint32]*[]ladspa.Data{0: &a, 1: &b}},
		{"undeclared port", map[uint32]*[]ladspa.Data{0: &a, 1: &b, 2: &c, 3: new([]ladspa.Data)}},
		{"shared field", map[uint32]*[]ladspa.Data{0: &a, 1: &b, 2: &b}},
		{"nil field", map[uint32]*[]ladspa.Data{0: &a, 1: &b, 2: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(testPorts(), tt.fields)
			if !errors.Is(err, ladspa.ErrInvalidDescriptor) {
				t.Errorf("NewTable() = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}

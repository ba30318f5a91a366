// Package meter implements the single-channel level meter.
//
// Every block is measured on its own: peak, RMS and trough levels in dB and
// the crest factor (peak minus RMS). Nothing carries across blocks, so very
// short blocks give noisy readings.
package meter

import (
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/analysis"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/plugin"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/port"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

const ID = 60

// Port indices
const (
	PortInput = iota
	PortPeak
	PortRMS
	PortTrough
	PortCrest
)

// Declared output ranges in dB. Readings are not clamped to them.
const (
	MinLevelDB = -120.0
	MaxLevelDB = 0.0
	MaxCrestDB = 30.0
)

// Descriptor describes cme_meter.
func Descriptor() (*ladspa.Descriptor, error) {
	level := func(index uint32, name string) ladspa.Port {
		return port.Control(index, name).Output().Range(MinLevelDB, MaxLevelDB).Default0().Build()
	}
	ports := []ladspa.Port{
		port.Audio(PortInput, "Input").Input().Build(),
		level(PortPeak, "Peak level (dB)"),
		level(PortRMS, "RMS level (dB)"),
		level(PortTrough, "Trough level (dB)"),
		port.Control(PortCrest, "Crest factor (dB)").Output().Range(0, MaxCrestDB).Default0().Build(),
	}
	info := plugin.NewInfo(ID, "cme_meter", "Meter (CME)")
	return info.Descriptor(ports, func(d *ladspa.Descriptor, sampleRate float64) (ladspa.Instance, error) {
		if err := plugin.CheckSampleRate(sampleRate); err != nil {
			return nil, err
		}
		return New(d.Ports)
	})
}

// Meter writes the readings of each block to its control outputs.
type Meter struct {
	input  []ladspa.Data
	peak   []ladspa.Data
	rms    []ladspa.Data
	trough []ladspa.Data
	crest  []ladspa.Data
	ports  *port.Table
}

// New creates a meter over the given ports.
func New(ports []ladspa.Port) (*Meter, error) {
	m := &Meter{}
	table, err := port.NewTable(ports, map[uint32]*[]ladspa.Data{
		PortInput:  &m.input,
		PortPeak:   &m.peak,
		PortRMS:    &m.rms,
		PortTrough: &m.trough,
		PortCrest:  &m.crest,
	})
	if err != nil {
		return nil, err
	}
	m.ports = table
	return m, nil
}

// ConnectPort binds a port. Unknown indices are ignored.
func (m *Meter) ConnectPort(index uint32, data []ladspa.Data) {
	if m.ports == nil {
		return
	}
	m.ports.Connect(index, data)
}

// Run measures the block. An empty block leaves the outputs untouched.
func (m *Meter) Run(sampleCount int) {
	if m.ports == nil || !m.ports.Ready(sampleCount) {
		return
	}

	levels, ok := analysis.Measure(m.input[:sampleCount])
	if !ok {
		return
	}

	m.peak[0] = levels.Peak
	m.rms[0] = levels.RMS
	m.trough[0] = levels.Trough
	m.crest[0] = levels.Crest
}

// Cleanup drops all bindings.
func (m *Meter) Cleanup() {
	if m.ports == nil {
		return
	}
	m.ports.Reset()
	m.ports = nil
}

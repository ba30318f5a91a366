// Package amp implements the mono and stereo gain amplifiers with mute.
//
// Gain is given in dB and applied as 10^(gain/20), computed once per block.
// Both channels of the stereo variant share the gain and mute controls.
package amp

import (
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/gain"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/plugin"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/port"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

const (
	MonoID   = 48
	StereoID = 49
)

// Port indices. The stereo variant adds the second channel pair.
const (
	PortGain = iota
	PortMute
	PortInput1
	PortOutput1
	PortInput2
	PortOutput2
)

// Gain range in dB
const (
	MinGainDB = -120.0
	MaxGainDB = 120.0
)

func controlPorts() []ladspa.Port {
	return []ladspa.Port{
		port.Control(PortGain, "Gain").Input().Range(MinGainDB, MaxGainDB).Default0().Build(),
		port.Control(PortMute, "Mute").Input().Toggle().Default0().Build(),
	}
}

// MonoDescriptor describes gain_mono.
func MonoDescriptor() (*ladspa.Descriptor, error) {
	ports := append(controlPorts(),
		port.Audio(PortInput1, "Input").Input().Build(),
		port.Audio(PortOutput1, "Output").Output().Build(),
	)
	info := plugin.NewInfo(MonoID, "gain_mono", "Gain (dB), Mono, with mute (CME)")
	return info.Descriptor(ports, instantiate(1))
}

// StereoDescriptor describes gain_stereo.
func StereoDescriptor() (*ladspa.Descriptor, error) {
	ports := append(controlPorts(),
		port.Audio(PortInput1, "Input (Left)").Input().Build(),
		port.Audio(PortOutput1, "Output (Left)").Output().Build(),
		port.Audio(PortInput2, "Input (Right)").Input().Build(),
		port.Audio(PortOutput2, "Output (Right)").Output().Build(),
	)
	info := plugin.NewInfo(StereoID, "gain_stereo", "Gain (dB), Stereo, with mute (CME)")
	return info.Descriptor(ports, instantiate(2))
}

func instantiate(channels int) ladspa.InstantiateFunc {
	return func(d *ladspa.Descriptor, sampleRate float64) (ladspa.Instance, error) {
		if err := plugin.CheckSampleRate(sampleRate); err != nil {
			return nil, err
		}
		return New(d.Ports, channels)
	}
}

// Amplifier holds the port bindings of one amplifier instance.
type Amplifier struct {
	gain     []ladspa.Data
	mute     []ladspa.Data
	input    [2][]ladspa.Data
	output   [2][]ladspa.Data
	channels int
	ports    *port.Table
}

// New creates an amplifier with one or two channels over the given ports.
func New(ports []ladspa.Port, channels int) (*Amplifier, error) {
	a := &Amplifier{channels: channels}

	fields := map[uint32]*[]ladspa.Data{
		PortGain:    &a.gain,
		PortMute:    &a.mute,
		PortInput1:  &a.input[0],
		PortOutput1: &a.output[0],
	}
	if channels == 2 {
		fields[PortInput2] = &a.input[1]
		fields[PortOutput2] = &a.output[1]
	}

	table, err := port.NewTable(ports, fields)
	if err != nil {
		return nil, err
	}
	a.ports = table
	return a, nil
}

// ConnectPort binds a port. Unknown indices are ignored.
func (a *Amplifier) ConnectPort(index uint32, data []ladspa.Data) {
	if a.ports == nil {
		return
	}
	a.ports.Connect(index, data)
}

// Run writes either silence (mute exactly 1) or the scaled input.
func (a *Amplifier) Run(sampleCount int) {
	if a.ports == nil || !a.ports.Ready(sampleCount) {
		return
	}

	factor := gain.Factor(a.gain[0])
	muted := gain.Muted(a.mute[0])

	for ch := 0; ch < a.channels; ch++ {
		out := a.output[ch][:sampleCount]
		if muted {
			gain.Silence(out)
			continue
		}
		gain.ApplyBufferTo(a.input[ch][:sampleCount], factor, out)
	}
}

// Cleanup drops all bindings; later calls are no-ops.
func (a *Amplifier) Cleanup() {
	if a.ports == nil {
		return
	}
	a.ports.Reset()
	a.ports = nil
}

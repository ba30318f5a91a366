// Package pan implements the mono-to-stereo pan control.
package pan

import (
	panlaw "github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/pan"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/plugin"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/port"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

const ID = 51

// Port indices
const (
	PortPan = iota
	PortInput
	PortOutputLeft
	PortOutputRight
)

// Descriptor describes cme_pan.
func Descriptor() (*ladspa.Descriptor, error) {
	ports := []ladspa.Port{
		port.Control(PortPan, "Pan").Input().Range(-1, 1).Default0().Build(),
		port.Audio(PortInput, "Input").Input().Build(),
		port.Audio(PortOutputLeft, "Output (L)").Output().Build(),
		port.Audio(PortOutputRight, "Output (R)").Output().Build(),
	}
	info := plugin.NewInfo(ID, "cme_pan", "Pan (CME)")
	return info.Descriptor(ports, func(d *ladspa.Descriptor, sampleRate float64) (ladspa.Instance, error) {
		if err := plugin.CheckSampleRate(sampleRate); err != nil {
			return nil, err
		}
		return New(d.Ports)
	})
}

// Panner spreads one input over two outputs.
type Panner struct {
	pan   []ladspa.Data
	input []ladspa.Data
	left  []ladspa.Data
	right []ladspa.Data
	ports *port.Table
}

// New creates a panner over the given ports.
func New(ports []ladspa.Port) (*Panner, error) {
	p := &Panner{}
	table, err := port.NewTable(ports, map[uint32]*[]ladspa.Data{
		PortPan:         &p.pan,
		PortInput:       &p.input,
		PortOutputLeft:  &p.left,
		PortOutputRight: &p.right,
	})
	if err != nil {
		return nil, err
	}
	p.ports = table
	return p, nil
}

// ConnectPort binds a port. Unknown indices are ignored.
func (p *Panner) ConnectPort(index uint32, data []ladspa.Data) {
	if p.ports == nil {
		return
	}
	p.ports.Connect(index, data)
}

// Run scales each input sample into both outputs.
func (p *Panner) Run(sampleCount int) {
	if p.ports == nil || !p.ports.Ready(sampleCount) {
		return
	}
	panlaw.Process(p.input[:sampleCount], p.pan[0], p.left[:sampleCount], p.right[:sampleCount])
}

// Cleanup drops all bindings.
func (p *Panner) Cleanup() {
	if p.ports == nil {
		return
	}
	p.ports.Reset()
	p.ports = nil
}

// Package balance implements the stereo balance control. It uses the same
// +3 dB logarithmic law as the pan control, applied to each channel's own
// input.
package balance

import (
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/pan"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/plugin"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/port"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

const ID = 52

// Port indices
const (
	PortBalance = iota
	PortInputLeft
	PortInputRight
	PortOutputLeft
	PortOutputRight
)

// Descriptor describes cme_balance.
func Descriptor() (*ladspa.Descriptor, error) {
	ports := []ladspa.Port{
		port.Control(PortBalance, "Balance").Input().Range(-1, 1).Default0().Build(),
		port.Audio(PortInputLeft, "Input (L)").Input().Build(),
		port.Audio(PortInputRight, "Input (R)").Input().Build(),
		port.Audio(PortOutputLeft, "Output (L)").Output().Build(),
		port.Audio(PortOutputRight, "Output (R)").Output().Build(),
	}
	info := plugin.NewInfo(ID, "cme_balance", "Balance (CME)")
	return info.Descriptor(ports, func(d *ladspa.Descriptor, sampleRate float64) (ladspa.Instance, error) {
		if err := plugin.CheckSampleRate(sampleRate); err != nil {
			return nil, err
		}
		return New(d.Ports)
	})
}

// Balancer holds the bindings of one balance instance.
type Balancer struct {
	balance  []ladspa.Data
	inLeft   []ladspa.Data
	inRight  []ladspa.Data
	outLeft  []ladspa.Data
	outRight []ladspa.Data
	ports    *port.Table
}

// New creates a balancer over the given ports. Every port index has its
// own binding.
func New(ports []ladspa.Port) (*Balancer, error) {
	b := &Balancer{}
	table, err := port.NewTable(ports, map[uint32]*[]ladspa.Data{
		PortBalance:     &b.balance,
		PortInputLeft:   &b.inLeft,
		PortInputRight:  &b.inRight,
		PortOutputLeft:  &b.outLeft,
		PortOutputRight: &b.outRight,
	})
	if err != nil {
		return nil, err
	}
	b.ports = table
	return b, nil
}

// ConnectPort binds a port. Unknown indices are ignored.
func (b *Balancer) ConnectPort(index uint32, data []ladspa.Data) {
	if b.ports == nil {
		return
	}
	b.ports.Connect(index, data)
}

// Run scales the left and right inputs by their balance gains.
func (b *Balancer) Run(sampleCount int) {
	if b.ports == nil || !b.ports.Ready(sampleCount) {
		return
	}
	pan.Balance(b.inLeft[:sampleCount], b.inRight[:sampleCount], b.balance[0],
		b.outLeft[:sampleCount], b.outRight[:sampleCount])
}

// Cleanup drops all bindings.
func (b *Balancer) Cleanup() {
	if b.ports == nil {
		return
	}
	b.ports.Reset()
	b.ports = nil
}

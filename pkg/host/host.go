// Package host runs plugins from the library in-process over float32
// signals. It plays the role a LADSPA host plays: it owns every port
// buffer, sets control defaults from the range hints, feeds the signal
// through in fixed-size blocks and collects the outputs.
package host

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/debug"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/plugin"
)

// DefaultBlockSize is the block length used when none is given.
const DefaultBlockSize = 1024

var (
	ErrChannelCount = errors.New("wrong number of input channels")
	ErrLength       = errors.New("input channels differ in length")
	ErrUnknownPort  = errors.New("unknown port")
)

// Session is one instantiated plugin with host-owned port buffers.
type Session struct {
	Descriptor *ladspa.Descriptor

	inst      ladspa.Instance
	blockSize int
	buffers   [][]ladspa.Data
	audioIn   []uint32
	audioOut  []uint32
	ctlOut    []uint32
	profiler  *debug.RunProfiler
}

// Result holds everything a Process call produced.
type Result struct {
	// Outputs has one signal per output audio port, in port order.
	Outputs [][]ladspa.Data

	// Controls has the output control values after each block, in port
	// order.
	Controls [][]ladspa.Data

	// Blocks is the number of Run calls made.
	Blocks int

	// Warnings lists NaN, Inf or clipping found in Outputs.
	Warnings []string
}

// Open loads the library and instantiates the plugin named by label or by
// decimal unique id.
func Open(name string, sampleRate float64, blockSize int) (*Session, error) {
	if err := plugin.Load(); err != nil {
		return nil, err
	}

	index, ok := plugin.Find(name)
	if !ok {
		if id, err := strconv.ParseUint(name, 10, 32); err == nil {
			index, ok = plugin.FindID(uint32(id))
		}
	}
	if !ok {
		return nil, fmt.Errorf("plugin %q: %w", name, ladspa.ErrUnknownPlugin)
	}

	d, inst, err := plugin.Instantiate(index, sampleRate)
	if err != nil {
		return nil, err
	}
	return New(d, inst, blockSize)
}

// New wraps an instance. Every port is bound to a buffer owned by the
// session; input controls start at their hinted default.
func New(d *ladspa.Descriptor, inst ladspa.Instance, blockSize int) (*Session, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	s := &Session{
		Descriptor: d,
		inst:       inst,
		blockSize:  blockSize,
		buffers:    make([][]ladspa.Data, d.PortCount()),
	}

	for _, p := range d.Ports {
		if p.Descriptor.IsControl() {
			buf := []ladspa.Data{initialValue(p)}
			s.buffers[p.Index] = buf
			if p.Descriptor.IsOutput() {
				s.ctlOut = append(s.ctlOut, p.Index)
			}
		} else {
			s.buffers[p.Index] = make([]ladspa.Data, blockSize)
			if p.Descriptor.IsInput() {
				s.audioIn = append(s.audioIn, p.Index)
			} else {
				s.audioOut = append(s.audioOut, p.Index)
			}
		}
		inst.ConnectPort(p.Index, s.buffers[p.Index])
	}

	debug.Debug("session %s: %d in, %d out, block %d", d.Label, len(s.audioIn), len(s.audioOut), blockSize)
	return s, nil
}

func initialValue(p ladspa.Port) ladspa.Data {
	if v, ok := p.Range.DefaultValue(); ok {
		return v
	}
	if p.Range.Hint&ladspa.HintBoundedBelow != 0 {
		return p.Range.LowerBound
	}
	return 0
}

// Profile times every Run call with p. nil disables profiling.
func (s *Session) Profile(p *debug.RunProfiler) {
	s.profiler = p
}

// Inputs returns the number of input audio ports.
func (s *Session) Inputs() int { return len(s.audioIn) }

// Outputs returns the number of output audio ports.
func (s *Session) Outputs() int { return len(s.audioOut) }

// Port finds a port by name.
func (s *Session) Port(name string) (ladspa.Port, bool) {
	for _, p := range s.Descriptor.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return ladspa.Port{}, false
}

// Set writes an input control, clamped to its declared range, and returns
// the value actually set.
func (s *Session) Set(name string, value ladspa.Data) (ladspa.Data, error) {
	p, ok := s.Port(name)
	if !ok || !p.Descriptor.IsControl() || !p.Descriptor.IsInput() {
		return 0, fmt.Errorf("%s: input control %q: %w", s.Descriptor.Label, name, ErrUnknownPort)
	}
	v := p.Range.Clamp(value)
	s.buffers[p.Index][0] = v
	return v, nil
}

// Control reads the current value of any control port.
func (s *Session) Control(name string) (ladspa.Data, error) {
	p, ok := s.Port(name)
	if !ok || !p.Descriptor.IsControl() {
		return 0, fmt.Errorf("%s: control %q: %w", s.Descriptor.Label, name, ErrUnknownPort)
	}
	return s.buffers[p.Index][0], nil
}

// ControlOutputs returns the output control ports in port order.
func (s *Session) ControlOutputs() []ladspa.Port {
	ports := make([]ladspa.Port, len(s.ctlOut))
	for i, index := range s.ctlOut {
		ports[i] = s.Descriptor.Ports[index]
	}
	return ports
}

// Process runs the whole signal through the plugin, one block at a time.
// inputs must hold one equally long signal per input audio port.
func (s *Session) Process(inputs [][]ladspa.Data) (*Result, error) {
	if len(inputs) != len(s.audioIn) {
		return nil, fmt.Errorf("%s takes %d inputs, got %d: %w",
			s.Descriptor.Label, len(s.audioIn), len(inputs), ErrChannelCount)
	}

	n := 0
	if len(inputs) > 0 {
		n = len(inputs[0])
	}
	for i, in := range inputs {
		if len(in) != n {
			return nil, fmt.Errorf("input %d has %d samples, input 0 has %d: %w", i, len(in), n, ErrLength)
		}
	}

	res := &Result{Outputs: make([][]ladspa.Data, len(s.audioOut))}
	for i := range res.Outputs {
		res.Outputs[i] = make([]ladspa.Data, n)
	}

	for offset := 0; offset < n; offset += s.blockSize {
		count := s.blockSize
		if n-offset < count {
			count = n - offset
		}

		for i, index := range s.audioIn {
			copy(s.buffers[index], inputs[i][offset:offset+count])
		}

		s.run(count)

		for i, index := range s.audioOut {
			copy(res.Outputs[i][offset:offset+count], s.buffers[index][:count])
		}
		if len(s.ctlOut) > 0 {
			values := make([]ladspa.Data, len(s.ctlOut))
			for i, index := range s.ctlOut {
				values[i] = s.buffers[index][0]
			}
			res.Controls = append(res.Controls, values)
		}
		res.Blocks++
	}

	for i, index := range s.audioOut {
		res.Warnings = append(res.Warnings, debug.CheckBuffer(res.Outputs[i], s.Descriptor.Ports[index].Name)...)
	}
	for _, w := range res.Warnings {
		debug.Warn("%s: %s", s.Descriptor.Label, w)
	}
	return res, nil
}

// RunBlock runs one block of count samples on the current buffer contents.
func (s *Session) RunBlock(count int) error {
	if count < 0 || count > s.blockSize {
		return fmt.Errorf("block of %d samples, session block size is %d", count, s.blockSize)
	}
	s.run(count)
	return nil
}

// Buffer returns the session-owned buffer of a port.
func (s *Session) Buffer(index uint32) ([]ladspa.Data, bool) {
	if int(index) >= len(s.buffers) {
		return nil, false
	}
	return s.buffers[index], true
}

func (s *Session) run(count int) {
	if s.profiler != nil {
		s.profiler.Time(count, func() { s.inst.Run(count) })
		return
	}
	s.inst.Run(count)
}

// Close cleans up the instance.
func (s *Session) Close() {
	s.inst.Cleanup()
}

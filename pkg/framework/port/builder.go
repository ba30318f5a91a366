// Package port builds port declarations and binds host memory to them.
package port

import "github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"

// Builder provides a fluent API for declaring ports
type Builder struct {
	port ladspa.Port
}

// Control starts a control (scalar) port declaration
func Control(index uint32, name string) *Builder {
	return &Builder{
		port: ladspa.Port{
			Index:      index,
			Name:       name,
			Descriptor: ladspa.PortControl,
		},
	}
}

// Audio starts an audio (buffer) port declaration
func Audio(index uint32, name string) *Builder {
	return &Builder{
		port: ladspa.Port{
			Index:      index,
			Name:       name,
			Descriptor: ladspa.PortAudio,
		},
	}
}

// Input marks the port as carrying data into the plugin
func (b *Builder) Input() *Builder {
	b.port.Descriptor = b.port.Descriptor&^ladspa.PortOutput | ladspa.PortInput
	return b
}

// Output marks the port as carrying data out of the plugin
func (b *Builder) Output() *Builder {
	b.port.Descriptor = b.port.Descriptor&^ladspa.PortInput | ladspa.PortOutput
	return b
}

// Range sets both bounds
func (b *Builder) Range(min, max ladspa.Data) *Builder {
	b.port.Range.LowerBound = min
	b.port.Range.UpperBound = max
	b.port.Range.Hint |= ladspa.HintBoundedBelow | ladspa.HintBoundedAbove
	return b
}

// Default sets the default-value hint
func (b *Builder) Default(hint ladspa.HintDescriptor) *Builder {
	b.port.Range.Hint = b.port.Range.Hint&^ladspa.HintDefaultMask | hint.Default()
	return b
}

// Default0 is shorthand for Default(ladspa.HintDefault0)
func (b *Builder) Default0() *Builder {
	return b.Default(ladspa.HintDefault0)
}

// Toggle declares an on/off control
func (b *Builder) Toggle() *Builder {
	b.port.Range.Hint |= ladspa.HintToggled
	return b
}

// Build returns the declared port
func (b *Builder) Build() ladspa.Port {
	return b.port
}

package ladspa

import "fmt"

// Instance is one running copy of a plugin. The host calls ConnectPort for
// every declared port, then Run once per block, then Cleanup.
//
// ConnectPort and Run must not allocate, lock or perform I/O.
type Instance interface {
	// ConnectPort binds a port to host memory. Control ports read or write
	// element 0. Unknown indices are ignored.
	ConnectPort(port uint32, data []Data)

	// Run processes sampleCount samples using the current bindings.
	Run(sampleCount int)

	// Cleanup releases the instance. Run is a no-op afterwards.
	Cleanup()
}

// InstantiateFunc creates a new instance for the given sample rate.
type InstantiateFunc func(d *Descriptor, sampleRate float64) (Instance, error)

// Port describes one port of a plugin.
type Port struct {
	Index      uint32
	Name       string
	Descriptor PortDescriptor
	Range      PortRangeHint
}

// Descriptor is the static metadata the host uses to discover a plugin.
// It is never mutated after construction.
type Descriptor struct {
	UniqueID   uint32
	Label      string
	Name       string
	Maker      string
	Copyright  string
	Properties Property
	Ports      []Port

	Instantiate InstantiateFunc
}

// PortCount returns the number of declared ports.
func (d *Descriptor) PortCount() int {
	return len(d.Ports)
}

// Port returns the port declared at index.
func (d *Descriptor) Port(index uint32) (Port, bool) {
	if int(index) >= len(d.Ports) {
		return Port{}, false
	}
	return d.Ports[index], true
}

// Validate checks the descriptor is complete and its ports are numbered
// 0..n-1 in order with valid flags.
func (d *Descriptor) Validate() error {
	if d.UniqueID == 0 || d.UniqueID > 0xFFFFFF {
		return fmt.Errorf("descriptor %q: unique id %d out of range: %w", d.Label, d.UniqueID, ErrInvalidDescriptor)
	}
	if d.Label == "" || d.Name == "" {
		return fmt.Errorf("descriptor %d: missing label or name: %w", d.UniqueID, ErrInvalidDescriptor)
	}
	if len(d.Ports) == 0 {
		return fmt.Errorf("descriptor %q: no ports: %w", d.Label, ErrInvalidDescriptor)
	}
	if d.Instantiate == nil {
		return fmt.Errorf("descriptor %q: no instantiate function: %w", d.Label, ErrInvalidDescriptor)
	}
	for i, p := range d.Ports {
		if p.Index != uint32(i) {
			return fmt.Errorf("descriptor %q: port %q declared at position %d with index %d: %w",
				d.Label, p.Name, i, p.Index, ErrInvalidDescriptor)
		}
		if !p.Descriptor.Valid() {
			return fmt.Errorf("descriptor %q: port %q has invalid flags %#x: %w",
				d.Label, p.Name, int32(p.Descriptor), ErrInvalidDescriptor)
		}
		if p.Name == "" {
			return fmt.Errorf("descriptor %q: port %d has no name: %w", d.Label, i, ErrInvalidDescriptor)
		}
	}
	return nil
}

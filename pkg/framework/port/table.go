package port

import (
	"fmt"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

// Table maps each declared port index to the instance field that holds its
// binding. Bindings are borrowed host memory and are only valid until the
// host rebinds the port or cleans up the instance.
type Table struct {
	ports  []ladspa.Port
	fields []*[]ladspa.Data
}

// NewTable builds a binding table for ports. fields must hold exactly one
// distinct field per declared index.
func NewTable(ports []ladspa.Port, fields map[uint32]*[]ladspa.Data) (*Table, error) {
	t := &Table{
		ports:  ports,
		fields: make([]*[]ladspa.Data, len(ports)),
	}

	seen := make(map[*[]ladspa.Data]uint32, len(fields))
	for index, field := range fields {
		if int(index) >= len(ports) {
			return nil, fmt.Errorf("port %d has a binding but only %d ports are declared: %w",
				index, len(ports), ladspa.ErrInvalidDescriptor)
		}
		if field == nil {
			return nil, fmt.Errorf("port %d (%s) has a nil binding: %w",
				index, ports[index].Name, ladspa.ErrInvalidDescriptor)
		}
		if other, dup := seen[field]; dup {
			return nil, fmt.Errorf("ports %d and %d share one binding: %w",
				other, index, ladspa.ErrInvalidDescriptor)
		}
		seen[field] = index
		t.fields[index] = field
	}

	for i, f := range t.fields {
		if f == nil {
			return nil, fmt.Errorf("port %d (%s) has no binding: %w",
				i, ports[i].Name, ladspa.ErrInvalidDescriptor)
		}
	}

	return t, nil
}

// Connect rebinds one port. Unknown indices are ignored.
func (t *Table) Connect(index uint32, data []ladspa.Data) {
	if int(index) >= len(t.fields) {
		return
	}
	*t.fields[index] = data
}

// Ready reports whether every port is bound with enough room for a block
// of sampleCount samples: one element for controls, sampleCount for audio.
func (t *Table) Ready(sampleCount int) bool {
	if sampleCount < 0 {
		return false
	}
	for i, f := range t.fields {
		need := sampleCount
		if t.ports[i].Descriptor.IsControl() {
			need = 1
		}
		if *f == nil || len(*f) < need {
			return false
		}
	}
	return true
}

// Reset drops every binding.
func (t *Table) Reset() {
	for _, f := range t.fields {
		*f = nil
	}
}

// Len returns the number of ports in the table.
func (t *Table) Len() int {
	return len(t.fields)
}

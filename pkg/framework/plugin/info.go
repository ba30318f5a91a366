// Package plugin holds the metadata every plugin in the library declares and
// turns it into host-facing descriptors.
package plugin

import (
	"fmt"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

// Maker and Copyright shared by every plugin in this library.
const (
	Maker     = "Chris Edwards"
	Copyright = "None"
)

// Info contains plugin metadata
type Info struct {
	UniqueID   uint32 // Globally registered LADSPA id
	Label      string // Short identifier hosts use on command lines (e.g., "gain_mono")
	Name       string // Display name
	Maker      string
	Copyright  string
	Properties ladspa.Property
}

// NewInfo fills in the library-wide maker, copyright and real-time
// properties.
func NewInfo(id uint32, label, name string) Info {
	return Info{
		UniqueID:   id,
		Label:      label,
		Name:       name,
		Maker:      Maker,
		Copyright:  Copyright,
		Properties: ladspa.PropertyHardRTCapable,
	}
}

// ValidateID checks the id fits the 24-bit LADSPA id space
func (i Info) ValidateID() error {
	if i.UniqueID == 0 || i.UniqueID > 0xFFFFFF {
		return fmt.Errorf("plugin %q: unique id %d out of range: %w", i.Label, i.UniqueID, ladspa.ErrInvalidDescriptor)
	}
	return nil
}

// Descriptor assembles and validates the host-facing descriptor.
func (i Info) Descriptor(ports []ladspa.Port, instantiate ladspa.InstantiateFunc) (*ladspa.Descriptor, error) {
	if err := i.ValidateID(); err != nil {
		return nil, err
	}

	d := &ladspa.Descriptor{
		UniqueID:    i.UniqueID,
		Label:       i.Label,
		Name:        i.Name,
		Maker:       i.Maker,
		Copyright:   i.Copyright,
		Properties:  i.Properties,
		Ports:       ports,
		Instantiate: instantiate,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

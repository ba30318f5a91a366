// Package plugin is the library registry: it builds the descriptor table
// once on Load, enumerates it by index and creates instances.
package plugin

import (
	"fmt"
	"sync"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/debug"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/plugins/amp"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/plugins/balance"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/plugins/meter"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/plugins/pan"
)

// DescriptorFunc builds the descriptor of one plugin variant.
type DescriptorFunc func() (*ladspa.Descriptor, error)

// builders lists the variants in enumeration order.
var builders = []DescriptorFunc{
	amp.MonoDescriptor,
	amp.StereoDescriptor,
	pan.Descriptor,
	balance.Descriptor,
	meter.Descriptor,
}

var (
	registryMu  sync.RWMutex
	descriptors []*ladspa.Descriptor
	loaded      bool
	logFile     *debug.Logger
	prevLogger  *debug.Logger
)

// Load applies the current Config and builds every descriptor. Calls after
// the first successful one do nothing.
func Load() error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if loaded {
		return nil
	}

	if err := applyConfig(currentConfig()); err != nil {
		return err
	}

	table, err := buildTable(builders)
	if err != nil {
		debug.Error("loading plugin library: %v", err)
		return err
	}

	descriptors = table
	loaded = true
	debug.Info("loaded %d plugins", len(table))
	return nil
}

func buildTable(funcs []DescriptorFunc) ([]*ladspa.Descriptor, error) {
	table := make([]*ladspa.Descriptor, 0, len(funcs))
	ids := make(map[uint32]string, len(funcs))
	labels := make(map[string]bool, len(funcs))

	for _, build := range funcs {
		d, err := build()
		if err != nil {
			return nil, fmt.Errorf("building descriptor %d: %w", len(table), err)
		}
		if other, dup := ids[d.UniqueID]; dup {
			return nil, fmt.Errorf("%q and %q share unique id %d: %w",
				other, d.Label, d.UniqueID, ladspa.ErrInvalidDescriptor)
		}
		if labels[d.Label] {
			return nil, fmt.Errorf("duplicate label %q: %w", d.Label, ladspa.ErrInvalidDescriptor)
		}
		ids[d.UniqueID] = d.Label
		labels[d.Label] = true
		table = append(table, d)
		debug.Debug("descriptor %d: %s (%d) %q", len(table)-1, d.Label, d.UniqueID, d.Name)
	}
	return table, nil
}

// Unload closes every open instance, drops the descriptor table and closes
// the log file opened by Load, if any.
func Unload() {
	if n := closeAll(); n > 0 {
		debug.Warn("unload closed %d instances the host did not clean up", n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if !loaded {
		return
	}
	descriptors = nil
	loaded = false
	debug.Info("plugin library unloaded")

	if logFile != nil {
		debug.SetDefault(prevLogger)
		logFile.Close()
		logFile, prevLogger = nil, nil
	}
}

// Loaded reports whether Load has built the descriptor table.
func Loaded() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return loaded
}

// Count returns the number of plugins, 0 before Load.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(descriptors)
}

// Descriptor returns the descriptor at index, or false past the last index
// or before Load.
func Descriptor(index int) (*ladspa.Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if index < 0 || index >= len(descriptors) {
		return nil, false
	}
	return descriptors[index], true
}

// Descriptors returns a copy of the loaded table.
func Descriptors() []*ladspa.Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]*ladspa.Descriptor(nil), descriptors...)
}

// Find returns the index of the plugin with the given label.
func Find(label string) (int, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for i, d := range descriptors {
		if d.Label == label {
			return i, true
		}
	}
	return -1, false
}

// FindID returns the index of the plugin with the given unique id.
func FindID(id uint32) (int, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for i, d := range descriptors {
		if d.UniqueID == id {
			return i, true
		}
	}
	return -1, false
}

// Instantiate creates an instance of the plugin at index.
func Instantiate(index int, sampleRate float64) (*ladspa.Descriptor, ladspa.Instance, error) {
	registryMu.RLock()
	if !loaded {
		registryMu.RUnlock()
		return nil, nil, fmt.Errorf("instantiate plugin %d: %w", index, ladspa.ErrNotLoaded)
	}
	if index < 0 || index >= len(descriptors) {
		n := len(descriptors)
		registryMu.RUnlock()
		return nil, nil, fmt.Errorf("instantiate plugin %d of %d: %w", index, n, ladspa.ErrUnknownPlugin)
	}
	d := descriptors[index]
	registryMu.RUnlock()

	inst, err := d.Instantiate(d, sampleRate)
	if err != nil {
		return nil, nil, fmt.Errorf("instantiate %s: %w", d.Label, err)
	}
	return d, inst, nil
}

package plugin

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/debug"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

// Handle identifies an instance owned by a foreign host. 0 is never valid.
type Handle uintptr

// Slot is an open instance plus the raw port addresses the host connected.
// Addresses are turned into slices of the right length on every Run, so
// the host may pass a different block size each call.
type Slot struct {
	Descriptor *ladspa.Descriptor
	Instance   ladspa.Instance

	handle Handle
	ports  []unsafe.Pointer
}

// The table is copied on every change and published whole, so Get never
// waits on Open or Close.
type slotTable map[Handle]*Slot

var (
	slots      atomic.Pointer[slotTable]
	slotsMu    sync.Mutex // serialises writers
	nextHandle Handle = 1
)

// Open instantiates the plugin at index and registers it.
func Open(index int, sampleRate float64) (Handle, error) {
	d, inst, err := Instantiate(index, sampleRate)
	if err != nil {
		return 0, err
	}

	slot := &Slot{
		Descriptor: d,
		Instance:   inst,
		ports:      make([]unsafe.Pointer, d.PortCount()),
	}
	h := registerSlot(slot)
	debug.Debug("opened %s as handle %d at %.0f Hz", d.Label, h, sampleRate)
	return h, nil
}

// currentSlots returns the published table. It may be nil.
func currentSlots() slotTable {
	if t := slots.Load(); t != nil {
		return *t
	}
	return nil
}

// updateSlots publishes a modified copy of the table. Callers hold slotsMu.
func updateSlots(change func(slotTable)) {
	old := currentSlots()
	next := make(slotTable, len(old)+1)
	for h, slot := range old {
		next[h] = slot
	}
	change(next)
	slots.Store(&next)
}

// registerSlot stores a slot and returns its handle
func registerSlot(slot *Slot) Handle {
	slotsMu.Lock()
	defer slotsMu.Unlock()
	h := nextHandle
	nextHandle++
	slot.handle = h
	updateSlots(func(t slotTable) { t[h] = slot })
	return h
}

// unregisterSlot removes a slot by handle
func unregisterSlot(h Handle) *Slot {
	slotsMu.Lock()
	defer slotsMu.Unlock()
	slot := currentSlots()[h]
	if slot != nil {
		updateSlots(func(t slotTable) { delete(t, h) })
	}
	return slot
}

// Get returns the slot for h, or nil. It takes no lock and is safe on the
// audio thread.
func Get(h Handle) *Slot {
	if h == 0 {
		return nil
	}
	return currentSlots()[h]
}

// Close cleans up the instance and forgets the handle. Unknown handles are
// ignored.
func Close(h Handle) {
	slot := unregisterSlot(h)
	if slot == nil {
		return
	}
	slot.Instance.Cleanup()
	slot.ports = nil
	debug.Debug("closed handle %d (%s)", h, slot.Descriptor.Label)
}

// Live returns the number of open handles.
func Live() int {
	return len(currentSlots())
}

func closeAll() int {
	slotsMu.Lock()
	old := currentSlots()
	open := make([]*Slot, 0, len(old))
	for _, slot := range old {
		open = append(open, slot)
	}
	slots.Store(nil)
	slotsMu.Unlock()

	for _, slot := range open {
		slot.Instance.Cleanup()
		slot.ports = nil
	}
	return len(open)
}

// Handle returns the slot's handle.
func (s *Slot) Handle() Handle {
	return s.handle
}

// Connect records the address of a port's data. Unknown indices are
// ignored and nil unbinds the port.
func (s *Slot) Connect(port uint32, data unsafe.Pointer) {
	if int(port) >= len(s.ports) {
		return
	}
	s.ports[port] = data
}

// Run binds every recorded address for a block of sampleCount samples and
// runs the instance.
func (s *Slot) Run(sampleCount int) {
	if sampleCount < 0 || s.ports == nil {
		return
	}
	for i, p := range s.ports {
		if p == nil {
			s.Instance.ConnectPort(uint32(i), nil)
			continue
		}
		n := sampleCount
		if s.Descriptor.Ports[i].Descriptor.IsControl() {
			n = 1
		}
		s.Instance.ConnectPort(uint32(i), unsafe.Slice((*ladspa.Data)(p), n))
	}
	s.Instance.Run(sampleCount)
}

// Recover logs a panic raised inside a host callback instead of letting it
// cross into C.
func Recover(operation string) {
	if r := recover(); r != nil {
		debug.Error("panic in %s: %v", operation, r)
	}
}

package plugin

import (
	"math"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/plugins/meter"
)

func openMeter(t *testing.T) (Handle, *Slot) {
	t.Helper()
	loadLibrary(t)

	index, ok := Find("cme_meter")
	if !ok {
		t.Fatal("cme_meter not registered")
	}
	h, err := Open(index, 48000)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if h == 0 {
		t.Fatal("Open returned handle 0")
	}
	slot := Get(h)
	if slot == nil || slot.Handle() != h {
		t.Fatalf("Get(%d) = %v", h, slot)
	}
	return h, slot
}

func TestSlotRun(t *testing.T) {
	h, slot := openMeter(t)
	defer Close(h)

	input := make([]ladspa.Data, 64)
	for i := range input {
		input[i] = 0.5
	}
	readings := make([]ladspa.Data, 4)

	slot.Connect(meter.PortInput, unsafe.Pointer(&input[0]))
	for i := range readings {
		slot.Connect(uint32(meter.PortPeak+i), unsafe.Pointer(&readings[i]))
	}
	slot.Connect(99, unsafe.Pointer(&input[0]))
	slot.Run(len(input))

	want := 20 * math.Log10(0.5)
	if math.Abs(float64(readings[0])-want) > 1e-4 {
		t.Errorf("peak = %f, want %f", readings[0], want)
	}
	if math.Abs(float64(readings[3])) > 1e-4 {
		t.Errorf("crest = %f, want 0", readings[3])
	}

	// Blocks of any length reuse the same addresses.
	input[0] = 1
	slot.Run(1)
	if math.Abs(float64(readings[0])) > 1e-4 {
		t.Errorf("peak of one-sample block = %f, want 0", readings[0])
	}
}

func TestSlotRunWithUnboundPort(t *testing.T) {
	h, slot := openMeter(t)
	defer Close(h)

	input := make([]ladspa.Data, 8)
	peak := []ladspa.Data{42}
	slot.Connect(meter.PortInput, unsafe.Pointer(&input[0]))
	slot.Connect(meter.PortPeak, unsafe.Pointer(&peak[0]))
	slot.Run(8)

	if peak[0] != 42 {
		t.Errorf("Run with unbound outputs wrote peak = %f", peak[0])
	}
}

func TestCloseForgetsHandle(t *testing.T) {
	h, _ := openMeter(t)
	live := Live()

	Close(h)
	if Get(h) != nil {
		t.Error("Get after Close returned a slot")
	}
	if Live() != live-1 {
		t.Errorf("Live() = %d, want %d", Live(), live-1)
	}
	Close(h)
	Close(0)
}

func TestGetDoesNotWaitForWriters(t *testing.T) {
	h, slot := openMeter(t)
	defer Close(h)

	slotsMu.Lock()
	got := make(chan *Slot, 1)
	go func() { got <- Get(h) }()

	select {
	case s := <-got:
		if s != slot {
			t.Errorf("Get(%d) = %v, want %v", h, s, slot)
		}
	case <-time.After(time.Second):
		t.Error("Get blocked while a writer held the table")
	}
	slotsMu.Unlock()
}

func TestGetDuringOpenAndClose(t *testing.T) {
	h, slot := openMeter(t)
	defer Close(h)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			other, err := Open(0, 48000)
			if err != nil {
				t.Errorf("Open: %v", err)
				return
			}
			Close(other)
		}
	}()

	for i := 0; i < 2000; i++ {
		if Get(h) != slot {
			t.Fatal("slot vanished while other handles changed")
		}
	}
	wg.Wait()
}

func TestHandlesAreUnique(t *testing.T) {
	loadLibrary(t)

	seen := make(map[Handle]bool)
	for i := 0; i < 10; i++ {
		h, err := Open(i%Count(), 44100)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if seen[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		seen[h] = true
	}
	for h := range seen {
		Close(h)
	}
}

func TestOpenFailure(t *testing.T) {
	loadLibrary(t)
	live := Live()

	if h, err := Open(17, 48000); err == nil || h != 0 {
		t.Errorf("Open(17) = %d, %v", h, err)
	}
	if h, err := Open(0, 0); err == nil || h != 0 {
		t.Errorf("Open at 0 Hz = %d, %v", h, err)
	}
	if Live() != live {
		t.Error("failed Open registered a handle")
	}
}

func TestUnloadClosesOpenHandles(t *testing.T) {
	h, _ := openMeter(t)
	Unload()

	if Get(h) != nil || Live() != 0 {
		t.Errorf("Unload left %d handles open", Live())
	}
}

type panicking struct{}

func (panicking) ConnectPort(uint32, []ladspa.Data) {}

func (panicking) Run(int) {
	panic("run failed")
}

func (panicking) Cleanup() {}

func TestRecoverAroundRun(t *testing.T) {
	slot := &Slot{Instance: panicking{}, ports: make([]unsafe.Pointer, 2)}

	ran := false
	func() {
		defer Recover("run")
		slot.Run(16)
		ran = true
	}()
	if ran {
		t.Error("Run returned although the instance panicked")
	}
}

func TestRecover(t *testing.T) {
	func() {
		defer Recover("test")
		panic("boom")
	}()
}

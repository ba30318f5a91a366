// Command cmeplugins builds the plugin library as a LADSPA shared object:
//
//	go build -buildmode=c-shared -o cme.so ./cmd/cmeplugins
//
// Hosts find the plugins through ladspa_descriptor. Descriptors are built on
// the first call and freed when the library is unloaded. Logging follows
// CME_LOG_LEVEL and CME_LOG_FILE.
package main

/*
#include <stdint.h>
#include <stdlib.h>
#include "ladspa.h"

void cme_set_callbacks(LADSPA_Descriptor *d, unsigned long index);
*/
import "C"
import (
	"math"
	"sync"
	"unsafe"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/debug"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/plugin"
)

var (
	descMu sync.Mutex
	cDescs []*C.LADSPA_Descriptor
)

//export cmeDescriptor
func cmeDescriptor(index C.ulong) *C.LADSPA_Descriptor {
	defer plugin.Recover("ladspa_descriptor")

	descMu.Lock()
	defer descMu.Unlock()

	if cDescs == nil {
		if err := load(); err != nil {
			debug.Error("ladspa_descriptor: %v", err)
			return nil
		}
	}
	if uint64(index) >= uint64(len(cDescs)) {
		return nil
	}
	return cDescs[index]
}

// load must be called with descMu held.
func load() error {
	cfg, err := plugin.ConfigFromEnv()
	if err != nil {
		debug.Warn("%v", err)
	}
	plugin.SetConfig(cfg)

	if err := plugin.Load(); err != nil {
		return err
	}
	for i, d := range plugin.Descriptors() {
		cDescs = append(cDescs, newCDescriptor(i, d))
	}
	return nil
}

func newCDescriptor(index int, d *ladspa.Descriptor) *C.LADSPA_Descriptor {
	cd := (*C.LADSPA_Descriptor)(C.calloc(1, C.size_t(unsafe.Sizeof(C.LADSPA_Descriptor{}))))
	cd.UniqueID = C.ulong(d.UniqueID)
	cd.Label = C.CString(d.Label)
	cd.Properties = C.LADSPA_Properties(d.Properties)
	cd.Name = C.CString(d.Name)
	cd.Maker = C.CString(d.Maker)
	cd.Copyright = C.CString(d.Copyright)

	n := len(d.Ports)
	cd.PortCount = C.ulong(n)

	descs := (*C.LADSPA_PortDescriptor)(C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(C.LADSPA_PortDescriptor(0)))))
	names := (**C.char)(C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof((*C.char)(nil)))))
	hints := (*C.LADSPA_PortRangeHint)(C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(C.LADSPA_PortRangeHint{}))))

	descSlice := unsafe.Slice(descs, n)
	nameSlice := unsafe.Slice(names, n)
	hintSlice := unsafe.Slice(hints, n)
	for i, p := range d.Ports {
		descSlice[i] = C.LADSPA_PortDescriptor(p.Descriptor)
		nameSlice[i] = C.CString(p.Name)
		hintSlice[i] = C.LADSPA_PortRangeHint{
			HintDescriptor: C.LADSPA_PortRangeHintDescriptor(p.Range.Hint),
			LowerBound:     C.LADSPA_Data(p.Range.LowerBound),
			UpperBound:     C.LADSPA_Data(p.Range.UpperBound),
		}
	}
	cd.PortDescriptors = descs
	cd.PortNames = names
	cd.PortRangeHints = hints

	C.cme_set_callbacks(cd, C.ulong(index))
	return cd
}

func freeCDescriptor(cd *C.LADSPA_Descriptor) {
	n := int(cd.PortCount)
	for _, name := range unsafe.Slice(cd.PortNames, n) {
		C.free(unsafe.Pointer(name))
	}
	C.free(unsafe.Pointer(cd.PortNames))
	C.free(unsafe.Pointer(cd.PortDescriptors))
	C.free(unsafe.Pointer(cd.PortRangeHints))
	C.free(unsafe.Pointer(cd.Label))
	C.free(unsafe.Pointer(cd.Name))
	C.free(unsafe.Pointer(cd.Maker))
	C.free(unsafe.Pointer(cd.Copyright))
	C.free(unsafe.Pointer(cd))
}

//export cmeUnload
func cmeUnload() {
	defer plugin.Recover("unload")

	descMu.Lock()
	defer descMu.Unlock()

	for _, cd := range cDescs {
		freeCDescriptor(cd)
	}
	cDescs = nil
	plugin.Unload()
}

//export cmeInstantiate
func cmeInstantiate(index C.ulong, sampleRate C.ulong) C.uintptr_t {
	defer plugin.Recover("instantiate")

	h, err := plugin.Open(int(index), float64(sampleRate))
	if err != nil {
		debug.Error("instantiate: %v", err)
		return 0
	}
	return C.uintptr_t(h)
}

//export cmeConnectPort
func cmeConnectPort(h C.uintptr_t, port C.ulong, data *C.LADSPA_Data) {
	defer plugin.Recover("connect_port")

	if uint64(port) > math.MaxUint32 {
		return
	}
	if slot := plugin.Get(plugin.Handle(h)); slot != nil {
		slot.Connect(uint32(port), unsafe.Pointer(data))
	}
}

//export cmeRun
func cmeRun(h C.uintptr_t, sampleCount C.ulong) {
	defer plugin.Recover("run")

	if slot := plugin.Get(plugin.Handle(h)); slot != nil {
		slot.Run(int(sampleCount))
	}
}

//export cmeCleanup
func cmeCleanup(h C.uintptr_t) {
	defer plugin.Recover("cleanup")
	plugin.Close(plugin.Handle(h))
}

// Required for c-shared build mode
func main() {}

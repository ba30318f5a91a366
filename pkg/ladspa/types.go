// Package ladspa defines the vocabulary of the LADSPA plugin ABI in Go terms:
// port and hint flags, plugin properties, descriptors and the instance
// lifecycle the host drives.
package ladspa

// Data is the sample and control value type shared with the host.
type Data = float32

// PortDescriptor flags describe the direction and kind of a port.
type PortDescriptor int32

const (
	PortInput PortDescriptor = 1 << iota
	PortOutput
	PortControl
	PortAudio
)

// IsInput reports whether the port carries data into the plugin.
func (p PortDescriptor) IsInput() bool { return p&PortInput != 0 }

// IsOutput reports whether the port carries data out of the plugin.
func (p PortDescriptor) IsOutput() bool { return p&PortOutput != 0 }

// IsControl reports whether the port is a single scalar.
func (p PortDescriptor) IsControl() bool { return p&PortControl != 0 }

// IsAudio reports whether the port is a per-sample buffer.
func (p PortDescriptor) IsAudio() bool { return p&PortAudio != 0 }

// Valid reports whether exactly one direction and one kind are set.
func (p PortDescriptor) Valid() bool {
	return p.IsInput() != p.IsOutput() && p.IsControl() != p.IsAudio()
}

func (p PortDescriptor) String() string {
	dir := "input"
	if p.IsOutput() {
		dir = "output"
	}
	kind := "audio"
	if p.IsControl() {
		kind = "control"
	}
	return dir + " " + kind
}

// HintDescriptor flags, bit-compatible with ladspa.h.
type HintDescriptor int32

const (
	HintBoundedBelow HintDescriptor = 0x1
	HintBoundedAbove HintDescriptor = 0x2
	HintToggled      HintDescriptor = 0x4
	HintSampleRate   HintDescriptor = 0x8
	HintLogarithmic  HintDescriptor = 0x10
	HintInteger      HintDescriptor = 0x20

	HintDefaultMask    HintDescriptor = 0x3C0
	HintDefaultNone    HintDescriptor = 0x0
	HintDefaultMinimum HintDescriptor = 0x40
	HintDefaultLow     HintDescriptor = 0x80
	HintDefaultMiddle  HintDescriptor = 0xC0
	HintDefaultHigh    HintDescriptor = 0x100
	HintDefaultMaximum HintDescriptor = 0x140
	HintDefault0       HintDescriptor = 0x200
	HintDefault1       HintDescriptor = 0x240
	HintDefault100     HintDescriptor = 0x280
	HintDefault440     HintDescriptor = 0x2C0
)

// Default returns the default-value field of the hint.
func (h HintDescriptor) Default() HintDescriptor { return h & HintDefaultMask }

// Property flags of a plugin.
type Property int32

const (
	PropertyRealtime      Property = 0x1
	PropertyInplaceBroken Property = 0x2
	PropertyHardRTCapable Property = 0x4
)

// PortRangeHint carries the numeric range a host should offer for a port.
type PortRangeHint struct {
	Hint       HintDescriptor
	LowerBound Data
	UpperBound Data
}

// DefaultValue resolves the hinted default the way hosts do. ok is false
// when the hint declares no default.
func (r PortRangeHint) DefaultValue() (value Data, ok bool) {
	switch r.Hint.Default() {
	case HintDefaultMinimum:
		return r.LowerBound, true
	case HintDefaultLow:
		return r.LowerBound*0.75 + r.UpperBound*0.25, true
	case HintDefaultMiddle:
		return r.LowerBound*0.5 + r.UpperBound*0.5, true
	case HintDefaultHigh:
		return r.LowerBound*0.25 + r.UpperBound*0.75, true
	case HintDefaultMaximum:
		return r.UpperBound, true
	case HintDefault0:
		return 0, true
	case HintDefault1:
		return 1, true
	case HintDefault100:
		return 100, true
	case HintDefault440:
		return 440, true
	}
	return 0, false
}

// Clamp limits v to the declared bounds. Unbounded sides pass through.
func (r PortRangeHint) Clamp(v Data) Data {
	if r.Hint&HintBoundedBelow != 0 && v < r.LowerBound {
		v = r.LowerBound
	}
	if r.Hint&HintBoundedAbove != 0 && v > r.UpperBound {
		v = r.UpperBound
	}
	return v
}

// Error codes
type Error int

const (
	ErrInvalidDescriptor Error = -1
	ErrUnknownPlugin     Error = -2
	ErrNotLoaded         Error = -3
	ErrInvalidSampleRate Error = -4
)

func (e Error) Error() string {
	switch e {
	case ErrInvalidDescriptor:
		return "invalid descriptor"
	case ErrUnknownPlugin:
		return "unknown plugin"
	case ErrNotLoaded:
		return "plugin library not loaded"
	case ErrInvalidSampleRate:
		return "invalid sample rate"
	default:
		return "unknown error"
	}
}

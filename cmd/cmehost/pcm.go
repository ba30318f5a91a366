package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/signal"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
)

type setting struct {
	name  string
	value ladspa.Data
}

// settingList collects repeated -set Name=value flags.
type settingList []setting

func (l *settingList) String() string {
	parts := make([]string, len(*l))
	for i, s := range *l {
		parts[i] = fmt.Sprintf("%s=%g", s.name, s.value)
	}
	return strings.Join(parts, ",")
}

func (l *settingList) Set(arg string) error {
	name, raw, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("want Name=value, got %q", arg)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*l = append(*l, setting{name: name, value: ladspa.Data(v)})
	return nil
}

// generateInputs renders the same test signal on every channel.
func generateInputs(channels int, kind signal.Kind, rate, freq, amp, seconds float64) ([][]ladspa.Data, error) {
	if seconds < 0 || rate <= 0 {
		return nil, errors.New("signal length and sample rate must be positive")
	}
	samples := signal.New(kind, rate, freq, amp, 1).Generate(int(seconds * rate))

	inputs := make([][]ladspa.Data, channels)
	for ch := range inputs {
		inputs[ch] = samples
	}
	return inputs, nil
}

func readPCM(path string, channels int) ([][]ladspa.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodePCM(bufio.NewReader(f), channels)
}

// decodePCM reads interleaved float32 little-endian frames. A trailing
// partial frame is an error.
func decodePCM(r io.Reader, channels int) ([][]ladspa.Data, error) {
	if channels == 0 {
		return nil, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	frameBytes := 4 * channels
	if len(data)%frameBytes != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d-channel float32 frames", len(data), channels)
	}

	frames := len(data) / frameBytes
	out := make([][]ladspa.Data, channels)
	for ch := range out {
		out[ch] = make([]ladspa.Data, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 4
			out[ch][i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out, nil
}

func writePCM(path string, channels [][]ladspa.Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := encodePCM(w, channels); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// encodePCM interleaves equally long channels as float32 little-endian.
func encodePCM(w io.Writer, channels [][]ladspa.Data) error {
	if len(channels) == 0 {
		return nil
	}
	var buf [4]byte
	for i := range channels[0] {
		for _, ch := range channels {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(ch[i]))
			if _, err := w.Write(buf[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Package signal generates test signals for running plugins offline.
package signal

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Kind selects a waveform.
type Kind int

const (
	// Sine has a crest factor of 3.01 dB
	Sine Kind = iota
	// Square has a crest factor of 0 dB
	Square
	// Noise is uniform white noise in [-1, 1)
	Noise
	// Silence is all zeros
	Silence
)

var kindNames = []string{"sine", "square", "noise", "silence"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the names printed by String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return Sine, fmt.Errorf("unknown signal %q (want one of %s)", s, strings.Join(kindNames, ", "))
}

// Generator produces a waveform block by block, keeping its phase between
// blocks.
type Generator struct {
	kind       Kind
	sampleRate float64
	amplitude  float64
	phase      float64
	phaseInc   float64
	rand       *rand.Rand
}

// New creates a generator. seed only affects Noise.
func New(kind Kind, sampleRate, frequency, amplitude float64, seed int64) *Generator {
	return &Generator{
		kind:       kind,
		sampleRate: sampleRate,
		amplitude:  amplitude,
		phaseInc:   frequency / sampleRate,
		rand:       rand.New(rand.NewSource(seed)),
	}
}

// Reset restarts the waveform at phase 0.
func (g *Generator) Reset() {
	g.phase = 0
}

func (g *Generator) advance() {
	g.phase += g.phaseInc
	if g.phase >= 1.0 {
		g.phase -= math.Floor(g.phase)
	}
}

// Next returns one sample.
func (g *Generator) Next() float32 {
	var v float64
	switch g.kind {
	case Sine:
		v = math.Sin(2.0 * math.Pi * g.phase)
	case Square:
		v = 1
		if g.phase >= 0.5 {
			v = -1
		}
	case Noise:
		v = g.rand.Float64()*2 - 1
	case Silence:
		return 0
	}
	g.advance()
	return float32(g.amplitude * v)
}

// Fill writes len(dst) samples.
func (g *Generator) Fill(dst []float32) {
	for i := range dst {
		dst[i] = g.Next()
	}
}

// Generate returns n fresh samples.
func (g *Generator) Generate(n int) []float32 {
	out := make([]float32, n)
	g.Fill(out)
	return out
}

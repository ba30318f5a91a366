// Command cmehost runs one plugin of the library offline and prints what
// it measured.
//
// Usage:
//
//	cmehost [flags] plugin
//
// plugin is a label (gain_mono, cme_meter, ...) or a unique id. The input is
// a generated test signal, or raw interleaved float32 little-endian PCM with one
// channel per plugin input.
//
// Examples:
//
//	cmehost -list
//	cmehost -set Gain=-6 -out quiet.f32 gain_mono
//	cmehost -signal square -freq 1000 -amp 0.25 -blocks cme_meter
//	cmehost -in mix.f32 -set Balance=0.5 -profile cme_balance
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/analysis"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/dsp/signal"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/debug"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/host"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/ladspa"
	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/plugin"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit status. Deferred cleanup always runs before main
// exits.
func run(args []string) int {
	fs := flag.NewFlagSet("cmehost", flag.ContinueOnError)
	rate := fs.Float64("rate", 48000, "sample rate in Hz")
	block := fs.Int("block", host.DefaultBlockSize, "block size in samples")
	wave := fs.String("signal", "sine", "generated signal: sine, square, noise or silence")
	freq := fs.Float64("freq", 440, "frequency of the generated signal in Hz")
	amp := fs.Float64("amp", 0.5, "amplitude of the generated signal")
	seconds := fs.Float64("seconds", 1, "length of the generated signal")
	in := fs.String("in", "", "raw float32 input file (default: generated signal)")
	out := fs.String("out", "", "write the outputs as raw float32 to this file")
	list := fs.Bool("list", false, "list the plugins and their ports")
	blocks := fs.Bool("blocks", false, "print output controls after every block")
	profile := fs.Bool("profile", false, "time every Run call")
	level := fs.String("log", "warn", "log level (debug, info, warn, error, off)")
	var settings settingList
	fs.Var(&settings, "set", "set an input control, Name=value (repeatable)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cmehost [flags] plugin\n\n")
		fmt.Fprintf(os.Stderr, "Runs a plugin over a signal and prints its readings.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cmehost -list\n")
		fmt.Fprintf(os.Stderr, "  cmehost -set Gain=-6 -out quiet.f32 gain_mono\n")
		fmt.Fprintf(os.Stderr, "  cmehost -signal square -freq 1000 -blocks cme_meter\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	lvl, err := debug.ParseLevel(*level)
	if err != nil {
		return fail("%v", err)
	}
	plugin.SetConfig(plugin.Config{LogLevel: lvl})
	if err := plugin.Load(); err != nil {
		return fail("loading plugins: %v", err)
	}
	defer plugin.Unload()

	if *list {
		printList()
		return 0
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	s, err := host.Open(fs.Arg(0), *rate, *block)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	for _, kv := range settings {
		v, err := s.Set(kv.name, kv.value)
		if err != nil {
			return fail("%v", err)
		}
		if v != kv.value {
			fmt.Fprintf(os.Stderr, "%s clamped to %g\n", kv.name, v)
		}
	}

	var inputs [][]ladspa.Data
	if *in != "" {
		inputs, err = readPCM(*in, s.Inputs())
	} else {
		var kind signal.Kind
		if kind, err = signal.ParseKind(*wave); err == nil {
			inputs, err = generateInputs(s.Inputs(), kind, *rate, *freq, *amp, *seconds)
		}
	}
	if err != nil {
		return fail("%v", err)
	}

	var prof *debug.RunProfiler
	if *profile {
		prof = debug.NewRunProfiler(*rate, 0)
		s.Profile(prof)
	}

	res, err := s.Process(inputs)
	if err != nil {
		return fail("%v", err)
	}

	printResult(s, inputs, res, *blocks)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if prof != nil {
		fmt.Print(prof.Report(s.Descriptor.Label))
	}

	if *out != "" && len(res.Outputs) > 0 {
		if err := writePCM(*out, res.Outputs); err != nil {
			return fail("%v", err)
		}
	}
	return 0
}

// fail reports an error and returns the exit status for it.
func fail(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return 1
}

func printList() {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, d := range plugin.Descriptors() {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", i, d.UniqueID, d.Label, d.Name)
		for _, p := range d.Ports {
			fmt.Fprintf(tw, "\t\t  %d %s\t%s\t%s\n", p.Index, p.Name, p.Descriptor, describeRange(p))
		}
	}
	tw.Flush()
}

func describeRange(p ladspa.Port) string {
	if !p.Descriptor.IsControl() {
		return ""
	}
	var parts []string
	if p.Range.Hint&ladspa.HintToggled != 0 {
		parts = append(parts, "toggle")
	}
	if p.Range.Hint&ladspa.HintBoundedBelow != 0 && p.Range.Hint&ladspa.HintBoundedAbove != 0 {
		parts = append(parts, fmt.Sprintf("[%g, %g]", p.Range.LowerBound, p.Range.UpperBound))
	}
	if v, ok := p.Range.DefaultValue(); ok {
		parts = append(parts, fmt.Sprintf("default %g", v))
	}
	return strings.Join(parts, " ")
}

func printResult(s *host.Session, inputs [][]ladspa.Data, res *host.Result, perBlock bool) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s: %d blocks\n", s.Descriptor.Name, res.Blocks)

	ctl := s.ControlOutputs()
	if perBlock {
		for b, values := range res.Controls {
			fmt.Fprintf(tw, "block %d", b)
			for i, v := range values {
				fmt.Fprintf(tw, "\t%s %.2f", ctl[i].Name, v)
			}
			fmt.Fprintln(tw)
		}
	} else if len(res.Controls) > 0 {
		last := res.Controls[len(res.Controls)-1]
		for i, p := range ctl {
			fmt.Fprintf(tw, "%s\t%.2f\n", p.Name, last[i])
		}
	}

	// Whole-signal readings next to the plugin's per-block ones.
	var wide []float64
	summarize := func(name string, samples []ladspa.Data) {
		wide = analysis.Widen(wide, samples)
		sum := analysis.Summarize(wide)
		fmt.Fprintf(tw, "%s\tpeak %.2f dB\trms %.2f dB\tcrest %.2f dB\n", name, sum.PeakDB(), sum.RMSDB(), sum.CrestDB())
	}
	for i, samples := range inputs {
		summarize(fmt.Sprintf("input %d", i), samples)
	}
	for i, samples := range res.Outputs {
		summarize(fmt.Sprintf("output %d", i), samples)
	}
	tw.Flush()
}

// Pirsim stands in for cpu_bench and pim_bench when no UPMEM system is
// available. It accepts the same key=value arguments and prints reports
// in the same format, with timings from a fixed cost model, so a sweep
// over pirsim is fully deterministic.
//
// The flavour is chosen by the executable name: link or copy pirsim to
// cpu_bench and pim_bench inside the build directory.
//
// Every value is printed in fixed notation, so reports stay readable by
// the plain decimal patterns at any logN.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	recordBytes = 32
	bytesPerGB  = 1 << 30
)

func main() {
	pim := strings.Contains(filepath.Base(os.Args[0]), "pim")

	if err := run(os.Stdout, pim, os.Args[1:]); err != nil {
		fatal("%v", err)
	}
}

type options struct {
	mode    string
	logN    int
	reps    int
	batch   int
	cluster int
	dpus    int
}

func parseArgs(args []string) (map[string]string, error) {
	kv := make(map[string]string, len(args))

	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("malformed argument %q, want key=value", a)
		}

		kv[k] = v
	}

	return kv, nil
}

func intArg(kv map[string]string, key string, def int) (int, error) {
	s, ok := kv[key]
	if !ok {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s=%s", key, s)
	}

	return v, nil
}

func parseOptions(args []string) (options, error) {
	kv, err := parseArgs(args)
	if err != nil {
		return options{}, err
	}

	if kv["mode"] == "" || kv["logN"] == "" {
		return options{}, fmt.Errorf("usage: mode=<mode> logN=<n> [batch=<b>] [reps=<r>]")
	}

	opts := options{mode: kv["mode"]}

	for _, a := range []struct {
		key string
		dst *int
		def int
	}{
		{"logN", &opts.logN, 0},
		{"reps", &opts.reps, 10},
		{"batch", &opts.batch, 0},
		{"cluster", &opts.cluster, 1},
		{"num_dpus", &opts.dpus, 128},
	} {
		if *a.dst, err = intArg(kv, a.key, a.def); err != nil {
			return options{}, err
		}
	}

	if opts.logN > 40 {
		return options{}, fmt.Errorf("logN=%d too large", opts.logN)
	}

	return opts, nil
}

func run(w io.Writer, pim bool, args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	elements := float64(uint64(1) << opts.logN)

	fmt.Fprintf(w, "Database Size: %s GB\n", num(elements*recordBytes/bytesPerGB))

	// Cost model: scanning the database dominates, DPF evaluation is
	// linear in the number of elements.
	evalMs := elements * 4e-6
	keyGenMs := 0.04
	scanMs := elements * 6e-6

	switch {
	case !pim && opts.mode == "single8", !pim && opts.mode == "single":
		event(w, "DPF.Eval", evalMs)
		event(w, "DPF.KeyGen", keyGenMs)
		event(w, "PIR.CPU", evalMs+scanMs)

	case !pim && (opts.mode == "batch8" || opts.mode == "batch"):
		if opts.batch == 0 {
			return fmt.Errorf("missing 'batch' parameter for batch mode")
		}

		batchMs := float64(opts.batch) * (evalMs + scanMs) * 0.8
		fmt.Fprintf(w, "Batch size: %d\n", opts.batch)
		fmt.Fprintf(w, "Throughput : %s DPFs/sec\n", num(float64(opts.batch)*1000/batchMs))
		event(w, fmt.Sprintf("Batch = %d", opts.batch), batchMs)

	case pim && opts.mode == "single":
		dbGB := elements * recordBytes / bytesPerGB
		cpu2pim := 0.5 + float64(opts.dpus)*0.01
		exec := scanMs * 64 / float64(opts.dpus)
		pim2cpu := 0.2 + float64(opts.dpus)*0.004
		agg := 2.5e-05 * (1 + dbGB)

		event(w, "COPY.CPU->PIM", cpu2pim)
		event(w, "DPF.Eval", evalMs)
		event(w, "DPF.KeyGen", keyGenMs)
		event(w, "PIR.PIMexec", exec)
		event(w, "COPY.PIM->CPU", pim2cpu)
		event(w, "PIR.Aggregate", agg)
		event(w, "PIR.PIM_Total", cpu2pim+evalMs+exec+pim2cpu+agg)

	case pim && opts.mode == "batch":
		exec := scanMs * 64 / float64(opts.dpus)
		batchMs := evalMs*float64(opts.batch) + exec*float64(opts.batch)/float64(opts.cluster)
		event(w, fmt.Sprintf("Batch = %d", opts.batch), batchMs)
		fmt.Fprintf(w, "Throughput: %s q/s\n", num(float64(opts.batch)*1000/batchMs))

	default:
		return fmt.Errorf("unknown mode: %s", opts.mode)
	}

	return nil
}

func event(w io.Writer, name string, ms float64) {
	fmt.Fprintf(w, "%s : %s ms\n", name, num(ms))
}

// num keeps six significant digits, like an ostream with default
// precision, but never switches to exponent form.
func num(v float64) string {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 6, 64), 64)
	if err != nil {
		r = v
	}

	return strconv.FormatFloat(r, 'f', -1, 64)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "pirsim: "+format+"\n", args...)
	os.Exit(1)
}

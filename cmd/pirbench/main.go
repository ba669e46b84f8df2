// Package main provides the CLI entry point for pirbench, which sweeps the
// CPU and PIM private information retrieval benchmarks and derives
// comparison tables for plotting.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func main() {
	logger := newLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("pirbench failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

// newLogger logs text to terminals and JSON everywhere else.
func newLogger(w *os.File) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var h slog.Handler
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h)
}

type globalOptions struct {
	configPath string
	buildDir   string
	outputDir  string
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:   "pirbench",
		Short: "CPU vs PIM private information retrieval benchmark driver",
		Long: `Pirbench runs the cpu_bench and pim_bench binaries over a sweep of
database sizes, batch sizes and DPU counts, records the reported timings
as CSV tables, and derives tab separated comparison tables for plotting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "",
		"YAML file overriding the reference sweep configuration")
	flags.StringVar(&opts.buildDir, "build-dir", "",
		"Directory holding the benchmark binaries (default from config)")
	flags.StringVar(&opts.outputDir, "output-dir", "",
		"Directory for result and comparison tables (default from config)")

	root.AddCommand(
		newRunCmd(logger, &opts),
		newSweepCmd(logger, &opts),
		newCompareCmd(logger, &opts),
		newConfigCmd(&opts),
	)

	return root
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/weiihann/pirbench/harness"
	"github.com/weiihann/pirbench/report"
	"github.com/weiihann/pirbench/sweep"
	"github.com/weiihann/pirbench/table"
	"github.com/weiihann/pirbench/workload"
)

func newRunCmd(logger *slog.Logger, opts *globalOptions) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep every enabled mode, then build the comparison tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			if err := runSweep(cmd.Context(), logger, cfg, nil); err != nil {
				return err
			}

			return runCompare(cmd.Context(), logger, cfg, cmd.OutOrStdout(), outputJSON)
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false,
		"Print the comparison summary as JSON instead of markdown")

	return cmd
}

func newSweepCmd(logger *slog.Logger, opts *globalOptions) *cobra.Command {
	var modes []string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the benchmark sweeps and record the result tables",
		Long: `Delete the result tables of the selected modes and rebuild them by
running every configured parameter combination. The first failing run
aborts the sweep.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			selected, err := parseModes(modes)
			if err != nil {
				return err
			}

			return runSweep(cmd.Context(), logger, cfg, selected)
		},
	}

	cmd.Flags().StringSliceVar(&modes, "modes", nil,
		"Modes to sweep (default: all enabled), e.g. cpu_batch,pim_batch")

	return cmd
}

func newCompareCmd(logger *slog.Logger, opts *globalOptions) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Build the comparison tables from existing result tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			return runCompare(cmd.Context(), logger, cfg, cmd.OutOrStdout(), outputJSON)
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false,
		"Print the comparison summary as JSON instead of markdown")

	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			data, err := cfg.Marshal()
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
}

func loadConfig(cmd *cobra.Command, opts *globalOptions) (workload.Config, error) {
	cfg := workload.DefaultConfig()

	if opts.configPath != "" {
		var err error

		cfg, err = workload.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("build-dir") {
		cfg.BuildDir = opts.buildDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func parseModes(names []string) ([]workload.Mode, error) {
	modes := make([]workload.Mode, 0, len(names))

	for _, name := range names {
		m, ok := workload.ParseMode(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown mode %q", name)
		}

		modes = append(modes, m)
	}

	return modes, nil
}

func runSweep(
	ctx context.Context,
	logger *slog.Logger,
	cfg workload.Config,
	modes []workload.Mode,
) error {
	logger = logger.With(slog.String("session", uuid.NewString()[:8]))

	buildDir, err := filepath.Abs(cfg.BuildDir)
	if err != nil {
		return fmt.Errorf("resolve build dir: %w", err)
	}

	gen := workload.NewGenerator(cfg)
	if len(modes) == 0 {
		modes = gen.Enabled()
	}

	binaries := map[harness.Kind]string{
		harness.CPU: harness.ResolveBinary(buildDir, cfg.CPUBinary),
		harness.PIM: harness.ResolveBinary(buildDir, cfg.PIMBinary),
	}

	for _, kind := range kindsOf(modes) {
		if err := harness.CheckBinary(binaries[kind]); err != nil {
			return err
		}
	}

	summary := gen.Summary()

	logger.InfoContext(ctx, "starting sweep",
		slog.String("build_dir", buildDir),
		slog.String("output_dir", cfg.OutputDir),
		slog.Any("modes", modes),
		slog.Any("log_ns", cfg.LogNs),
		slog.Any("batch_sizes", cfg.BatchSizes),
		slog.Int("max_dpus", cfg.MaxDPUs()),
		slog.Int("reps", cfg.Reps),
		slog.Int("excluded_runs", summary.Excluded),
	)

	cpu := harness.NewRunner(string(harness.CPU), binaries[harness.CPU], buildDir, logger)
	pim := harness.NewRunner(string(harness.PIM), binaries[harness.PIM], buildDir, logger)

	driver := sweep.NewDriver(cfg, table.NewStore(cfg.OutputDir), cpu, pim, logger)

	res, err := driver.Run(ctx, modes...)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "sweep complete",
		slog.Duration("elapsed", res.Elapsed),
		slog.Any("rows", res.Rows),
	)

	return nil
}

func kindsOf(modes []workload.Mode) []harness.Kind {
	var cpu, pim bool

	for _, m := range modes {
		if strings.HasPrefix(string(m), string(harness.CPU)+"_") {
			cpu = true
		} else {
			pim = true
		}
	}

	var kinds []harness.Kind
	if cpu {
		kinds = append(kinds, harness.CPU)
	}
	if pim {
		kinds = append(kinds, harness.PIM)
	}

	return kinds
}

func runCompare(
	ctx context.Context,
	logger *slog.Logger,
	cfg workload.Config,
	w io.Writer,
	outputJSON bool,
) error {
	builder := report.NewBuilder(cfg, table.NewStore(cfg.OutputDir), logger)

	comparisons, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("build comparisons: %w", err)
	}

	if outputJSON {
		if err := report.GenerateJSON(w, comparisons); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}

		return nil
	}

	if err := report.Generate(w, comparisons); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	return nil
}

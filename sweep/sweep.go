// Package sweep runs the benchmark sweeps and records one result row per
// run.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weiihann/pirbench/harness"
	"github.com/weiihann/pirbench/metric"
	"github.com/weiihann/pirbench/table"
	"github.com/weiihann/pirbench/workload"
)

// Driver executes sweep modes one run at a time.
type Driver struct {
	gen    *workload.Generator
	store  *table.Store
	cpu    harness.Invoker
	pim    harness.Invoker
	logger *slog.Logger
}

// Result counts the rows written per mode.
type Result struct {
	Rows    map[workload.Mode]int
	Elapsed time.Duration
}

// NewDriver creates a Driver for cfg writing into store.
func NewDriver(
	cfg workload.Config,
	store *table.Store,
	cpu, pim harness.Invoker,
	logger *slog.Logger,
) *Driver {
	return &Driver{
		gen:    workload.NewGenerator(cfg),
		store:  store,
		cpu:    cpu,
		pim:    pim,
		logger: logger,
	}
}

// Run deletes the result tables of the selected modes and then sweeps
// them in execution order. With no modes given, every mode enabled by
// the configuration runs. The first failing run aborts the session.
func (d *Driver) Run(ctx context.Context, modes ...workload.Mode) (Result, error) {
	res := Result{Rows: make(map[workload.Mode]int)}

	if len(modes) == 0 {
		modes = d.gen.Enabled()
	}

	specs := make([]Spec, 0, len(modes))
	tables := make([]string, 0, len(modes))

	for _, m := range modes {
		spec, err := NewSpec(m, d.cpu, d.pim)
		if err != nil {
			return res, err
		}

		specs = append(specs, spec)
		tables = append(tables, m.Table())
	}

	if err := d.store.Reset(tables...); err != nil {
		return res, fmt.Errorf("reset tables: %w", err)
	}

	start := time.Now()

	for _, spec := range specs {
		n, err := d.runMode(ctx, spec)
		res.Rows[spec.Mode] = n

		if err != nil {
			res.Elapsed = time.Since(start)

			return res, fmt.Errorf("sweep %s: %w", spec.Mode, err)
		}
	}

	res.Elapsed = time.Since(start)

	return res, nil
}

func (d *Driver) runMode(ctx context.Context, spec Spec) (int, error) {
	points := d.gen.Points(spec.Mode)
	logger := d.logger.With(slog.String("mode", string(spec.Mode)))

	logger.InfoContext(ctx, "sweep started", slog.Int("runs", len(points)))

	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		row, err := d.runPoint(ctx, spec, p)
		if err != nil {
			return i, err
		}

		if err := d.store.Append(spec.Mode.Table(), spec.Mode.Schema(), row); err != nil {
			return i, err
		}

		logger.InfoContext(ctx, "row recorded",
			slog.Int("run", i+1),
			slog.Int("of", len(points)),
			slog.String("size_gb", row[workload.ColSize]),
		)
	}

	return len(points), nil
}

// runPoint produces the row of one run. No row is returned unless every
// metric of the mode was extracted.
func (d *Driver) runPoint(ctx context.Context, spec Spec, p workload.Point) (table.Row, error) {
	params := spec.Params(p)

	report, err := spec.Invoker.Run(ctx, params)
	if err != nil {
		return nil, err
	}

	metrics, err := metric.Extract(report, spec.Patterns)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", params.String(), err)
	}

	row := spec.Columns(p)
	row[workload.ColSize] = formatSize(metric.ExtractSize(report))

	names := spec.Metrics
	if names == nil {
		names = spec.Patterns.Names()
	}

	for _, name := range names {
		v, ok := metrics[name]
		if !ok {
			return nil, fmt.Errorf("mode %s stores undeclared metric %q", spec.Mode, name)
		}

		row[name] = table.FormatFloat(v)
	}

	return row, nil
}

func formatSize(s metric.Size) string {
	if !s.Known {
		return table.Unknown
	}

	if s.Integral() {
		return table.FormatInt(int(s.GB))
	}

	return table.FormatFloat(s.GB)
}

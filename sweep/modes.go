package sweep

import (
	"fmt"

	"github.com/weiihann/pirbench/harness"
	"github.com/weiihann/pirbench/metric"
	"github.com/weiihann/pirbench/table"
	"github.com/weiihann/pirbench/workload"
)

// Spec binds a sweep mode to the binary it runs and the way its reports
// become table rows.
type Spec struct {
	Mode     workload.Mode
	Invoker  harness.Invoker
	Patterns metric.PatternSet
	// Metrics lists the extracted metrics stored in the table. Every
	// pattern is still required to match.
	Metrics []string
	Params  func(workload.Point) harness.Params
	Columns func(workload.Point) table.Row
}

// NewSpec returns the Spec of mode using cpu and pim to run the two
// benchmark binaries.
func NewSpec(mode workload.Mode, cpu, pim harness.Invoker) (Spec, error) {
	switch mode {
	case workload.CPUSingle:
		return Spec{
			Mode:     mode,
			Invoker:  cpu,
			Patterns: metric.CPUSingle(),
			Params: func(p workload.Point) harness.Params {
				return harness.Params{}.
					WithInt("logN", p.LogN).
					With("mode", "single8").
					WithInt("reps", p.Reps)
			},
			Columns: sizeColumns,
		}, nil

	case workload.CPUBatch:
		return Spec{
			Mode:     mode,
			Invoker:  cpu,
			Patterns: metric.Batch(),
			Params: func(p workload.Point) harness.Params {
				return harness.Params{}.
					WithInt("logN", p.LogN).
					With("mode", "batch8").
					WithInt("batch", p.Batch).
					WithInt("reps", p.Reps)
			},
			Columns: batchColumns,
		}, nil

	case workload.DPUScaling:
		return Spec{
			Mode:     mode,
			Invoker:  pim,
			Patterns: metric.PIMSingle(),
			Metrics:  []string{"cpu2pim", "pir_exec", "pim2cpu"},
			Params:   pimSingleParams,
			Columns: func(p workload.Point) table.Row {
				return table.Row{
					workload.ColDPUs: table.FormatInt(p.DPUs),
					workload.ColLogN: table.FormatInt(p.LogN),
				}
			},
		}, nil

	case workload.PIMSingle:
		return Spec{
			Mode:     mode,
			Invoker:  pim,
			Patterns: metric.PIMSingle(),
			Params:   pimSingleParams,
			Columns:  sizeColumns,
		}, nil

	case workload.PIMBatch:
		return Spec{
			Mode:     mode,
			Invoker:  pim,
			Patterns: metric.Batch(),
			Params:   pimBatchParams,
			Columns:  batchColumns,
		}, nil

	case workload.PIMCluster:
		return Spec{
			Mode:     mode,
			Invoker:  pim,
			Patterns: metric.Batch(),
			Params:   pimBatchParams,
			Columns: func(p workload.Point) table.Row {
				row := batchColumns(p)
				row[workload.ColClusters] = table.FormatInt(p.Cluster)

				return row
			},
		}, nil

	default:
		return Spec{}, fmt.Errorf("unknown mode %q", mode)
	}
}

func pimSingleParams(p workload.Point) harness.Params {
	return harness.Params{}.
		WithInt("num_dpus", p.DPUs).
		With("mode", "single").
		WithInt("logN", p.LogN).
		WithInt("reps", p.Reps)
}

// pimBatchParams orders arguments as num_dpus, mode, logN, batch,
// [cluster], reps.
func pimBatchParams(p workload.Point) harness.Params {
	base := harness.Params{}.
		WithInt("num_dpus", p.DPUs).
		With("mode", "batch").
		WithInt("logN", p.LogN).
		WithInt("batch", p.Batch)

	if p.Cluster > 0 {
		base = base.WithInt("cluster", p.Cluster)
	}

	return base.WithInt("reps", p.Reps)
}

func sizeColumns(p workload.Point) table.Row {
	return table.Row{workload.ColLogN: table.FormatInt(p.LogN)}
}

func batchColumns(p workload.Point) table.Row {
	return table.Row{
		workload.ColLogN:  table.FormatInt(p.LogN),
		workload.ColBatch: table.FormatInt(p.Batch),
	}
}

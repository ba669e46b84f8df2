package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/weiihann/pirbench/table"
	"github.com/weiihann/pirbench/workload"
)

// Builder derives the plot tables from the result tables of a finished
// sweep. It never modifies the result tables.
type Builder struct {
	cfg    workload.Config
	store  *table.Store
	logger *slog.Logger
}

// NewBuilder creates a Builder reading from and writing into store.
func NewBuilder(cfg workload.Config, store *table.Store, logger *slog.Logger) *Builder {
	return &Builder{cfg: cfg.Clone(), store: store, logger: logger}
}

type batchPlot struct {
	name   string
	metric string
	header []string
	// fixedSize selects FixedSize instead of FixedBatch.
	fixedSize bool
}

// The batch_plot1_thoughput.dat spelling is what the plotting scripts
// read.
var batchPlots = []batchPlot{
	{
		name:   "batch_plot1_latency.dat",
		metric: workload.ColLatency,
		header: []string{"DB_Size", "CPU_Latency", "PIM_Latency"},
	},
	{
		name:   "batch_plot1_thoughput.dat",
		metric: workload.ColThroughput,
		header: []string{"DB_Size", "CPU_Throughput", "PIM_Throughput"},
	},
	{
		name:      "batch_plot2_latency.dat",
		metric:    workload.ColLatency,
		header:    []string{"BatchSize", "CPU_Latency", "PIM_Latency"},
		fixedSize: true,
	},
	{
		name:      "batch_plot2_throughput.dat",
		metric:    workload.ColThroughput,
		header:    []string{"BatchSize", "CPU_Throughput", "PIM_Throughput"},
		fixedSize: true,
	},
}

// Build computes every comparison and writes each as a .dat file next to
// the result tables. Cluster pivots are included when the cluster sweep
// is enabled.
func (b *Builder) Build(ctx context.Context) ([]Comparison, error) {
	cpu, err := b.store.Load(workload.CPUBatch.Table())
	if err != nil {
		return nil, err
	}

	pim, err := b.store.Load(workload.PIMBatch.Table())
	if err != nil {
		return nil, err
	}

	comparisons := make([]Comparison, 0, len(batchPlots)+2)

	for _, p := range batchPlots {
		var cmp Comparison

		if p.fixedSize {
			cmp, err = FixedSize(cpu, pim, b.cfg.FixedDBSizeGB, p.metric, p.header)
		} else {
			cmp, err = FixedBatch(cpu, pim, p.metric, p.header)
		}

		if err != nil {
			return nil, fmt.Errorf("build %s: %w", p.name, err)
		}

		cmp.Name = p.name
		comparisons = append(comparisons, cmp)
	}

	if b.cfg.Cluster {
		pivots, err := b.clusterPivots()
		if err != nil {
			return nil, err
		}

		comparisons = append(comparisons, pivots...)
	}

	for i := range comparisons {
		cmp := &comparisons[i]
		cmp.File = b.store.Path(cmp.Name)

		if err := WriteDat(cmp.File, *cmp); err != nil {
			return nil, err
		}

		b.logger.InfoContext(ctx, "comparison written",
			slog.String("file", cmp.File),
			slog.Int("rows", len(cmp.Rows)),
		)
	}

	return comparisons, nil
}

func (b *Builder) clusterPivots() ([]Comparison, error) {
	t, err := b.store.Load(workload.PIMCluster.Table())
	if err != nil {
		return nil, err
	}

	header := []string{workload.ColBatch}
	for _, c := range b.cfg.Clusters {
		header = append(header, "C"+strconv.Itoa(c))
	}

	latency, err := ClusterPivot(t, b.cfg.Clusters, workload.ColLatency, header)
	if err != nil {
		return nil, fmt.Errorf("build cluster latency: %w", err)
	}

	latency.Name = "pim_cluster_latency.dat"

	throughput, err := ClusterPivot(t, b.cfg.Clusters, workload.ColThroughput, header)
	if err != nil {
		return nil, fmt.Errorf("build cluster throughput: %w", err)
	}

	throughput.Name = "pim_cluster.dat"

	return []Comparison{latency, throughput}, nil
}

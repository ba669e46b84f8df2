// Package workload describes the benchmark sweep: its configuration and
// the ordered list of runs each sweep mode performs.
package workload

// Mode names a sweep. Each mode owns one result table.
type Mode string

const (
	CPUSingle  Mode = "cpu_single"
	CPUBatch   Mode = "cpu_batch"
	DPUScaling Mode = "dpu_scaling"
	PIMSingle  Mode = "pim_single"
	PIMBatch   Mode = "pim_batch"
	PIMCluster Mode = "pim_cluster"
)

// AllModes returns every mode in execution order.
func AllModes() []Mode {
	return []Mode{CPUSingle, CPUBatch, DPUScaling, PIMSingle, PIMBatch, PIMCluster}
}

// Point is one benchmark run. Axes a mode does not use are zero.
type Point struct {
	Mode    Mode
	LogN    int
	Batch   int
	DPUs    int
	Cluster int
	Reps    int
}

// Summary counts the runs of a plan.
type Summary struct {
	TotalRuns int
	// Excluded counts batch runs skipped for exceeding MaxBatchLogN.
	Excluded int
	PerMode  map[Mode]int
}

// Generator expands a Config into runs.
type Generator struct {
	cfg Config
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg.Clone()}
}

// Enabled returns the modes the configuration turns on, in execution
// order.
func (g *Generator) Enabled() []Mode {
	modes := make([]Mode, 0, len(AllModes()))

	for _, m := range AllModes() {
		switch m {
		case DPUScaling:
			if !g.cfg.DPUScaling {
				continue
			}
		case PIMCluster:
			if !g.cfg.Cluster {
				continue
			}
		}

		modes = append(modes, m)
	}

	return modes
}

// Points returns the runs of mode, outermost axis first.
func (g *Generator) Points(mode Mode) []Point {
	points, _ := g.points(mode)

	return points
}

// Summary counts the runs of every enabled mode.
func (g *Generator) Summary() Summary {
	s := Summary{PerMode: make(map[Mode]int)}

	for _, m := range g.Enabled() {
		points, excluded := g.points(m)
		s.PerMode[m] = len(points)
		s.TotalRuns += len(points)
		s.Excluded += excluded
	}

	return s
}

func (g *Generator) points(mode Mode) ([]Point, int) {
	cfg := g.cfg
	maxDPUs := cfg.MaxDPUs()

	var (
		points   []Point
		excluded int
	)

	switch mode {
	case CPUSingle:
		for _, n := range cfg.LogNs {
			points = append(points, Point{Mode: mode, LogN: n, Reps: cfg.Reps})
		}

	case PIMSingle:
		for _, n := range cfg.LogNs {
			points = append(points, Point{Mode: mode, LogN: n, DPUs: maxDPUs, Reps: cfg.Reps})
		}

	case CPUBatch, PIMBatch:
		dpus := 0
		if mode == PIMBatch {
			dpus = maxDPUs
		}

		for _, n := range cfg.LogNs {
			for _, b := range cfg.BatchSizes {
				if n > cfg.MaxBatchLogN {
					excluded++

					continue
				}

				points = append(points, Point{
					Mode: mode, LogN: n, Batch: b, DPUs: dpus, Reps: cfg.Reps,
				})
			}
		}

	case DPUScaling:
		for _, d := range cfg.DPUCounts {
			points = append(points, Point{
				Mode: mode, LogN: cfg.ScalingLogN, DPUs: d, Reps: cfg.Reps,
			})
		}

	case PIMCluster:
		for _, b := range cfg.BatchSizes {
			for _, c := range cfg.Clusters {
				points = append(points, Point{
					Mode: mode, LogN: cfg.ClusterLogN, Batch: b,
					DPUs: maxDPUs, Cluster: c, Reps: cfg.Reps,
				})
			}
		}
	}

	return points, excluded
}

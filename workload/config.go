package workload

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config is the full sweep configuration. It is built once, by
// DefaultConfig or Load, and then passed by value.
type Config struct {
	BuildDir  string `yaml:"build_dir"`
	OutputDir string `yaml:"output_dir"`
	CPUBinary string `yaml:"cpu_binary"`
	PIMBinary string `yaml:"pim_binary"`

	LogNs      []int `yaml:"log_ns"`
	BatchSizes []int `yaml:"batch_sizes"`
	DPUCounts  []int `yaml:"dpu_counts"`
	Clusters   []int `yaml:"clusters"`
	Reps       int   `yaml:"reps"`

	// MaxBatchLogN is the largest size exponent run in batch modes.
	MaxBatchLogN int `yaml:"max_batch_log_n"`
	// ScalingLogN and ClusterLogN fix the size exponent of the DPU
	// scaling and cluster sweeps.
	ScalingLogN int `yaml:"scaling_log_n"`
	ClusterLogN int `yaml:"cluster_log_n"`

	// FixedDBSizeGB is the database size held constant when comparing
	// batch sizes.
	FixedDBSizeGB float64 `yaml:"fixed_db_size_gb"`

	DPUScaling bool `yaml:"dpu_scaling"`
	Cluster    bool `yaml:"cluster"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		BuildDir:      "../src/build",
		OutputDir:     "./data",
		CPUBinary:     "cpu_bench",
		PIMBinary:     "pim_bench",
		LogNs:         []int{24, 25, 26, 27, 28},
		BatchSizes:    []int{4, 8, 32},
		DPUCounts:     []int{64, 128, 256},
		Clusters:      []int{1, 2, 4, 8},
		Reps:          10,
		MaxBatchLogN:  28,
		ScalingLogN:   25,
		ClusterLogN:   25,
		FixedDBSizeGB: 1.0,
	}
}

// Load reads a YAML file and overlays it on DefaultConfig. Keys absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.LogNs = slices.Clone(c.LogNs)
	c.BatchSizes = slices.Clone(c.BatchSizes)
	c.DPUCounts = slices.Clone(c.DPUCounts)
	c.Clusters = slices.Clone(c.Clusters)

	return c
}

// MaxDPUs returns the DPU count used by the fixed-device sweeps: the
// largest configured count, whatever the order of DPUCounts.
func (c Config) MaxDPUs() int {
	if len(c.DPUCounts) == 0 {
		return 0
	}

	return slices.Max(c.DPUCounts)
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	var errs []error

	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is empty"))
	}
	if c.CPUBinary == "" {
		errs = append(errs, errors.New("cpu_binary is empty"))
	}
	if c.PIMBinary == "" {
		errs = append(errs, errors.New("pim_binary is empty"))
	}
	if c.Reps <= 0 {
		errs = append(errs, fmt.Errorf("reps must be positive, got %d", c.Reps))
	}

	errs = append(errs,
		checkAxis("log_ns", c.LogNs),
		checkAxis("batch_sizes", c.BatchSizes),
		checkAxis("dpu_counts", c.DPUCounts),
	)

	errs = append(errs, checkPositive("max_batch_log_n", c.MaxBatchLogN))
	if c.MaxBatchLogN > 0 && len(c.LogNs) > 0 && c.MaxBatchLogN < slices.Min(c.LogNs) {
		errs = append(errs, fmt.Errorf(
			"max_batch_log_n %d excludes every log_ns value", c.MaxBatchLogN,
		))
	}

	if c.DPUScaling {
		errs = append(errs, checkPositive("scaling_log_n", c.ScalingLogN))
	}
	if c.Cluster {
		errs = append(errs,
			checkAxis("clusters", c.Clusters),
			checkPositive("cluster_log_n", c.ClusterLogN),
		)
	}

	if c.FixedDBSizeGB <= 0 {
		errs = append(errs, fmt.Errorf(
			"fixed_db_size_gb must be positive, got %v", c.FixedDBSizeGB,
		))
	}

	return errors.Join(errs...)
}

func checkPositive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, v)
	}

	return nil
}

func checkAxis(name string, values []int) error {
	if len(values) == 0 {
		return fmt.Errorf("%s is empty", name)
	}

	for _, v := range values {
		if v <= 0 {
			return fmt.Errorf("%s: values must be positive, got %d", name, v)
		}
	}

	return nil
}

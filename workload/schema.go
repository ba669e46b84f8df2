package workload

// Result table column names.
const (
	ColLogN       = "logN"
	ColSize       = "size_GB"
	ColBatch      = "BatchSize"
	ColClusters   = "Clusters"
	ColDPUs       = "num_dpus"
	ColLatency    = "Latency_ms"
	ColThroughput = "Throughput_qps"
)

// Table returns the file name of the mode's result table.
func (m Mode) Table() string {
	return string(m) + ".csv"
}

// Schema returns the column order of the mode's result table.
func (m Mode) Schema() []string {
	switch m {
	case CPUSingle:
		return []string{ColLogN, ColSize, "pir_total", "dpf_eval", "dpf_keygen"}
	case PIMSingle:
		return []string{
			ColLogN, ColSize, "pir_total", "pim2cpu", "pir_exec",
			"cpu2pim", "dpf_eval", "pir_agg", "dpf_keygen",
		}
	case CPUBatch, PIMBatch:
		return []string{ColLogN, ColSize, ColBatch, ColLatency, ColThroughput}
	case PIMCluster:
		return []string{ColLogN, ColSize, ColBatch, ColClusters, ColLatency, ColThroughput}
	case DPUScaling:
		return []string{ColDPUs, ColLogN, ColSize, "cpu2pim", "pir_exec", "pim2cpu"}
	default:
		return nil
	}
}

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, bool) {
	for _, m := range AllModes() {
		if string(m) == s {
			return m, true
		}
	}

	return "", false
}

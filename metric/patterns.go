package metric

import "regexp"

// Patterns for the report lines printed by cpu_bench and pim_bench.
var (
	pirCPU      = MustPattern("pir_total", `PIR\.CPU\s*:\s*([\d.]+)`)
	pirPIMTotal = MustPattern("pir_total", `PIR\.PIM_Total\s*:\s*([\d.]+)`)
	pim2cpu     = MustPattern("pim2cpu", `COPY\.PIM->CPU\s*:\s*([\d.]+)`)
	pirExec     = MustPattern("pir_exec", `PIR\.PIMexec\s*:\s*([\d.]+)`)
	cpu2pim     = MustPattern("cpu2pim", `COPY\.CPU->PIM\s*:\s*([\d.]+)`)
	dpfEval     = MustPattern("dpf_eval", `DPF\.Eval\s*:\s*([\d.]+)`)
	dpfKeyGen   = MustPattern("dpf_keygen", `DPF\.KeyGen\s*:\s*([\d.]+)`)
	// Aggregation time is small enough to be printed in scientific notation.
	pirAgg = MustPattern("pir_agg", `PIR\.Aggregate\s*:\s*([\d.eE-]+)`)

	batchLatency = MustPattern("Latency_ms", `Batch\s*=\s*\d+\s*:\s*([\d.]+)\s*ms`)
	throughput   = MustPattern("Throughput_qps", `Throughput\s*:\s*([\d.]+)`)
)

// CPUSingle is the latency breakdown reported by cpu_bench mode=single8.
func CPUSingle() PatternSet {
	return PatternSet{pirCPU, dpfEval, dpfKeyGen}
}

// PIMSingle is the latency breakdown reported by pim_bench mode=single.
func PIMSingle() PatternSet {
	return PatternSet{pirPIMTotal, pim2cpu, pirExec, cpu2pim, dpfEval, pirAgg, dpfKeyGen}
}

// Batch is the latency and throughput reported by either binary in
// batch mode.
func Batch() PatternSet {
	return PatternSet{batchLatency, throughput}
}

var sizeExpr = regexp.MustCompile(`Database Size:\s*([\d.]+)\s*GB`)

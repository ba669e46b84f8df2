package metric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cpuSingleReport = `Database Size: 1 GB
Running single query (vectorized)
DPF.Eval : 812.5 ms
DPF.KeyGen : 0.042 ms
PIR.CPU : 1020.25 ms
`

const pimSingleReport = `Database Size: 0.5 GB
COPY.CPU->PIM : 3.5 ms
DPF.Eval : 120.75 ms
DPF.KeyGen : 0.031 ms
PIR.PIMexec : 40.125 ms
COPY.PIM->CPU : 1.25 ms
PIR.Aggregate : 2.5e-05 ms
PIR.PIM_Total : 165.5 ms
`

const batchReport = `Database Size: 2 GB
Batch size: 8
Throughput : 512.75 DPFs/sec
Batch = 8 : 15.6 ms
`

func TestExtractCPUSingle(t *testing.T) {
	got, err := Extract(cpuSingleReport, CPUSingle())
	require.NoError(t, err)

	assert.Equal(t, Set{
		"pir_total":  1020.25,
		"dpf_eval":   812.5,
		"dpf_keygen": 0.042,
	}, got)
}

func TestExtractPIMSingleScientific(t *testing.T) {
	got, err := Extract(pimSingleReport, PIMSingle())
	require.NoError(t, err)

	assert.Len(t, got, 7)
	assert.InDelta(t, 2.5e-05, got["pir_agg"], 1e-12)
	assert.Equal(t, 165.5, got["pir_total"])
	assert.Equal(t, 1.25, got["pim2cpu"])
	assert.Equal(t, 3.5, got["cpu2pim"])
	assert.Equal(t, 40.125, got["pir_exec"])
}

func TestExtractBatch(t *testing.T) {
	got, err := Extract(batchReport, Batch())
	require.NoError(t, err)

	assert.Equal(t, Set{"Latency_ms": 15.6, "Throughput_qps": 512.75}, got)
}

func TestExtractPIMThroughputLine(t *testing.T) {
	report := "Batch = 4 : 2.0 ms\nThroughput: 2000 q/s\n"

	got, err := Extract(report, Batch())
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got["Throughput_qps"])
}

func TestExtractMissingMetric(t *testing.T) {
	report := "DPF.Eval : 1.0 ms\nPIR.CPU : 2.0 ms\n"

	got, err := Extract(report, CPUSingle())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "dpf_keygen", nf.Metric)
	assert.Contains(t, err.Error(), "dpf_keygen")
}

func TestExtractUnparsable(t *testing.T) {
	_, err := Extract("PIR.CPU : 1.2.3 ms\n", PatternSet{pirCPU})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "pir_total")
}

func TestExtractFirstMatchWins(t *testing.T) {
	got, err := Extract("PIR.CPU : 1.5\nPIR.CPU : 9.5\n", PatternSet{pirCPU})
	require.NoError(t, err)
	assert.Equal(t, 1.5, got["pir_total"])
}

func TestNewPatternGroups(t *testing.T) {
	_, err := NewPattern("none", `PIR\.CPU`)
	require.Error(t, err)

	_, err = NewPattern("two", `(a)(b)`)
	require.Error(t, err)

	_, err = NewPattern("bad", `(`)
	require.Error(t, err)

	p, err := NewPattern("ok", `x=(\d+)`)
	require.NoError(t, err)
	assert.Equal(t, "ok", p.Name)
}

func TestPatternSetNames(t *testing.T) {
	assert.Equal(t,
		[]string{"pir_total", "pim2cpu", "pir_exec", "cpu2pim", "dpf_eval", "pir_agg", "dpf_keygen"},
		PIMSingle().Names(),
	)
	assert.Equal(t, []string{"Latency_ms", "Throughput_qps"}, Batch().Names())
}

func TestExtractSize(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		want     Size
		integral bool
	}{
		{"integral", "Database Size: 4 GB\n", Size{GB: 4, Known: true}, true},
		{"fraction", "Database Size: 0.5 GB\n", Size{GB: 0.5, Known: true}, false},
		{"tight spacing", "Database Size:2GB", Size{GB: 2, Known: true}, true},
		{"missing", "PIR.CPU : 1.0 ms\n", Unknown, false},
		{"malformed", "Database Size: 1.2.3 GB\n", Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSize(tt.report)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.integral, got.Integral())
		})
	}
}

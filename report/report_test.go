package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/pirbench/table"
	"github.com/weiihann/pirbench/workload"
)

var batchSchema = workload.CPUBatch.Schema()

func mustRead(t *testing.T, csv string) *table.Table {
	t.Helper()

	tab, err := table.Read(strings.NewReader(csv))
	require.NoError(t, err)

	return tab
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFixedBatchSkipsUnmatchedSizes(t *testing.T) {
	cpu := mustRead(t, `logN,size_GB,BatchSize,Latency_ms,Throughput_qps
24,1,4,10.0,400.0
25,2,4,20.0,200.0
26,4,4,40.0,100.0
27,8,4,80.0,50.0
24,1,8,18.0,444.4
`)
	pim := mustRead(t, `logN,size_GB,BatchSize,Latency_ms,Throughput_qps
24,1,4,2.0,2000.0
25,2,4,3.0,1333.3
26,4,4,5.0,800.0
`)

	cmp, err := FixedBatch(cpu, pim, workload.ColLatency, []string{"DB_Size", "CPU_Latency", "PIM_Latency"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"1", "10.0", "2.0"},
		{"2", "20.0", "3.0"},
		{"4", "40.0", "5.0"},
	}, cmp.Rows)
}

func TestFixedBatchUsesSmallestBatch(t *testing.T) {
	cpu := mustRead(t, `logN,size_GB,BatchSize,Latency_ms,Throughput_qps
24,1,32,50.0,640.0
24,1,8,18.0,444.4
`)
	pim := mustRead(t, `logN,size_GB,BatchSize,Latency_ms,Throughput_qps
24,1,8,4.0,2000.0
24,1,32,9.0,3555.5
`)

	cmp, err := FixedBatch(cpu, pim, workload.ColThroughput, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "444.4", "2000.0"}}, cmp.Rows)
}

func TestFixedBatchFloatSizes(t *testing.T) {
	cpu := mustRead(t, `logN,size_GB,BatchSize,Latency_ms,Throughput_qps
23,0.5,4,5.0,800.0
24,1,4,10.0,400.0
22,NA,4,2.5,1600.0
`)
	pim := mustRead(t, `logN,size_GB,BatchSize,Latency_ms,Throughput_qps
23,0.5,4,1.0,4000.0
24,1,4,2.0,2000.0
22,NA,4,0.5,8000.0
`)

	cmp, err := FixedBatch(cpu, pim, workload.ColLatency, nil)
	require.NoError(t, err)

	// Rows with an unknown size never match.
	assert.Equal(t, [][]string{
		{"0.5", "5.0", "1.0"},
		{"1.0", "10.0", "2.0"},
	}, cmp.Rows)
}

func TestFixedBatchEmptyTable(t *testing.T) {
	empty := mustRead(t, strings.Join(batchSchema, ",")+"\n")

	_, err := FixedBatch(empty, empty, workload.ColLatency, nil)
	require.Error(t, err)
}

func TestFixedBatchMissingColumn(t *testing.T) {
	cpu := mustRead(t, "logN,size_GB\n24,1\n")

	_, err := FixedBatch(cpu, cpu, workload.ColLatency, nil)
	require.Error(t, err)
}

func TestFixedSize(t *testing.T) {
	cpu := mustRead(t, `logN,size_GB,BatchSize,Latency_ms,Throughput_qps
24,1,4,10.0,400.0
24,1,8,18.0,444.4
24,1,32,50.0,640.0
25,2,4,20.0,200.0
`)
	pim := mustRead(t, `logN,size_GB,BatchSize,Latency_ms,Throughput_qps
24,1,4,2.0,2000.0
24,1,32,9.0,3555.5
25,2,8,6.0,1333.3
`)

	cmp, err := FixedSize(cpu, pim, 1.0, workload.ColLatency, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"4", "10.0", "2.0"},
		{"32", "50.0", "9.0"},
	}, cmp.Rows)
}

func TestClusterPivotPadsMissing(t *testing.T) {
	cluster := mustRead(t, `logN,size_GB,BatchSize,Clusters,Latency_ms,Throughput_qps
25,2,4,1,8.0,500.0
25,2,4,2,5.0,800.0
25,2,8,1,12.0,666.6
25,2,8,4,6.5,1230.7
`)

	cmp, err := ClusterPivot(cluster, []int{1, 2, 4, 8}, workload.ColLatency,
		[]string{"BatchSize", "C1", "C2", "C4", "C8"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"4", "8.0", "5.0", "NA", "NA"},
		{"8", "12.0", "NA", "6.5", "NA"},
	}, cmp.Rows)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer

	err := Encode(&buf, Comparison{
		Header: []string{"DB_Size", "CPU_Latency", "PIM_Latency"},
		Rows:   [][]string{{"1", "10.0", "2.0"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "DB_Size\tCPU_Latency\tPIM_Latency\n1\t10.0\t2.0\n", buf.String())
}

func writeBatchTables(t *testing.T, store *table.Store, cpu, pim []table.Row) {
	t.Helper()

	for _, r := range cpu {
		require.NoError(t, store.Append(workload.CPUBatch.Table(), batchSchema, r))
	}

	for _, r := range pim {
		require.NoError(t, store.Append(workload.PIMBatch.Table(), batchSchema, r))
	}
}

func TestBuildEndToEnd(t *testing.T) {
	cfg := workload.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	store := table.NewStore(cfg.OutputDir)

	writeBatchTables(t, store,
		[]table.Row{{"logN": "24", "size_GB": "1", "BatchSize": "4", "Latency_ms": "10.0", "Throughput_qps": "400.0"}},
		[]table.Row{{"logN": "24", "size_GB": "1", "BatchSize": "4", "Latency_ms": "2.0", "Throughput_qps": "2000.0"}},
	)

	cpuBefore, err := os.ReadFile(store.Path("cpu_batch.csv"))
	require.NoError(t, err)

	comparisons, err := NewBuilder(cfg, store, testLogger()).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, comparisons, 4)

	want := map[string]string{
		"batch_plot1_latency.dat":    "DB_Size\tCPU_Latency\tPIM_Latency\n1\t10.0\t2.0\n",
		"batch_plot1_thoughput.dat":  "DB_Size\tCPU_Throughput\tPIM_Throughput\n1\t400.0\t2000.0\n",
		"batch_plot2_latency.dat":    "BatchSize\tCPU_Latency\tPIM_Latency\n4\t10.0\t2.0\n",
		"batch_plot2_throughput.dat": "BatchSize\tCPU_Throughput\tPIM_Throughput\n4\t400.0\t2000.0\n",
	}

	for name, content := range want {
		data, err := os.ReadFile(store.Path(name))
		require.NoError(t, err, name)
		assert.Equal(t, content, string(data), name)
	}

	cpuAfter, err := os.ReadFile(store.Path("cpu_batch.csv"))
	require.NoError(t, err)
	assert.Equal(t, cpuBefore, cpuAfter, "result tables are read-only")
}

func TestBuildWithClusterPivots(t *testing.T) {
	cfg := workload.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Cluster = true
	cfg.Clusters = []int{1, 2}
	store := table.NewStore(cfg.OutputDir)

	row := table.Row{"logN": "25", "size_GB": "2", "BatchSize": "4", "Latency_ms": "10.0", "Throughput_qps": "400.0"}
	writeBatchTables(t, store, []table.Row{row}, []table.Row{row})

	require.NoError(t, store.Append(workload.PIMCluster.Table(), workload.PIMCluster.Schema(), table.Row{
		"logN": "25", "size_GB": "2", "BatchSize": "4", "Clusters": "2", "Latency_ms": "3.5", "Throughput_qps": "1142.8",
	}))

	comparisons, err := NewBuilder(cfg, store, testLogger()).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, comparisons, 6)

	// No 1GB rows and the only size is 2GB at batch 4.
	assert.Empty(t, comparisons[2].Rows)
	assert.Len(t, comparisons[0].Rows, 1)

	data, err := os.ReadFile(store.Path("pim_cluster.dat"))
	require.NoError(t, err)
	assert.Equal(t, "BatchSize\tC1\tC2\n4\tNA\t1142.8\n", string(data))

	data, err = os.ReadFile(store.Path("pim_cluster_latency.dat"))
	require.NoError(t, err)
	assert.Equal(t, "BatchSize\tC1\tC2\n4\tNA\t3.5\n", string(data))
}

func TestBuildMissingTables(t *testing.T) {
	cfg := workload.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	_, err := NewBuilder(cfg, table.NewStore(cfg.OutputDir), testLogger()).Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate(t *testing.T) {
	comparisons := []Comparison{
		{
			Name:   "batch_plot1_latency.dat",
			Header: []string{"DB_Size", "CPU_Latency", "PIM_Latency"},
			Rows:   [][]string{{"1", "10.0", "2.0"}},
		},
		{
			Name:   "batch_plot2_latency.dat",
			Header: []string{"BatchSize", "CPU_Latency", "PIM_Latency"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, comparisons))

	out := buf.String()
	assert.Contains(t, out, "### batch_plot1_latency.dat")
	assert.Contains(t, out, "| DB_Size | CPU_Latency | PIM_Latency |")
	assert.Contains(t, out, "| ------- | ----------- | ----------- |")
	assert.Contains(t, out, "| 1 | 10.0 | 2.0 |")
	assert.Contains(t, out, "_no matching runs_")
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Generate(&buf, nil))
}

func TestGenerateJSON(t *testing.T) {
	comparisons := []Comparison{{Name: "x.dat", Header: []string{"a"}, Rows: [][]string{{"1"}}}}

	var buf bytes.Buffer
	require.NoError(t, GenerateJSON(&buf, comparisons))

	var parsed []Comparison
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "x.dat", parsed[0].Name)
}

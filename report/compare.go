package report

import (
	"fmt"

	"github.com/weiihann/pirbench/table"
	"github.com/weiihann/pirbench/workload"
)

// NotAvailable pads cluster pivot cells that have no matching run.
const NotAvailable = "NA"

// Comparison is a plot-ready table derived from result tables.
type Comparison struct {
	Name   string     `json:"name"`
	File   string     `json:"file"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// columns loads the named numeric columns of t.
func columns(t *table.Table, names ...string) ([]*table.Column, error) {
	cols := make([]*table.Column, len(names))

	for i, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}

		cols[i] = c
	}

	return cols, nil
}

// match returns the first row where a equals av and b equals bv.
func match(a *table.Column, av float64, b *table.Column, bv float64) (int, bool) {
	for i := range a.Values {
		if a.Values[i] == av && b.Values[i] == bv {
			return i, true
		}
	}

	return 0, false
}

// FixedBatch compares metric across database sizes at the smallest batch
// size of the CPU table. Sizes are taken from the CPU table; a size
// without a matching row in both tables is left out.
func FixedBatch(cpu, pim *table.Table, metric string, header []string) (Comparison, error) {
	cc, err := columns(cpu, workload.ColSize, workload.ColBatch, metric)
	if err != nil {
		return Comparison{}, err
	}

	pc, err := columns(pim, workload.ColSize, workload.ColBatch, metric)
	if err != nil {
		return Comparison{}, err
	}

	fixed, ok := cc[1].Min()
	if !ok {
		return Comparison{}, fmt.Errorf("table %s has no %s values", cpu.Name, workload.ColBatch)
	}

	cmp := Comparison{Header: header}

	for _, size := range cc[0].Distinct() {
		i, okCPU := match(cc[0], size, cc[1], fixed)
		j, okPIM := match(pc[0], size, pc[1], fixed)

		if !okCPU || !okPIM {
			continue
		}

		cmp.Rows = append(cmp.Rows, []string{
			cc[0].Format(size),
			cc[2].Format(cc[2].Values[i]),
			pc[2].Format(pc[2].Values[j]),
		})
	}

	return cmp, nil
}

// FixedSize compares metric across batch sizes at database size sizeGB.
// Batch sizes are taken from the CPU table; a batch size without a
// matching row in both tables is left out.
func FixedSize(cpu, pim *table.Table, sizeGB float64, metric string, header []string) (Comparison, error) {
	cc, err := columns(cpu, workload.ColSize, workload.ColBatch, metric)
	if err != nil {
		return Comparison{}, err
	}

	pc, err := columns(pim, workload.ColSize, workload.ColBatch, metric)
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{Header: header}

	for _, batch := range cc[1].Distinct() {
		i, okCPU := match(cc[0], sizeGB, cc[1], batch)
		j, okPIM := match(pc[0], sizeGB, pc[1], batch)

		if !okCPU || !okPIM {
			continue
		}

		cmp.Rows = append(cmp.Rows, []string{
			cc[1].Format(batch),
			cc[2].Format(cc[2].Values[i]),
			pc[2].Format(pc[2].Values[j]),
		})
	}

	return cmp, nil
}

// ClusterPivot lays metric out with one row per batch size and one
// column per cluster count. Unlike FixedBatch and FixedSize, a missing
// run does not drop the row: its cell is NotAvailable.
func ClusterPivot(t *table.Table, clusters []int, metric string, header []string) (Comparison, error) {
	c, err := columns(t, workload.ColBatch, workload.ColClusters, metric)
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{Header: header}

	for _, batch := range c[0].Distinct() {
		row := make([]string, 0, len(clusters)+1)
		row = append(row, c[0].Format(batch))

		for _, n := range clusters {
			i, ok := match(c[0], batch, c[1], float64(n))
			if !ok {
				row = append(row, NotAvailable)

				continue
			}

			row = append(row, c[2].Format(c[2].Values[i]))
		}

		cmp.Rows = append(cmp.Rows, row)
	}

	return cmp, nil
}

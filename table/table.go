package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

// Table is a loaded result table.
type Table struct {
	Name    string
	Header  []string
	Records [][]string
}

// Read parses a CSV table with a header line.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return &Table{Header: header, Records: records}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Records)
}

// Column parses the named column as numbers.
func (t *Table) Column(name string) (*Column, error) {
	idx := -1

	for i, h := range t.Header {
		if h == name {
			idx = i

			break
		}
	}

	if idx < 0 {
		return nil, fmt.Errorf("table %s: no column %q", t.Name, name)
	}

	c := &Column{
		Name:     name,
		Values:   make([]float64, len(t.Records)),
		Integral: true,
	}

	for i, rec := range t.Records {
		if idx >= len(rec) {
			return nil, fmt.Errorf("table %s: row %d has no column %q", t.Name, i+1, name)
		}

		v, integral, err := parseCell(rec[idx])
		if err != nil {
			return nil, fmt.Errorf("table %s: row %d column %q: %w", t.Name, i+1, name, err)
		}

		c.Values[i] = v
		c.Integral = c.Integral && integral
	}

	return c, nil
}

// Column is one numeric column of a Table. Missing cells are NaN. A
// column is Integral when every cell holds an integer.
type Column struct {
	Name     string
	Values   []float64
	Integral bool
}

// Distinct returns the sorted distinct values of the column, without NaN.
func (c *Column) Distinct() []float64 {
	seen := make(map[float64]bool, len(c.Values))
	out := make([]float64, 0, len(c.Values))

	for _, v := range c.Values {
		if math.IsNaN(v) || seen[v] {
			continue
		}

		seen[v] = true
		out = append(out, v)
	}

	sort.Float64s(out)

	return out
}

// Min returns the smallest non-NaN value, or false when there is none.
func (c *Column) Min() (float64, bool) {
	d := c.Distinct()
	if len(d) == 0 {
		return 0, false
	}

	return d[0], true
}

// Format renders v the way the column is typed.
func (c *Column) Format(v float64) string {
	if c.Integral && !math.IsNaN(v) {
		return strconv.FormatInt(int64(v), 10)
	}

	return FormatFloat(v)
}

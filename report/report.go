// Package report derives plot-ready comparison tables from sweep results
// and renders them for the operator.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Encode writes c as a tab separated table: the header line, then one
// line per row.
func Encode(w io.Writer, c Comparison) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, strings.Join(c.Header, "\t")); err != nil {
		return err
	}

	for _, row := range c.Rows {
		if _, err := fmt.Fprintln(bw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteDat writes c to path, replacing any previous content.
func WriteDat(path string, c Comparison) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := Encode(f, c); err != nil {
		f.Close()

		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}

// Generate writes a markdown summary of the comparisons to w.
func Generate(w io.Writer, comparisons []Comparison) error {
	if len(comparisons) == 0 {
		return fmt.Errorf("no comparisons to report")
	}

	fmt.Fprintln(w, "## Benchmark Comparisons")

	for _, c := range comparisons {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "### %s\n", c.Name)
		fmt.Fprintln(w)

		if len(c.Rows) == 0 {
			fmt.Fprintln(w, "_no matching runs_")

			continue
		}

		fmt.Fprintln(w, markdownRow(c.Header))

		sep := make([]string, len(c.Header))
		for i, h := range c.Header {
			sep[i] = strings.Repeat("-", max(3, len(h)))
		}

		fmt.Fprintln(w, markdownRow(sep))

		for _, row := range c.Rows {
			fmt.Fprintln(w, markdownRow(row))
		}
	}

	return nil
}

// GenerateJSON writes comparisons as JSON to w.
func GenerateJSON(w io.Writer, comparisons []Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(comparisons)
}

func markdownRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

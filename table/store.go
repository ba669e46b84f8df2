// Package table persists benchmark result rows as append-only CSV tables
// and loads them back for comparison.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrSchema is returned when a row does not match its table's schema.
var ErrSchema = errors.New("row does not match schema")

// Row maps column names to formatted cells.
type Row map[string]string

// Store is a directory of CSV tables.
type Store struct {
	Dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the file path of the named table.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Append writes row to the named table in schema column order. The
// header is written first when the table file does not exist yet. A row
// that lacks a schema column, or has a column outside the schema, is
// rejected before anything is written.
func (s *Store) Append(name string, schema []string, row Row) error {
	record, err := project(schema, row)
	if err != nil {
		return fmt.Errorf("append %s: %w", name, err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create table dir %s: %w", s.Dir, err)
	}

	path := s.Path(name)

	_, statErr := os.Stat(path)
	exists := statErr == nil

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	w := csv.NewWriter(f)

	if !exists {
		if err := w.Write(schema); err != nil {
			f.Close()

			return fmt.Errorf("write header %s: %w", path, err)
		}
	}

	if err := w.Write(record); err != nil {
		f.Close()

		return fmt.Errorf("write row %s: %w", path, err)
	}

	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()

		return fmt.Errorf("flush %s: %w", path, err)
	}

	return f.Close()
}

// Reset deletes the named tables. Tables that do not exist are ignored.
// Deletion stops at the first failure, leaving later tables in place.
func (s *Store) Reset(names ...string) error {
	for _, name := range names {
		path := s.Path(name)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}

	return nil
}

// Load reads the named table.
func (s *Store) Load(name string) (*Table, error) {
	path := s.Path(name)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	t.Name = name

	return t, nil
}

func project(schema []string, row Row) ([]string, error) {
	record := make([]string, len(schema))

	for i, col := range schema {
		v, ok := row[col]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, col)
		}

		record[i] = v
	}

	if len(row) != len(schema) {
		known := make(map[string]bool, len(schema))
		for _, col := range schema {
			known[col] = true
		}

		var extra []string

		for col := range row {
			if !known[col] {
				extra = append(extra, col)
			}
		}

		sort.Strings(extra)

		return nil, fmt.Errorf("%w: unknown columns %q", ErrSchema, extra)
	}

	return record, nil
}

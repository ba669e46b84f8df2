// Package metric scrapes named numeric metrics from the free-form text
// reports printed by the benchmark binaries.
package metric

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrNotFound is returned when a declared metric is absent from a report.
var ErrNotFound = errors.New("metric not found")

// NotFoundError names the metric whose pattern did not match.
type NotFoundError struct {
	Metric  string
	Pattern string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("metric %q not found (pattern %s)", e.Metric, e.Pattern)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Pattern locates one metric. Expr has exactly one capture group holding
// the value.
type Pattern struct {
	Name string
	Expr *regexp.Regexp
}

// NewPattern compiles expr and checks that it has one capture group.
func NewPattern(name, expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compile pattern %s: %w", name, err)
	}

	if re.NumSubexp() != 1 {
		return Pattern{}, fmt.Errorf(
			"pattern %s: want 1 capture group, got %d", name, re.NumSubexp(),
		)
	}

	return Pattern{Name: name, Expr: re}, nil
}

// MustPattern is like NewPattern but panics on error.
func MustPattern(name, expr string) Pattern {
	p, err := NewPattern(name, expr)
	if err != nil {
		panic(err)
	}

	return p
}

// PatternSet is the ordered list of metrics a mode must report.
type PatternSet []Pattern

// Names returns the metric names in declaration order.
func (ps PatternSet) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}

	return names
}

// Set maps metric names to their extracted values.
type Set map[string]float64

// Extract finds every pattern of ps in report. The first match of each
// pattern wins. A missing or unparsable value fails the whole
// extraction; no partial Set is returned.
func Extract(report string, ps PatternSet) (Set, error) {
	set := make(Set, len(ps))

	for _, p := range ps {
		m := p.Expr.FindStringSubmatch(report)
		if m == nil {
			return nil, &NotFoundError{Metric: p.Name, Pattern: p.Expr.String()}
		}

		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse metric %s: %w", p.Name, err)
		}

		set[p.Name] = v
	}

	return set, nil
}

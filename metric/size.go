package metric

import (
	"math"
	"strconv"
)

// Size is the database size announced by a benchmark report. Known is
// false when the report carried no size marker.
type Size struct {
	GB    float64
	Known bool
}

// Unknown is the size returned for reports without a size marker.
var Unknown = Size{}

// Integral reports whether the size is a whole number of gigabytes.
func (s Size) Integral() bool {
	return s.Known && s.GB == math.Trunc(s.GB) && !math.IsInf(s.GB, 0)
}

// ExtractSize finds the "Database Size: X GB" marker. The size is
// descriptive only, so a missing or malformed marker yields Unknown
// instead of an error.
func ExtractSize(report string) Size {
	m := sizeExpr.FindStringSubmatch(report)
	if m == nil {
		return Unknown
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Unknown
	}

	return Size{GB: v, Known: true}
}

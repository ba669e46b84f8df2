package table

import (
	"math"
	"strconv"
	"strings"
)

// Unknown is the cell written for values that could not be determined.
const Unknown = "NA"

// FormatInt formats an integer cell.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// FormatFloat formats a float cell as the shortest representation that
// round-trips. Integral values keep a ".0" suffix so the column stays a
// float column when read back, and magnitudes outside [1e-4, 1e16) use
// exponent notation ("1e-05", "1e+16").
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}

		return "0.0"
	}

	e := strconv.FormatFloat(v, 'e', -1, 64)

	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return e
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// parseCell parses a numeric cell. Unknown and empty cells load as NaN.
func parseCell(s string) (v float64, integral bool, err error) {
	s = strings.TrimSpace(s)

	switch s {
	case "", Unknown, "nan", "NaN":
		return math.NaN(), false, nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}

	return f, false, nil
}

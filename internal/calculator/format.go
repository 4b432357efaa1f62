package calculator

import (
	"math"
	"strconv"
)

// FormatNumber renders v in plain decimal notation with the fewest digits
// that round-trip. NaN renders as "NaN", infinities as "Infinity" and
// "-Infinity", and negative zero as "0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

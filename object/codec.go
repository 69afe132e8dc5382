package object

import (
	"math"
	"strconv"
)

// Float64ToString renders a float64 as the shortest decimal string that
// parses back to the same value, so Float64FromString(Float64ToString(v))
// has v's exact bit pattern for every non-NaN v (including -0 and ±Inf).
// NaN payload bits are not preserved: every NaN renders as "NaN".
func Float64ToString(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Float64FromString parses a string produced by Float64ToString.
func Float64FromString(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Int64ToString renders an integer attribute value.
func Int64ToString(v int64) string { return strconv.FormatInt(v, 10) }

// Int64FromString parses a string produced by Int64ToString.
func Int64FromString(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

// BitsEqual reports whether two float64 values have identical bit
// patterns — the round-trip law spec.md §8 asks tests to check, rather
// than a tolerance comparison which would hide a lossy codec.
func BitsEqual(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

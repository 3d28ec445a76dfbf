// Package answer evaluates player input against an expected puzzle answer.
package answer

import (
	"math"
	"strconv"
	"strings"
)

// Tolerance is the absolute tolerance used when both values are numeric.
const Tolerance = 1e-6

// IsCorrect reports whether the player's input matches the expected answer.
// If both trimmed values parse as finite numbers they are compared with an
// absolute tolerance; otherwise they are compared case-insensitively as
// strings. Empty or whitespace-only input never matches numerically, so a
// blank submission cannot satisfy an expected answer of "0".
func IsCorrect(input, expected string) bool {
	in := strings.TrimSpace(input)
	want := strings.TrimSpace(expected)

	inVal, inOK := parseFinite(in)
	wantVal, wantOK := parseFinite(want)
	if inOK && wantOK {
		return math.Abs(inVal-wantVal) <= Tolerance
	}

	return strings.EqualFold(in, want)
}

// parseFinite parses s as a finite float64. Empty strings and non-finite
// values (Inf, NaN) do not count as numeric.
func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

package harmonic

import (
	"strconv"
	"strings"
)

// ParseParams reads an authored parameter override of the form
// "f0;n1,n2,n3" (fundamental in Hz, then the present multipliers), e.g.
// "0.4;1,2,4". Fields outside the override keep their defaults. Returns
// false for anything that does not parse, in which case callers should use
// DefaultParams.
func ParseParams(raw string) (Params, bool) {
	p := DefaultParams()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return p, false
	}

	parts := strings.SplitN(raw, ";", 2)
	f0, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || f0 < p.GuessMin || f0 > p.GuessMax {
		return p, false
	}
	p.Fundamental = f0

	if len(parts) == 2 {
		var present []int
		seen := make(map[int]bool)
		for _, field := range strings.Split(parts[1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || n < 1 {
				return DefaultParams(), false
			}
			// Duplicates collapse: a repeated multiplier would make the
			// selection set impossible to match.
			if seen[n] {
				continue
			}
			seen[n] = true
			present = append(present, n)
		}
		if len(present) == 0 {
			return DefaultParams(), false
		}
		p.Present = present
	}

	return p, true
}

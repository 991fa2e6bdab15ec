package dex

import (
	"strconv"
	"strings"
)

// Generations lists the generation labels in release order.
var Generations = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}

// GenerationLabel turns a species generation name such as "generation-iv"
// into its label "IV".
func GenerationLabel(name string) string {
	n := strings.TrimSpace(name)
	n = strings.TrimPrefix(strings.ToLower(n), "generation-")
	return strings.ToUpper(n)
}

// NormalizeGeneration accepts "iv", "IV", "gen iv", "generation-iv" or "4" and
// returns the label "IV". Empty input yields "" (no generation filter).
func NormalizeGeneration(in string) string {
	s := strings.ToLower(strings.TrimSpace(in))
	if s == "" {
		return ""
	}
	for _, p := range []string{"generation-", "generation ", "gen-", "gen "} {
		if rest, ok := strings.CutPrefix(s, p); ok {
			s = strings.TrimSpace(rest)
			break
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(Generations) {
		return Generations[n-1]
	}
	return strings.ToUpper(s)
}

package menu

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// matchCutoff is deliberately permissive so typos and partial flavor names
// still resolve ("calabreza" -> "Calabresa").
const matchCutoff = 0.3

// ResolveFlavor matches free-form user input against the canonical flavor
// list and returns the canonical entry (original casing) of the single best
// candidate, or ok=false when nothing scores at or above the cutoff.
// Ties go to the earliest entry in listing order, so the result is
// deterministic for a fixed list and input.
func ResolveFlavor(input string, flavors []string) (string, bool) {
	norm := Normalize(input)
	if norm == "" {
		return "", false
	}

	best := -1
	bestScore := 0.0
	for i, f := range flavors {
		s := similarity(norm, Normalize(f))
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore < matchCutoff {
		return "", false
	}
	return flavors[best], true
}

// similarity maps Levenshtein distance onto a 0..1 ratio where 1 is an
// exact match.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

var accentFold = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "õ", "o", "ô", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// Normalize lower-cases, folds the accents that occur in Brazilian menu
// names, strips everything but letters, digits and spaces, and collapses
// whitespace.
func Normalize(s string) string {
	s = accentFold.Replace(strings.ToLower(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

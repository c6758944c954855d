package correlation

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Measurement suffixes the two systems disagree on: the catalog writes
// `60in Round Table`, the tracking system `60 Round Table`. Both collapse
// to `60 round table`.
var unitTokens = map[string]bool{
	"in": true, "inch": true, "inches": true,
	"ft": true, "foot": true, "feet": true,
}

// NormalizeName canonicalizes an equipment name for comparison: case-fold,
// turn punctuation into spaces, split digit-letter runs, drop measurement
// suffix tokens and collapse whitespace. Idempotent.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 8)

	prevDigit := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			prevDigit = true
		case unicode.IsLetter(r):
			if prevDigit {
				b.WriteRune(' ')
			}
			b.WriteRune(r)
			prevDigit = false
		default:
			b.WriteRune(' ')
			prevDigit = false
		}
	}

	fields := strings.Fields(b.String())
	out := fields[:0]
	for _, f := range fields {
		if unitTokens[f] {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// Similarity returns a [0,1] name similarity from edit distance over the
// longer normalized string. Two empty names are not similar; they carry no
// signal.
func Similarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	dist := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(dist)/float64(longest)
}

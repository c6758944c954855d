package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Round Table", "round table"},
		{"strips punctuation", "60 Round Table.", "60 round table"},
		{"collapses whitespace", "  60   Round\tTable ", "60 round table"},
		{"splits digit letter runs", "60in Round Table", "60 round table"},
		{"drops measurement suffix", "8ft Banquet Table", "8 banquet table"},
		{"keeps non measurement words", "Linen Napkin", "linen napkin"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	for _, name := range []string{"60in Round Table", "60 Round Table.", "Chair, Folding (White)", ""} {
		once := NormalizeName(name)
		assert.Equal(t, once, NormalizeName(once))
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("60in Round Table", "60 Round Table."))
	assert.Equal(t, 0.0, Similarity("Round Table", ""))
	assert.Equal(t, 0.0, Similarity("", ""))

	// A one-character typo stays above the fuzzy threshold
	assert.GreaterOrEqual(t, Similarity("folding chair white", "folding chair whie"), 0.85)

	// Unrelated names score low
	assert.Less(t, Similarity("round table", "popcorn machine"), 0.5)
}

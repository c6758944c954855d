package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaleWindowDays(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 7, cfg.StaleWindowDays("resale"))
	assert.Equal(t, 14, cfg.StaleWindowDays("pack"))
	assert.Equal(t, 30, cfg.StaleWindowDays("tables"))
	assert.Equal(t, 30, cfg.StaleWindowDays(""))
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()

	// Same rules, same fingerprint
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)

	// Any threshold change produces a different fingerprint
	b.FuzzyThreshold = 0.9
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

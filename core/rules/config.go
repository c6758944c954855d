package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Config is the versioned rule set a batch run executes under. It is loaded
// once per run and passed by value, so a run is reproducible against the
// exact thresholds it used. The defaults originate from operational scripts
// and are deliberately overridable (they carry no documented rationale).
type Config struct {
	// KeyWeight is the confidence contribution of an item-key match.
	KeyWeight float64 `mapstructure:"key_weight" default:"0.6"`
	// NameWeight is the confidence contribution scaled by name similarity.
	NameWeight float64 `mapstructure:"name_weight" default:"0.4"`
	// FuzzyThreshold is the minimum similarity for a fuzzy name match.
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold" default:"0.85"`
	// FuzzyCap is the maximum confidence a fuzzy-only name match can reach.
	FuzzyCap float64 `mapstructure:"fuzzy_cap" default:"0.8"`
	// LowConfidenceFloor marks correlations below it as low quality.
	LowConfidenceFloor float64 `mapstructure:"low_confidence_floor" default:"0.8"`
	// QuantityTolerance is the largest catalog-vs-observed count difference
	// that is not flagged as a mismatch.
	QuantityTolerance int `mapstructure:"quantity_tolerance" default:"2"`

	// StaleResaleDays is the no-scan window for resale items.
	StaleResaleDays int `mapstructure:"stale_resale_days" default:"7"`
	// StalePackDays is the no-scan window for pack items.
	StalePackDays int `mapstructure:"stale_pack_days" default:"14"`
	// StaleRentalDays is the no-scan window for general rental items.
	StaleRentalDays int `mapstructure:"stale_rental_days" default:"30"`

	// UtilizationMinPct flags items rented out less than this share.
	UtilizationMinPct float64 `mapstructure:"utilization_min_pct" default:"5"`
	// UtilizationMaxPct flags items rented out more than this share.
	UtilizationMaxPct float64 `mapstructure:"utilization_max_pct" default:"95"`
}

// StaleWindowDays returns the no-scan window for an equipment category.
// Categories are free-form catalog strings; only the known prefixes get the
// tighter windows.
func (c Config) StaleWindowDays(category string) int {
	switch category {
	case "resale":
		return c.StaleResaleDays
	case "pack":
		return c.StalePackDays
	default:
		return c.StaleRentalDays
	}
}

// Fingerprint returns a stable digest of the rule set. Batch run summaries
// record it so results can be traced back to the configuration they ran
// under.
func (c Config) Fingerprint() string {
	payload := fmt.Sprintf("kw=%.4f|nw=%.4f|ft=%.4f|fc=%.4f|lcf=%.4f|qt=%d|sr=%d|sp=%d|sg=%d|umin=%.2f|umax=%.2f",
		c.KeyWeight, c.NameWeight, c.FuzzyThreshold, c.FuzzyCap, c.LowConfidenceFloor,
		c.QuantityTolerance, c.StaleResaleDays, c.StalePackDays, c.StaleRentalDays,
		c.UtilizationMinPct, c.UtilizationMaxPct)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:8])
}

// Default returns the rule set with all default values applied. Used by
// tests and by callers that run outside the config loader.
func Default() Config {
	return Config{
		KeyWeight:          0.6,
		NameWeight:         0.4,
		FuzzyThreshold:     0.85,
		FuzzyCap:           0.8,
		LowConfidenceFloor: 0.8,
		QuantityTolerance:  2,
		StaleResaleDays:    7,
		StalePackDays:      14,
		StaleRentalDays:    30,
		UtilizationMinPct:  5,
		UtilizationMaxPct:  95,
	}
}

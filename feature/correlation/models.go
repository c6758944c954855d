package correlation

import (
	"time"
)

// NameMatchType records how a correlation's name comparison succeeded.
type NameMatchType string

const (
	MatchExact      NameMatchType = "exact"
	MatchNormalized NameMatchType = "normalized"
	MatchFuzzy      NameMatchType = "fuzzy"
	MatchNone       NameMatchType = "none"
)

// EquipmentCorrelation asserts that a catalog record and a tracking class
// describe the same equipment. Rows are superseded, never deleted; at most
// one non-superseded row exists per item number.
type EquipmentCorrelation struct {
	ID                 uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemNum            string        `gorm:"size:32;index:idx_corr_item" json:"item_num"`
	TrackingClassID    string        `gorm:"size:64;index" json:"tracking_class_id"`
	ConfidenceScore    float64       `gorm:"not null" json:"confidence_score"`
	QuantityDifference int           `gorm:"not null" json:"quantity_difference"`
	NameMatchType      NameMatchType `gorm:"size:16;not null" json:"name_match_type"`
	CreatedAt          time.Time     `gorm:"autoCreateTime" json:"created_at"`
	SupersededAt       *time.Time    `gorm:"index" json:"superseded_at"`
}

// TableName maps the model to its table.
func (EquipmentCorrelation) TableName() string {
	return "equipment_correlations"
}

// TrackingClass is the tracking system's item definition, supplied by the
// importer alongside scan batches. The engine joins units to it for name
// matching; a unit whose class is unknown still key-matches.
type TrackingClass struct {
	ClassID   string    `gorm:"primaryKey;size:64" json:"class_id"`
	Name      string    `gorm:"size:200" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName maps the model to its table.
func (TrackingClass) TableName() string {
	return "tracking_classes"
}

// ClassInput is one tracking class in an importer batch.
type ClassInput struct {
	ClassID string `json:"class_id" validate:"required,max=64"`
	Name    string `json:"name" validate:"max=200"`
}

// UnmatchedItem is a catalog record the engine could not correlate. Not an
// error: it is surfaced here and picked up by the health detectors.
type UnmatchedItem struct {
	ItemNum string `json:"item_num"`
	Name    string `json:"name"`
	Reason  string `json:"reason"`
}

// RunSummary reports one full-batch recompute.
type RunSummary struct {
	StartedAt        time.Time       `json:"started_at"`
	FinishedAt       time.Time       `json:"finished_at"`
	RulesFingerprint string          `json:"rules_fingerprint"`
	Processed        int             `json:"processed"`
	Matched          int             `json:"matched"`
	KeyMatches       int             `json:"key_matches"`
	NameMatches      int             `json:"name_matches"`
	Ambiguous        int             `json:"ambiguous"`
	FailedChunks     []string        `json:"failed_chunks,omitempty"`
	Unmatched        []UnmatchedItem `json:"unmatched,omitempty"`
}

package health

import (
	"time"
)

// AlertType identifies the condition a detector found.
type AlertType string

const (
	AlertStaleItem        AlertType = "StaleItem"
	AlertQuantityMismatch AlertType = "QuantityMismatch"
	AlertLowConfidence    AlertType = "LowConfidenceCorrelation"
	AlertUsageExtreme     AlertType = "UsageExtreme"
	AlertOrphanedItem     AlertType = "OrphanedCatalogItem"
)

// Severity grades an alert for the dashboard.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// AlertStatus is the alert lifecycle state. Acknowledged alerts are still
// open: re-detection refreshes them instead of creating duplicates.
type AlertStatus string

const (
	StatusActive       AlertStatus = "active"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusResolved     AlertStatus = "resolved"
)

// HealthAlert is one deduplicated anomaly. Active is true while the alert
// is open and NULL once resolved; the unique index over
// (subject_key, alert_type, active) therefore only constrains open alerts,
// and re-detection races collapse into a refresh instead of a duplicate.
type HealthAlert struct {
	ID         uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	SubjectKey string      `gorm:"size:80;not null;uniqueIndex:idx_alert_open,priority:1" json:"subject_key"`
	AlertType  AlertType   `gorm:"size:32;not null;uniqueIndex:idx_alert_open,priority:2" json:"alert_type"`
	Severity   Severity    `gorm:"size:16;not null" json:"severity"`
	Status     AlertStatus `gorm:"size:16;not null;index" json:"status"`
	Detail     string      `gorm:"size:255" json:"detail"`
	Active     *bool       `gorm:"uniqueIndex:idx_alert_open,priority:3" json:"active"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	LastSeenAt time.Time   `json:"last_seen_at"`
	ResolvedAt *time.Time  `json:"resolved_at"`
}

// TableName maps the model to its table.
func (HealthAlert) TableName() string {
	return "health_alerts"
}

// RunSummary reports one detection run.
type RunSummary struct {
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	RulesFingerprint string    `json:"rules_fingerprint"`
	Detected         int       `json:"detected"`
	Created          int       `json:"created"`
	Refreshed        int       `json:"refreshed"`
	Resolved         int       `json:"resolved"`
	MarkedMissing    int       `json:"marked_missing"`
}

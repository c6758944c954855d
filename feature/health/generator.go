package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-inventory/core/rules"

	"rental-inventory/feature/catalog"
	"rental-inventory/feature/inventory"
	"rental-inventory/feature/ledger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// condition is one detected anomaly before it is written as an alert.
type condition struct {
	subjectKey string
	alertType  AlertType
	severity   Severity
	detail     string
}

func (c condition) key() string {
	return c.subjectKey + "|" + string(c.alertType)
}

// Generator runs the health detectors over a fresh inventory snapshot and
// keeps the alert table deduplicated: one open alert per (subject, type),
// refreshed while the condition persists, auto-resolved when it clears.
type Generator struct {
	db        *gorm.DB
	logger    *zap.Logger
	rules     rules.Config
	ledger    *ledger.Service
	inventory *inventory.Service
}

// NewGenerator creates a health alert generator.
func NewGenerator(db *gorm.DB, logger *zap.Logger, ruleSet rules.Config, ledgerSvc *ledger.Service, inventorySvc *inventory.Service) *Generator {
	return &Generator{
		db:        db,
		logger:    logger,
		rules:     ruleSet,
		ledger:    ledgerSvc,
		inventory: inventorySvc,
	}
}

// Run executes every detector once. It runs after the processor and the
// correlation engine, never concurrently with itself; the uniqueness
// constraint is the safety net if that assumption is ever violated.
func (g *Generator) Run(ctx context.Context) (RunSummary, error) {
	summary := RunSummary{
		StartedAt:        time.Now().UTC(),
		RulesFingerprint: g.rules.Fingerprint(),
	}

	// Detectors must not alert on a stale projection.
	g.inventory.Invalidate()
	rows, err := g.inventory.List(ctx, "", "")
	if err != nil {
		return summary, fmt.Errorf("loading inventory snapshot: %w", err)
	}

	conditions := g.detectInventoryConditions(rows)

	staleConditions, marked, err := g.detectStaleUnits(ctx)
	if err != nil {
		return summary, err
	}
	conditions = append(conditions, staleConditions...)
	summary.MarkedMissing = marked
	summary.Detected = len(conditions)

	if err := g.writeAlerts(ctx, conditions, &summary); err != nil {
		return summary, err
	}

	summary.FinishedAt = time.Now().UTC()
	g.logger.Info("Health detection finished",
		zap.Int("detected", summary.Detected),
		zap.Int("created", summary.Created),
		zap.Int("refreshed", summary.Refreshed),
		zap.Int("resolved", summary.Resolved),
		zap.Int("marked_missing", summary.MarkedMissing),
		zap.String("rules_fingerprint", summary.RulesFingerprint),
	)
	return summary, nil
}

func (g *Generator) detectInventoryConditions(rows []inventory.CombinedInventoryRow) []condition {
	var conditions []condition
	for _, row := range rows {
		subject := "item:" + row.ItemNum

		switch row.DataQualityFlag {
		case inventory.QualityQuantityMismatch:
			conditions = append(conditions, condition{
				subjectKey: subject,
				alertType:  AlertQuantityMismatch,
				severity:   SeverityCritical,
				detail:     fmt.Sprintf("catalog and observed unit counts differ beyond tolerance %d", g.rules.QuantityTolerance),
			})
		case inventory.QualityLowConfidence:
			conditions = append(conditions, condition{
				subjectKey: subject,
				alertType:  AlertLowConfidence,
				severity:   SeverityWarning,
				detail:     fmt.Sprintf("correlation confidence %.2f below %.2f", row.ConfidenceScore, g.rules.LowConfidenceFloor),
			})
		case inventory.QualityNoCorrelation:
			if row.Status != inventory.ItemInactive {
				conditions = append(conditions, condition{
					subjectKey: subject,
					alertType:  AlertOrphanedItem,
					severity:   SeverityWarning,
					detail:     "catalog item has no tracked units and no name match",
				})
			}
		}

		if row.Status != inventory.ItemInactive && row.Qty > 0 &&
			(row.UtilizationPct < g.rules.UtilizationMinPct || row.UtilizationPct > g.rules.UtilizationMaxPct) {
			conditions = append(conditions, condition{
				subjectKey: subject,
				alertType:  AlertUsageExtreme,
				severity:   SeverityWarning,
				detail:     fmt.Sprintf("utilization %.1f%% outside [%.0f%%, %.0f%%]", row.UtilizationPct, g.rules.UtilizationMinPct, g.rules.UtilizationMaxPct),
			})
		}
	}
	return conditions
}

// detectStaleUnits finds units whose last scan exceeds their category's
// no-scan window, marks them Missing through the ledger and raises an
// alert per unit.
func (g *Generator) detectStaleUnits(ctx context.Context) ([]condition, int, error) {
	var units []ledger.InventoryUnit
	err := g.db.WithContext(ctx).
		Where("status <> ?", ledger.StatusSold).
		Find(&units).Error
	if err != nil {
		return nil, 0, err
	}

	var records []catalog.EquipmentRecord
	if err := g.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	categories := make(map[string]string, len(records))
	for _, r := range records {
		categories[r.ItemNum] = strings.ToLower(r.Category)
	}

	now := time.Now().UTC()
	var conditions []condition
	marked := 0
	for _, unit := range units {
		if unit.LastScanAt.IsZero() {
			continue
		}
		category := ""
		if unit.CorrelatedItemNum != nil {
			category = categories[*unit.CorrelatedItemNum]
		}
		window := time.Duration(g.rules.StaleWindowDays(category)) * 24 * time.Hour
		age := now.Sub(unit.LastScanAt)
		if age <= window {
			continue
		}

		conditions = append(conditions, condition{
			subjectKey: "unit:" + unit.TagID,
			alertType:  AlertStaleItem,
			severity:   SeverityCritical,
			detail:     fmt.Sprintf("no scan for %d days, window %d days", int(age.Hours()/24), int(window.Hours()/24)),
		})

		if unit.Status != ledger.StatusMissing {
			if err := g.ledger.MarkMissing(ctx, unit.TagID, "health-detector"); err != nil {
				return nil, marked, fmt.Errorf("marking unit %s missing: %w", unit.TagID, err)
			}
			marked++
		}
	}
	return conditions, marked, nil
}

// writeAlerts upserts every detected condition and auto-resolves open
// alerts whose condition cleared.
func (g *Generator) writeAlerts(ctx context.Context, conditions []condition, summary *RunSummary) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open []HealthAlert
		if err := tx.Where("active = ?", true).Find(&open).Error; err != nil {
			return err
		}
		openByKey := make(map[string]HealthAlert, len(open))
		for _, alert := range open {
			openByKey[alert.SubjectKey+"|"+string(alert.AlertType)] = alert
		}

		now := time.Now().UTC()
		active := true
		seen := make(map[string]bool, len(conditions))
		for _, c := range conditions {
			if seen[c.key()] {
				continue
			}
			seen[c.key()] = true

			alert := HealthAlert{
				SubjectKey: c.subjectKey,
				AlertType:  c.alertType,
				Severity:   c.severity,
				Status:     StatusActive,
				Detail:     c.detail,
				Active:     &active,
				LastSeenAt: now,
			}
			// A persisting condition refreshes the open row, keeping its
			// id, created_at and any operator acknowledgement.
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "subject_key"}, {Name: "alert_type"}, {Name: "active"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"last_seen_at": now,
					"severity":     c.severity,
					"detail":       c.detail,
				}),
			}).Create(&alert).Error
			if err != nil {
				return err
			}

			if _, existed := openByKey[c.key()]; existed {
				summary.Refreshed++
			} else {
				summary.Created++
			}
		}

		for key, alert := range openByKey {
			if seen[key] {
				continue
			}
			err := tx.Model(&HealthAlert{}).Where("id = ?", alert.ID).Updates(map[string]interface{}{
				"status":      StatusResolved,
				"active":      nil,
				"resolved_at": now,
			}).Error
			if err != nil {
				return err
			}
			summary.Resolved++
		}
		return nil
	})
}

package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-inventory/core/errs"
	"rental-inventory/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs health detection and serves alert queries.
type Service struct {
	db        *gorm.DB
	logger    *zap.Logger
	generator *Generator
	store     storage.Client
	bucket    string
}

// NewService creates a new health service. store may be nil, in which case
// run reports are logged but not archived.
func NewService(db *gorm.DB, logger *zap.Logger, generator *Generator, store storage.Client, bucket string) *Service {
	return &Service{
		db:        db,
		logger:    logger,
		generator: generator,
		store:     store,
		bucket:    bucket,
	}
}

// Run executes one detection pass and archives the run report.
func (s *Service) Run(ctx context.Context) (RunSummary, error) {
	summary, err := s.generator.Run(ctx)
	if err != nil {
		return summary, err
	}

	if s.store != nil {
		objectName := fmt.Sprintf("reports/alerts/%s.json", summary.StartedAt.Format("2006-01-02T15-04-05Z"))
		if err := storage.ArchiveReport(ctx, s.store, s.bucket, objectName, summary); err != nil {
			s.logger.Error("Alert report archive failed",
				zap.String("object", objectName),
				zap.Error(err),
			)
		}
	}
	return summary, nil
}

// List returns alerts, optionally filtered by status and type. Open alerts
// come first, newest detection first within each group.
func (s *Service) List(ctx context.Context, status AlertStatus, alertType AlertType) ([]HealthAlert, error) {
	query := s.db.WithContext(ctx).Model(&HealthAlert{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if alertType != "" {
		query = query.Where("alert_type = ?", alertType)
	}

	var alerts []HealthAlert
	err := query.Order("active desc, last_seen_at desc, id desc").Find(&alerts).Error
	return alerts, err
}

// Acknowledge marks an open alert as seen by an operator. The alert stays
// open: re-detection keeps refreshing it and resolution still happens
// automatically when the condition clears.
func (s *Service) Acknowledge(ctx context.Context, id uint64) (*HealthAlert, error) {
	var alert HealthAlert
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).First(&alert).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &errs.ValidationError{Field: "id", Reason: "unknown alert"}
		}
		if err != nil {
			return err
		}
		if alert.Status == StatusResolved {
			return &errs.ConflictError{Reason: "alert already resolved"}
		}
		if alert.Status == StatusAcknowledged {
			return nil
		}

		alert.Status = StatusAcknowledged
		return tx.Model(&HealthAlert{}).Where("id = ?", id).Update("status", StatusAcknowledged).Error
	})
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// resolvedRetention is how long resolved alerts are kept before pruning.
const resolvedRetention = 90 * 24 * time.Hour

// PruneResolved deletes resolved alerts older than the retention window.
func (s *Service) PruneResolved(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-resolvedRetention)
	res := s.db.WithContext(ctx).
		Where("status = ? AND resolved_at < ?", StatusResolved, cutoff).
		Delete(&HealthAlert{})
	return res.RowsAffected, res.Error
}

package correlation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-inventory/core/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service runs the correlation engine and serves correlation lookups.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	validate *validator.Validate
	engine   *Engine
	store    storage.Client
	bucket   string
}

// NewService creates a new correlation service. store may be nil, in which
// case run reports are logged but not archived.
func NewService(db *gorm.DB, logger *zap.Logger, engine *Engine, store storage.Client, bucket string) *Service {
	return &Service{
		db:       db,
		logger:   logger,
		validate: validator.New(),
		engine:   engine,
		store:    store,
		bucket:   bucket,
	}
}

// Run executes a full recompute and archives the run report. An archive
// failure does not fail the run; the correlations are already committed.
func (s *Service) Run(ctx context.Context) (RunSummary, error) {
	summary, err := s.engine.Run(ctx)
	if err != nil {
		return summary, err
	}

	if s.store != nil {
		objectName := fmt.Sprintf("reports/correlations/%s.json", summary.StartedAt.Format("2006-01-02T15-04-05Z"))
		if err := storage.ArchiveReport(ctx, s.store, s.bucket, objectName, summary); err != nil {
			s.logger.Error("Correlation report archive failed",
				zap.String("object", objectName),
				zap.Error(err),
			)
		}
	}
	return summary, nil
}

// GetCurrent returns the item's non-superseded correlation, or nil when the
// item is uncorrelated.
func (s *Service) GetCurrent(ctx context.Context, itemNum string) (*EquipmentCorrelation, error) {
	var row EquipmentCorrelation
	err := s.db.WithContext(ctx).
		Where("item_num = ? AND superseded_at IS NULL", itemNum).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// History returns every correlation the item has had, newest first.
func (s *Service) History(ctx context.Context, itemNum string) ([]EquipmentCorrelation, error) {
	var rows []EquipmentCorrelation
	err := s.db.WithContext(ctx).
		Where("item_num = ?", itemNum).
		Order("created_at desc, id desc").
		Find(&rows).Error
	return rows, err
}

// UpsertClasses ingests an importer batch of tracking class definitions.
func (s *Service) UpsertClasses(ctx context.Context, inputs []ClassInput) (int, error) {
	upserted := 0
	for _, input := range inputs {
		if err := s.validate.Struct(input); err != nil {
			s.logger.Warn("Rejected tracking class",
				zap.String("class_id", input.ClassID),
				zap.Error(err),
			)
			continue
		}
		class := TrackingClass{ClassID: input.ClassID, Name: input.Name, UpdatedAt: time.Now().UTC()}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "class_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).Create(&class).Error
		if err != nil {
			return upserted, err
		}
		upserted++
	}
	return upserted, nil
}

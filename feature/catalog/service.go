package catalog

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns the equipment catalog. Records are created and refreshed by
// the importer through idempotent upserts keyed by item number.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	validate *validator.Validate
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		logger:   logger,
		validate: validator.New(),
	}
}

// UpsertBatch applies an importer batch. Each record is validated and
// applied independently: a malformed record is counted as failed and the
// rest of the batch proceeds.
func (s *Service) UpsertBatch(ctx context.Context, inputs []UpsertInput) UpsertSummary {
	summary := UpsertSummary{Processed: len(inputs)}

	for _, input := range inputs {
		if err := s.validate.Struct(input); err != nil {
			summary.Failed++
			s.logger.Warn("Rejected catalog record",
				zap.String("item_num", input.ItemNum),
				zap.Error(err),
			)
			continue
		}

		outcome, err := s.upsertOne(ctx, input)
		if err != nil {
			summary.Failed++
			s.logger.Warn("Catalog upsert failed",
				zap.String("item_num", input.ItemNum),
				zap.Error(err),
			)
			continue
		}
		switch outcome {
		case outcomeInserted:
			summary.Inserted++
		case outcomeUpdated:
			summary.Updated++
		default:
			summary.Skipped++
		}
	}

	s.logger.Info("Catalog batch applied",
		zap.Int("processed", summary.Processed),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary
}

type upsertOutcome int

const (
	outcomeInserted upsertOutcome = iota
	outcomeUpdated
	outcomeSkipped
)

func (s *Service) upsertOne(ctx context.Context, input UpsertInput) (upsertOutcome, error) {
	var outcome upsertOutcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing EquipmentRecord
		err := tx.Where("item_num = ?", input.ItemNum).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record := EquipmentRecord{
				ItemNum:          input.ItemNum,
				Name:             input.Name,
				Category:         input.Category,
				Qty:              input.Qty,
				HomeStoreCode:    input.HomeStoreCode,
				CurrentStoreCode: input.CurrentStoreCode,
				Rate:             input.Rate,
				Inactive:         input.Inactive,
			}
			outcome = outcomeInserted
			return tx.Create(&record).Error
		}
		if err != nil {
			return err
		}

		if existing.Name == input.Name &&
			existing.Category == input.Category &&
			existing.Qty == input.Qty &&
			existing.HomeStoreCode == input.HomeStoreCode &&
			existing.CurrentStoreCode == input.CurrentStoreCode &&
			existing.Rate.Equal(input.Rate) &&
			existing.Inactive == input.Inactive {
			outcome = outcomeSkipped
			return nil
		}

		existing.Name = input.Name
		existing.Category = input.Category
		existing.Qty = input.Qty
		existing.HomeStoreCode = input.HomeStoreCode
		existing.CurrentStoreCode = input.CurrentStoreCode
		existing.Rate = input.Rate
		existing.Inactive = input.Inactive
		outcome = outcomeUpdated
		return tx.Save(&existing).Error
	})
	return outcome, err
}

// Get returns one catalog record, or nil when unknown.
func (s *Service) Get(ctx context.Context, itemNum string) (*EquipmentRecord, error) {
	var record EquipmentRecord
	err := s.db.WithContext(ctx).Where("item_num = ?", itemNum).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all catalog records ordered by item number.
func (s *Service) List(ctx context.Context) ([]EquipmentRecord, error) {
	var records []EquipmentRecord
	err := s.db.WithContext(ctx).Order("item_num asc").Find(&records).Error
	return records, err
}

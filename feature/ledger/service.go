package ledger

import (
	"context"
	"errors"
	"time"

	"rental-inventory/core/audit"
	"rental-inventory/core/errs"

	"rental-inventory/feature/catalog"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns the inventory unit ledger and its append-only event log.
// Operations-UI commands are translated into scan events, never into direct
// status writes.
type Service struct {
	db        *gorm.DB
	logger    *zap.Logger
	validate  *validator.Validate
	processor *Processor
	catalog   *catalog.Service
}

// NewService creates a new ledger service.
func NewService(db *gorm.DB, logger *zap.Logger, processor *Processor, catalogSvc *catalog.Service) *Service {
	return &Service{
		db:        db,
		logger:    logger,
		validate:  validator.New(),
		processor: processor,
		catalog:   catalogSvc,
	}
}

// AppendBatch appends an importer batch of scan events. Append is idempotent
// on the natural key (tag, type, timestamp, contract); duplicates are
// skipped, malformed records fail individually.
func (s *Service) AppendBatch(ctx context.Context, inputs []AppendInput) AppendSummary {
	summary := AppendSummary{Processed: len(inputs)}

	for _, input := range inputs {
		if err := s.validate.Struct(input); err != nil {
			summary.Failed++
			s.logger.Warn("Rejected scan event",
				zap.String("tag_id", input.TagID),
				zap.Error(err),
			)
			continue
		}

		var count int64
		err := s.db.WithContext(ctx).Model(&ScanEvent{}).
			Where("tag_id = ? AND event_type = ? AND timestamp = ? AND contract_ref = ?",
				input.TagID, input.EventType, input.Timestamp, input.ContractRef).
			Count(&count).Error
		if err != nil {
			summary.Failed++
			continue
		}
		if count > 0 {
			summary.Skipped++
			continue
		}

		event := ScanEvent{
			TagID:       input.TagID,
			EventType:   input.EventType,
			Timestamp:   input.Timestamp,
			ContractRef: input.ContractRef,
			Actor:       input.Actor,
			Attributes:  input.Attributes,
		}
		if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
			summary.Failed++
			continue
		}
		summary.Inserted++
	}

	s.logger.Info("Scan event batch appended",
		zap.Int("processed", summary.Processed),
		zap.Int("inserted", summary.Inserted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary
}

// AssignTag attaches a tagged unit to a rental contract. The command becomes
// a Checkout scan event and is applied immediately for that tag.
func (s *Service) AssignTag(ctx context.Context, contractRef, itemNum, tagID string) error {
	if contractRef == "" {
		return &errs.ValidationError{Field: "contract_ref", Reason: errs.ReasonUnknownContract}
	}
	if tagID == "" {
		return &errs.ValidationError{Field: "tag_id", Reason: errs.ReasonUnknownTag}
	}

	record, err := s.catalog.Get(ctx, itemNum)
	if err != nil {
		return err
	}
	if record == nil {
		return &errs.ValidationError{Field: "item_num", Reason: errs.ReasonUnknownItem}
	}

	unit, err := s.GetUnit(ctx, tagID)
	if err != nil {
		return err
	}
	if unit != nil {
		if unit.Status == StatusSold {
			return &errs.ConflictError{Reason: errs.ReasonUnitRetired}
		}
		if unit.Status == StatusOnRent {
			return &errs.ConflictError{Reason: errs.ReasonTagAssigned}
		}
	}

	event := ScanEvent{
		TagID:       tagID,
		EventType:   EventCheckout,
		Timestamp:   time.Now().UTC(),
		ContractRef: contractRef,
		Actor:       "operations-ui",
		Attributes:  EventAttributes{TrackingClassID: itemNum},
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return err
	}

	_, err = s.processor.ApplyTag(ctx, tagID)
	return err
}

// UpdateStatus drives a unit toward the requested status via the matching
// scan event. Failures carry explicit reason codes for the operations UI.
func (s *Service) UpdateStatus(ctx context.Context, tagID string, target UnitStatus) error {
	unit, err := s.GetUnit(ctx, tagID)
	if err != nil {
		return err
	}
	if unit == nil {
		return &errs.ValidationError{Field: "tag_id", Reason: errs.ReasonUnknownTag}
	}
	if unit.Status == StatusSold {
		return &errs.ConflictError{Reason: errs.ReasonUnitRetired}
	}

	eventType, ok := commandEvent(target)
	if !ok {
		return &errs.ValidationError{Field: "status", Reason: "unsupported target status"}
	}

	// Validate the transition before appending so the operator gets the
	// rejection instead of a silently discarded event.
	if _, err := NextStatus(unit.Status, eventType); err != nil {
		return err
	}

	event := ScanEvent{
		TagID:     tagID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Actor:     "operations-ui",
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return err
	}

	_, err = s.processor.ApplyTag(ctx, tagID)
	return err
}

// MarkMissing transitions a unit to Missing. This is the derived
// no-scan-timeout transition: the decision is made by the health detector,
// but the write stays in the ledger so the single-write-path invariant and
// the audit trail hold.
func (s *Service) MarkMissing(ctx context.Context, tagID, actor string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unit InventoryUnit
		err := tx.Where("tag_id = ?", tagID).First(&unit).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &errs.ValidationError{Field: "tag_id", Reason: errs.ReasonUnknownTag}
		}
		if err != nil {
			return err
		}
		if unit.Status == StatusSold || unit.Status == StatusMissing {
			return nil
		}

		oldStatus := unit.Status
		unit.Status = StatusMissing
		if err := tx.Save(&unit).Error; err != nil {
			return err
		}
		return audit.NewRecorder(tx).Record(unit.TableName(), tagID, "status", string(oldStatus), string(StatusMissing), actor)
	})
}

// GetUnit returns one unit, or nil when unknown.
func (s *Service) GetUnit(ctx context.Context, tagID string) (*InventoryUnit, error) {
	var unit InventoryUnit
	err := s.db.WithContext(ctx).Where("tag_id = ?", tagID).First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// ListUnits returns units, optionally filtered by status and correlated
// item number.
func (s *Service) ListUnits(ctx context.Context, status UnitStatus, itemNum string) ([]InventoryUnit, error) {
	query := s.db.WithContext(ctx).Model(&InventoryUnit{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if itemNum != "" {
		query = query.Where("correlated_item_num = ?", itemNum)
	}

	var units []InventoryUnit
	err := query.Order("tag_id asc").Find(&units).Error
	return units, err
}

// Processor exposes the event processor for batch jobs.
func (s *Service) Processor() *Processor {
	return s.processor
}

package stores

import (
	"context"
	"errors"
	"fmt"

	"rental-inventory/core/audit"
	"rental-inventory/core/errs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the store correlation registry. All cross-system store joins
// resolve through it; no other code hard-codes store identity.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new registry service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Register maps a tracking store code to a POS store code. It fails with a
// ConflictError if either code is already actively mapped to a different
// counterpart. Registering the identical active pair is a no-op.
func (s *Service) Register(ctx context.Context, trackingCode, posCode, name string, trackingEnabled bool) (*StoreCorrelation, error) {
	if trackingCode == "" {
		return nil, &errs.ValidationError{Field: "tracking_store_code", Reason: "required"}
	}
	if posCode == "" {
		return nil, &errs.ValidationError{Field: "pos_store_code", Reason: "required"}
	}

	var result *StoreCorrelation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := audit.NewRecorder(tx)

		// Existing mapping for this tracking code
		var byTracking StoreCorrelation
		errTracking := tx.Where("tracking_store_code = ?", trackingCode).First(&byTracking).Error
		if errTracking != nil && !errors.Is(errTracking, gorm.ErrRecordNotFound) {
			return errTracking
		}
		if errTracking == nil && byTracking.Active {
			if byTracking.PosStoreCode == posCode {
				result = &byTracking
				return nil
			}
			return &errs.ConflictError{
				Reason: fmt.Sprintf("tracking store %s already mapped to pos store %s", trackingCode, byTracking.PosStoreCode),
			}
		}

		// Existing active mapping for this POS code on another tracking code
		var byPos StoreCorrelation
		errPos := tx.Where("pos_store_code = ? AND active = ? AND tracking_store_code <> ?", posCode, true, trackingCode).
			First(&byPos).Error
		if errPos != nil && !errors.Is(errPos, gorm.ErrRecordNotFound) {
			return errPos
		}
		if errPos == nil {
			return &errs.ConflictError{
				Reason: fmt.Sprintf("pos store %s already mapped to tracking store %s", posCode, byPos.TrackingStoreCode),
			}
		}

		if errors.Is(errTracking, gorm.ErrRecordNotFound) {
			mapping := StoreCorrelation{
				TrackingStoreCode: trackingCode,
				PosStoreCode:      posCode,
				Name:              name,
				TrackingEnabled:   trackingEnabled,
				Active:            true,
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
			if err := rec.Record(mapping.TableName(), trackingCode, "pos_store_code", "", posCode, "registry"); err != nil {
				return err
			}
			result = &mapping
			return nil
		}

		// Reactivation of a previously deactivated tracking code, possibly
		// with a new counterpart.
		oldPos := byTracking.PosStoreCode
		byTracking.PosStoreCode = posCode
		byTracking.Name = name
		byTracking.TrackingEnabled = trackingEnabled
		byTracking.Active = true
		if err := tx.Save(&byTracking).Error; err != nil {
			return err
		}
		if err := rec.Record(byTracking.TableName(), trackingCode, "active", "false", "true", "registry"); err != nil {
			return err
		}
		if oldPos != posCode {
			if err := rec.Record(byTracking.TableName(), trackingCode, "pos_store_code", oldPos, posCode, "registry"); err != nil {
				return err
			}
		}
		result = &byTracking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Store mapping registered",
		zap.String("tracking_store_code", trackingCode),
		zap.String("pos_store_code", posCode),
	)
	return result, nil
}

// LookupByTracking resolves an active mapping by tracking store code.
func (s *Service) LookupByTracking(ctx context.Context, trackingCode string) (*StoreCorrelation, error) {
	var mapping StoreCorrelation
	err := s.db.WithContext(ctx).
		Where("tracking_store_code = ? AND active = ?", trackingCode, true).
		First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// LookupByPos resolves an active mapping by POS store code.
func (s *Service) LookupByPos(ctx context.Context, posCode string) (*StoreCorrelation, error) {
	var mapping StoreCorrelation
	err := s.db.WithContext(ctx).
		Where("pos_store_code = ? AND active = ?", posCode, true).
		First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// Lookup resolves a code in both directions: tracking first, then POS.
func (s *Service) Lookup(ctx context.Context, code string) (*StoreCorrelation, error) {
	mapping, err := s.LookupByTracking(ctx, code)
	if err != nil || mapping != nil {
		return mapping, err
	}
	return s.LookupByPos(ctx, code)
}

// Deactivate marks a mapping inactive. History is retained; nothing is
// deleted.
func (s *Service) Deactivate(ctx context.Context, trackingCode string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mapping StoreCorrelation
		err := tx.Where("tracking_store_code = ?", trackingCode).First(&mapping).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &errs.ValidationError{Field: "tracking_store_code", Reason: "unknown store"}
		}
		if err != nil {
			return err
		}
		if !mapping.Active {
			return nil
		}

		mapping.Active = false
		if err := tx.Save(&mapping).Error; err != nil {
			return err
		}
		return audit.NewRecorder(tx).Record(mapping.TableName(), trackingCode, "active", "true", "false", "registry")
	})
}

// List returns all mappings, active and inactive.
func (s *Service) List(ctx context.Context) ([]StoreCorrelation, error) {
	var mappings []StoreCorrelation
	err := s.db.WithContext(ctx).Order("tracking_store_code asc").Find(&mappings).Error
	return mappings, err
}

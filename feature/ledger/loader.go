package ledger

import (
	"rental-inventory/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the ledger feature.
func NewFeature(db *gorm.DB, logger *zap.Logger, catalogSvc *catalog.Service, workers int) *Feature {
	processor := NewProcessor(db, logger, workers)
	svc := NewService(db, logger, processor, catalogSvc)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "ledger"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the ledger to other features.
func (f *Feature) Service() *Service {
	return f.service
}

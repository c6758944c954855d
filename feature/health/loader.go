package health

import (
	"rental-inventory/core/rules"
	"rental-inventory/core/storage"

	"rental-inventory/feature/inventory"
	"rental-inventory/feature/ledger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the health feature.
func NewFeature(db *gorm.DB, logger *zap.Logger, ruleSet rules.Config, ledgerSvc *ledger.Service, inventorySvc *inventory.Service, store storage.Client, bucket string) *Feature {
	generator := NewGenerator(db, logger, ruleSet, ledgerSvc, inventorySvc)
	svc := NewService(db, logger, generator, store, bucket)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "health"
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

// Service exposes the health service to batch commands.
func (f *Feature) Service() *Service {
	return f.service
}

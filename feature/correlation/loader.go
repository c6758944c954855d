package correlation

import (
	"rental-inventory/core/rules"
	"rental-inventory/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the correlation feature.
func NewFeature(db *gorm.DB, logger *zap.Logger, ruleSet rules.Config, store storage.Client, bucket string) *Feature {
	engine := NewEngine(db, logger, ruleSet)
	svc := NewService(db, logger, engine, store, bucket)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "correlation"
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

// Service exposes the correlation service to other features.
func (f *Feature) Service() *Service {
	return f.service
}

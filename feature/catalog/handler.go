package catalog

import (
	"rental-inventory/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the equipment catalog.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/batch", h.HandleUpsertBatch)
	group.Get("/:itemNum", h.HandleGet)
}

// HandleUpsertBatch applies an importer batch of equipment records.
// @Summary Upsert equipment records
// @Description Idempotent batch upsert keyed by item number. Returns per-batch counts.
// @Tags catalog
// @Accept json
// @Produce json
// @Param batch body []UpsertInput true "Equipment batch"
// @Success 200 {object} UpsertSummary
// @Failure 400 {object} map[string]string
// @Router /catalog/batch [post]
func (h *Handler) HandleUpsertBatch(c *fiber.Ctx) error {
	var inputs []UpsertInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	summary := h.service.UpsertBatch(c.Context(), inputs)
	return c.JSON(summary)
}

// HandleGet returns one catalog record.
// @Summary Get equipment record
// @Tags catalog
// @Produce json
// @Param itemNum path string true "Item number"
// @Success 200 {object} EquipmentRecord
// @Failure 404 {object} map[string]string
// @Router /catalog/{itemNum} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	record, err := h.service.Get(c.Context(), c.Params("itemNum"))
	if err != nil {
		l.Error("Catalog lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if record == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown item"})
	}
	return c.JSON(record)
}

package inventory

import (
	"rental-inventory/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles read-only HTTP requests for the combined inventory view.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	inv := app.Group("/inventory")
	inv.Get("/", h.HandleList)
	inv.Get("/:itemNum", h.HandleGet)
}

// HandleList returns the combined inventory rows.
// @Summary List combined inventory
// @Description Derived availability and utilization per item. Never authoritative.
// @Tags inventory
// @Produce json
// @Param status query string false "Derived status filter"
// @Param quality query string false "Data quality flag filter"
// @Success 200 {array} CombinedInventoryRow
// @Router /inventory [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	rows, err := h.service.List(c.Context(), ItemStatus(c.Query("status")), DataQualityFlag(c.Query("quality")))
	if err != nil {
		l.Error("Inventory projection failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rows)
}

// HandleGet returns one item's combined inventory row.
// @Summary Get combined inventory row
// @Tags inventory
// @Produce json
// @Param itemNum path string true "Item number"
// @Success 200 {object} CombinedInventoryRow
// @Failure 404 {object} map[string]string
// @Router /inventory/{itemNum} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	row, err := h.service.Get(c.Context(), c.Params("itemNum"))
	if err != nil {
		l.Error("Inventory projection failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if row == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown item"})
	}
	return c.JSON(row)
}

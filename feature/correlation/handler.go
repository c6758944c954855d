package correlation

import (
	"rental-inventory/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for correlations.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the correlation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	corr := app.Group("/correlations")
	corr.Post("/run", h.HandleRun)
	corr.Get("/:itemNum", h.HandleGet)
	corr.Get("/:itemNum/history", h.HandleHistory)

	app.Post("/tracking-classes/batch", h.HandleUpsertClasses)
}

// HandleRun triggers a full correlation recompute.
// @Summary Run correlation engine
// @Description Full-batch recompute; the run report is archived to object storage.
// @Tags correlation
// @Produce json
// @Success 200 {object} RunSummary
// @Router /correlations/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	summary, err := h.service.Run(c.Context())
	if err != nil {
		l.Error("Correlation run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// HandleGet returns the current correlation for an item.
// @Summary Get current correlation
// @Tags correlation
// @Produce json
// @Param itemNum path string true "Item number"
// @Success 200 {object} EquipmentCorrelation
// @Failure 404 {object} map[string]string
// @Router /correlations/{itemNum} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	row, err := h.service.GetCurrent(c.Context(), c.Params("itemNum"))
	if err != nil {
		l.Error("Correlation lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if row == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no active correlation"})
	}
	return c.JSON(row)
}

// HandleHistory returns the full correlation history of an item.
// @Summary Get correlation history
// @Tags correlation
// @Produce json
// @Param itemNum path string true "Item number"
// @Success 200 {array} EquipmentCorrelation
// @Router /correlations/{itemNum}/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	rows, err := h.service.History(c.Context(), c.Params("itemNum"))
	if err != nil {
		l.Error("Correlation history failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rows)
}

// HandleUpsertClasses ingests tracking class definitions.
// @Summary Upsert tracking classes
// @Tags correlation
// @Accept json
// @Produce json
// @Param batch body []ClassInput true "Tracking class batch"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Router /tracking-classes/batch [post]
func (h *Handler) HandleUpsertClasses(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var inputs []ClassInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	upserted, err := h.service.UpsertClasses(c.Context(), inputs)
	if err != nil {
		l.Error("Tracking class upsert failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"upserted": upserted})
}

package health

import (
	"strconv"

	"rental-inventory/core/errs"
	"rental-inventory/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for health alerts.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the health alert routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	alerts := app.Group("/health-alerts")
	alerts.Post("/run", h.HandleRun)
	alerts.Get("/", h.HandleList)
	alerts.Post("/:id/ack", h.HandleAcknowledge)
}

// HandleRun triggers one detection pass.
// @Summary Run health detection
// @Description Detects anomalies and deduplicates alerts; the run report is archived.
// @Tags health
// @Produce json
// @Success 200 {object} RunSummary
// @Router /health-alerts/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	summary, err := h.service.Run(c.Context())
	if err != nil {
		l.Error("Health detection failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// HandleList returns alerts with optional filters.
// @Summary List health alerts
// @Tags health
// @Produce json
// @Param status query string false "Status filter (active, acknowledged, resolved)"
// @Param type query string false "Alert type filter"
// @Success 200 {array} HealthAlert
// @Router /health-alerts [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	alerts, err := h.service.List(c.Context(), AlertStatus(c.Query("status")), AlertType(c.Query("type")))
	if err != nil {
		l.Error("Alert list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(alerts)
}

// HandleAcknowledge marks an alert as seen.
// @Summary Acknowledge health alert
// @Tags health
// @Produce json
// @Param id path int true "Alert id"
// @Success 200 {object} HealthAlert
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /health-alerts/{id}/ack [post]
func (h *Handler) HandleAcknowledge(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid alert id"})
	}

	alert, err := h.service.Acknowledge(c.Context(), id)
	if err != nil {
		switch {
		case errs.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errs.IsConflict(err):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Alert acknowledge failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(alert)
}

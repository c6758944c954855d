package ledger

import (
	"rental-inventory/core/errs"
	"rental-inventory/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the unit ledger.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the ledger routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/scan-events/batch", h.HandleAppendBatch)
	app.Post("/scan-events/apply", h.HandleApplyPending)

	units := app.Group("/units")
	units.Get("/", h.HandleListUnits)
	units.Get("/:tagId", h.HandleGetUnit)
	units.Post("/:tagId/status", h.HandleUpdateStatus)

	app.Post("/contracts/:ref/assign", h.HandleAssignTag)
}

// HandleAppendBatch appends an importer batch of scan events.
// @Summary Append scan events
// @Description Idempotent batch append keyed by (tag, type, timestamp, contract).
// @Tags ledger
// @Accept json
// @Produce json
// @Param batch body []AppendInput true "Scan event batch"
// @Success 200 {object} AppendSummary
// @Failure 400 {object} map[string]string
// @Router /scan-events/batch [post]
func (h *Handler) HandleAppendBatch(c *fiber.Ctx) error {
	var inputs []AppendInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	return c.JSON(h.service.AppendBatch(c.Context(), inputs))
}

// HandleApplyPending runs the scan event processor once.
// @Summary Apply pending scan events
// @Tags ledger
// @Produce json
// @Success 200 {object} ApplySummary
// @Router /scan-events/apply [post]
func (h *Handler) HandleApplyPending(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	summary, err := h.service.Processor().ApplyPending(c.Context())
	if err != nil {
		l.Error("Scan event application failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// HandleGetUnit returns one tracked unit.
// @Summary Get inventory unit
// @Tags ledger
// @Produce json
// @Param tagId path string true "Tag ID"
// @Success 200 {object} InventoryUnit
// @Failure 404 {object} map[string]string
// @Router /units/{tagId} [get]
func (h *Handler) HandleGetUnit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	unit, err := h.service.GetUnit(c.Context(), c.Params("tagId"))
	if err != nil {
		l.Error("Unit lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if unit == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": errs.ReasonUnknownTag})
	}
	return c.JSON(unit)
}

// HandleListUnits returns units with optional status/item filters.
// @Summary List inventory units
// @Tags ledger
// @Produce json
// @Param status query string false "Status filter"
// @Param item_num query string false "Correlated item number filter"
// @Success 200 {array} InventoryUnit
// @Router /units [get]
func (h *Handler) HandleListUnits(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	units, err := h.service.ListUnits(c.Context(), UnitStatus(c.Query("status")), c.Query("item_num"))
	if err != nil {
		l.Error("Unit list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(units)
}

type updateStatusRequest struct {
	Status UnitStatus `json:"status"`
}

// HandleUpdateStatus drives a unit to a new status via a scan event.
// @Summary Update unit status
// @Description Translates the command into a scan event; fails with an explicit reason code.
// @Tags ledger
// @Accept json
// @Produce json
// @Param tagId path string true "Tag ID"
// @Param body body updateStatusRequest true "Target status"
// @Success 200 {object} InventoryUnit
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /units/{tagId}/status [post]
func (h *Handler) HandleUpdateStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	tagID := c.Params("tagId")

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.service.UpdateStatus(c.Context(), tagID, req.Status); err != nil {
		switch {
		case errs.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errs.IsConflict(err):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Status update failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	unit, err := h.service.GetUnit(c.Context(), tagID)
	if err != nil {
		l.Error("Unit lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(unit)
}

type assignTagRequest struct {
	ItemNum string `json:"item_num"`
	TagID   string `json:"tag_id"`
}

// HandleAssignTag attaches a tagged unit to a rental contract.
// @Summary Assign tag to contract
// @Tags ledger
// @Accept json
// @Produce json
// @Param ref path string true "Contract reference"
// @Param body body assignTagRequest true "Assignment"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /contracts/{ref}/assign [post]
func (h *Handler) HandleAssignTag(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req assignTagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.service.AssignTag(c.Context(), c.Params("ref"), req.ItemNum, req.TagID); err != nil {
		switch {
		case errs.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errs.IsConflict(err):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Tag assignment failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

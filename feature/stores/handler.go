package stores

import (
	"rental-inventory/core/errs"
	"rental-inventory/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the store registry.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the store registry routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/stores")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleRegister)
	group.Get("/:code", h.HandleLookup)
	group.Delete("/:code", h.HandleDeactivate)
}

type registerRequest struct {
	TrackingStoreCode string `json:"tracking_store_code"`
	PosStoreCode      string `json:"pos_store_code"`
	Name              string `json:"name"`
	TrackingEnabled   bool   `json:"tracking_enabled"`
}

// HandleRegister creates or reactivates a store mapping.
// @Summary Register store mapping
// @Description Map a tracking-system store code to a POS store code.
// @Tags stores
// @Accept json
// @Produce json
// @Param mapping body registerRequest true "Store mapping"
// @Success 201 {object} StoreCorrelation
// @Failure 409 {object} map[string]string "Mapping conflict"
// @Router /stores [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	mapping, err := h.service.Register(c.Context(), req.TrackingStoreCode, req.PosStoreCode, req.Name, req.TrackingEnabled)
	if err != nil {
		switch {
		case errs.IsConflict(err):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errs.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Store registration failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(mapping)
}

// HandleLookup resolves a store code in both directions.
// @Summary Lookup store mapping
// @Tags stores
// @Produce json
// @Param code path string true "Tracking or POS store code"
// @Success 200 {object} StoreCorrelation
// @Failure 404 {object} map[string]string
// @Router /stores/{code} [get]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	mapping, err := h.service.Lookup(c.Context(), c.Params("code"))
	if err != nil {
		l.Error("Store lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if mapping == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown store code"})
	}
	return c.JSON(mapping)
}

// HandleDeactivate marks a mapping inactive.
// @Summary Deactivate store mapping
// @Tags stores
// @Produce json
// @Param code path string true "Tracking store code"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /stores/{code} [delete]
func (h *Handler) HandleDeactivate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if err := h.service.Deactivate(c.Context(), c.Params("code")); err != nil {
		if errs.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Store deactivation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleList returns all mappings.
// @Summary List store mappings
// @Tags stores
// @Produce json
// @Success 200 {array} StoreCorrelation
// @Router /stores [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	mappings, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Store list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(mappings)
}

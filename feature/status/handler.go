package status

import (
	"net/http"

	"prime-sync/feature/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Source is the pipeline state shown by the status routes.
type Source interface {
	Targets() []string
	Stats() pipeline.Stats
	LedgerIDs() []uint64
}

// Handler handles the status routes.
type Handler struct {
	source  Source
	metrics http.Handler
}

// NewHandler creates a new HTTP handler. A nil metrics handler disables
// GET /metrics.
func NewHandler(source Source, metrics http.Handler) *Handler {
	return &Handler{source: source, metrics: metrics}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	app.Get("/ledger", h.HandleLedger)
	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics))
	}
}

// HandleHealth reports the configured targets and queue depths.
// @Summary Pipeline health
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"targets": h.source.Targets(),
		"stats":   h.source.Stats(),
	})
}

// HandleLedger lists the battle ids held by the ledger, oldest first.
// @Summary Battle ledger
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ledger [get]
func (h *Handler) HandleLedger(c *fiber.Ctx) error {
	ids := h.source.LedgerIDs()
	return c.JSON(fiber.Map{
		"count": len(ids),
		"ids":   ids,
	})
}

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the status feature.
func NewFeature(source Source, metrics http.Handler) *Feature {
	return &Feature{handler: NewHandler(source, metrics)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "status"
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

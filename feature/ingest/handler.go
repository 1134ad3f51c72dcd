package ingest

import (
	"errors"

	"prime-sync/core/gameserver"
	"prime-sync/core/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Submitter accepts captured payloads.
type Submitter interface {
	Submit(kind Kind, payload []byte) error
}

// SessionSetter receives the game server session of the running client.
type SessionSetter interface {
	SetSession(s gameserver.Session)
}

// Handler exposes ingestion over HTTP for the capture collaborator.
type Handler struct {
	submitter Submitter
	sessions  SessionSetter
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(submitter Submitter, sessions SessionSetter, logger *zap.Logger) *Handler {
	return &Handler{submitter: submitter, sessions: sessions, logger: logger}
}

// RegisterRoutes registers the ingest routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/ingest/:kind", h.HandleIngest)
	app.Put("/session", h.HandleSession)
}

// HandleIngest queues the raw request body as a payload of the given kind.
func (h *Handler) HandleIngest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	kind, err := ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// fiber reuses the request buffer once the handler returns.
	payload := append([]byte(nil), c.Body()...)

	switch err := h.submitter.Submit(kind, payload); {
	case err == nil:
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted", "kind": kind})
	case errors.Is(err, ErrIngestQueueFull):
		l.Warn("Ingest queue full, payload rejected", zap.String("kind", string(kind)))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrStopped):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownKind):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Failed to submit payload", zap.String("kind", string(kind)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// HandleSession updates the game server session headers.
func (h *Handler) HandleSession(c *fiber.Ctx) error {
	var s gameserver.Session
	if err := json.Unmarshal(c.Body(), &s); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session document"})
	}
	if s.ServerURL == "" && s.SessionID == "" && s.InstanceID == 0 && s.PrimeVersion == "" && s.UnityVersion == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty session document"})
	}

	h.sessions.SetSession(s)
	logger.WithRayID(h.logger, c).Info("Game server session updated",
		zap.String("server_url", s.ServerURL),
		zap.Int("instance_id", s.InstanceID),
	)
	return c.SendStatus(fiber.StatusNoContent)
}

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the ingest feature.
func NewFeature(submitter Submitter, sessions SessionSetter, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(submitter, sessions, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "ingest"
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

package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// readyKey is read, never written, to check that the cache answers.
const readyKey = "readyz"

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	store  fiber.Storage
	status UpstreamStatus
}

// NewProbeHandler creates a new probe handler. status may be nil when the
// upstream probe is disabled.
func NewProbeHandler(store fiber.Storage, status UpstreamStatus) *ProbeHandler {
	return &ProbeHandler{store: store, status: status}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// The upstream field reports the last probe result and never fails the check.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"upstream": upstreamLabel(h.status),
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the cache storage is reachable.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if _, err := h.store.GetWithContext(c.Context(), readyKey); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "cache unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

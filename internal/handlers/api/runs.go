package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"influencerfinder/internal/cache"
)

// RunHandler returns stored runs as JSON.
type RunHandler struct {
	runs *cache.RunStore
}

// NewRunHandler creates a new API run handler.
func NewRunHandler(runs *cache.RunStore) *RunHandler {
	return &RunHandler{runs: runs}
}

// Get returns the run with the given id.
func (h *RunHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid run id")
	}

	result, err := h.runs.Load(c.Context(), id)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return jsonError(c, fiber.StatusNotFound, "run not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to load run")
	}

	return jsonSuccess(c, result)
}

package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"influencerfinder/internal/cache"
	"influencerfinder/internal/config"
	"influencerfinder/internal/export"
	"influencerfinder/internal/models"
)

// RunHandler serves stored runs: the results page and its CSV export.
type RunHandler struct {
	cfg  *config.Config
	runs *cache.RunStore
	now  func() time.Time
}

// NewRunHandler creates a new run handler.
func NewRunHandler(cfg *config.Config, runs *cache.RunStore, now func() time.Time) *RunHandler {
	if now == nil {
		now = time.Now
	}
	return &RunHandler{cfg: cfg, runs: runs, now: now}
}

// Show renders a stored run.
func (h *RunHandler) Show(c fiber.Ctx) error {
	result, err := h.load(c)
	if err != nil {
		return err
	}
	return renderRun(c, h.cfg, result)
}

// Export streams a stored run as CSV.
func (h *RunHandler) Export(c fiber.Ctx) error {
	result, err := h.load(c)
	if err != nil {
		return err
	}

	c.Attachment(export.Filename(h.now()))
	c.Set(fiber.HeaderContentType, export.ContentType)
	return export.WriteCSV(c.Response().BodyWriter(), result.Profiles)
}

func (h *RunHandler) load(c fiber.Ctx) (*models.RunResult, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "identifiant de recherche invalide")
	}

	result, err := h.runs.Load(c.Context(), id)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, fiber.NewError(fiber.StatusNotFound, "recherche introuvable ou expirée")
		}
		return nil, err
	}
	return result, nil
}

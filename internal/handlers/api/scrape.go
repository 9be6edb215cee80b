package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"influencerfinder/internal/handlers"
	"influencerfinder/internal/pipeline"
)

// ScrapeHandler scores an explicit list of handles.
type ScrapeHandler struct {
	runner handlers.Runner
	logger *zap.Logger
}

// NewScrapeHandler creates a new API scrape handler.
func NewScrapeHandler(runner handlers.Runner, logger *zap.Logger) *ScrapeHandler {
	return &ScrapeHandler{runner: runner, logger: logger}
}

// Scrape fetches up to the configured number of handles and returns them
// ranked along with the per-handle errors.
func (h *ScrapeHandler) Scrape(c fiber.Ctx) error {
	var body pipeline.AnalyzeRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Fournissez une liste de usernames")
	}

	result, err := h.runner.Analyze(c.Context(), body)
	if err != nil {
		status, msg := handlers.AnalyzeFailure(err)
		if status >= fiber.StatusInternalServerError {
			h.logger.Warn("api scrape failed", zap.Error(err))
		}
		return jsonError(c, status, msg)
	}

	return jsonSuccess(c, result)
}

package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"influencerfinder/internal/config"
	"influencerfinder/internal/handlers"
	"influencerfinder/internal/models"
	"influencerfinder/internal/strategy"
	"influencerfinder/internal/validation"
)

// SearchHandler exposes the search strategy and the automatic search as JSON.
type SearchHandler struct {
	yaml   *config.YAMLConfig
	runner handlers.Runner
	now    func() time.Time
	logger *zap.Logger
}

// NewSearchHandler creates a new API search handler.
func NewSearchHandler(yaml *config.YAMLConfig, runner handlers.Runner, now func() time.Time, logger *zap.Logger) *SearchHandler {
	if now == nil {
		now = time.Now
	}
	return &SearchHandler{yaml: yaml, runner: runner, now: now, logger: logger}
}

// Strategy returns the search plan for the posted filters.
func (h *SearchHandler) Strategy(c fiber.Ctx) error {
	filters, err := decodeFilters(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateFilters(filters); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	plan := strategy.Build(filters, h.yaml.NicheHashtags(filters.Niche), h.yaml.GetTips(), h.now())
	return jsonSuccess(c, plan)
}

// AutoSearch runs the hashtag discovery and returns the ranked run.
func (h *SearchHandler) AutoSearch(c fiber.Ctx) error {
	filters, err := decodeFilters(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateFilters(filters); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	result, err := h.runner.AutoSearch(c.Context(), filters)
	if err != nil {
		status, msg, tip := handlers.AutoSearchFailure(err)
		if status >= fiber.StatusInternalServerError {
			h.logger.Warn("api auto-search failed", zap.Error(err))
		}
		return jsonErrorTip(c, status, msg, tip)
	}

	return jsonSuccess(c, result)
}

// decodeFilters reads SearchFilters from a JSON body. Omitted fields are
// zero, which leaves the matching range unbounded.
func decodeFilters(c fiber.Ctx) (models.SearchFilters, error) {
	var filters models.SearchFilters
	if len(c.Body()) == 0 {
		return filters, nil
	}
	err := json.Unmarshal(c.Body(), &filters)
	return filters, err
}

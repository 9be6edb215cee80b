package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"influencerfinder/internal/config"
	"influencerfinder/internal/models"
	"influencerfinder/internal/pipeline"
	"influencerfinder/internal/strategy"
	"influencerfinder/internal/validation"
)

// Runner is the part of the pipeline the handlers drive.
type Runner interface {
	Analyze(ctx context.Context, req pipeline.AnalyzeRequest) (*models.RunResult, error)
	AutoSearch(ctx context.Context, filters models.SearchFilters) (*models.RunResult, error)
}

// SearchHandler handles the search form: the manual strategy and the
// automatic hashtag search.
type SearchHandler struct {
	cfg    *config.Config
	yaml   *config.YAMLConfig
	runner Runner
	now    func() time.Time
	logger *zap.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(cfg *config.Config, yaml *config.YAMLConfig, runner Runner, now func() time.Time, logger *zap.Logger) *SearchHandler {
	if now == nil {
		now = time.Now
	}
	return &SearchHandler{cfg: cfg, yaml: yaml, runner: runner, now: now, logger: logger}
}

// Strategy renders the search plan for the submitted filters.
func (h *SearchHandler) Strategy(c fiber.Ctx) error {
	filters := filtersFromForm(c)
	if ok, msg := validation.ValidateFilters(filters); !ok {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	plan := strategy.Build(filters, h.yaml.NicheHashtags(filters.Niche), h.yaml.GetTips(), h.now())

	return c.Render("strategy", MergeBranding(fiber.Map{
		"Title":    "Stratégie de recherche",
		"User":     currentUser(c),
		"Strategy": plan,
	}, h.cfg))
}

// AutoSearch runs the hashtag discovery and renders the ranked table.
func (h *SearchHandler) AutoSearch(c fiber.Ctx) error {
	filters := filtersFromForm(c)
	if ok, msg := validation.ValidateFilters(filters); !ok {
		return h.fail(c, fiber.StatusBadRequest, msg, "")
	}

	result, err := h.runner.AutoSearch(c.Context(), filters)
	if err != nil {
		status, msg, tip := AutoSearchFailure(err)
		if status >= fiber.StatusInternalServerError {
			h.logger.Warn("auto-search failed", zap.Error(err))
		}
		return h.fail(c, status, msg, tip)
	}

	return renderRun(c, h.cfg, result)
}

func (h *SearchHandler) fail(c fiber.Ctx, status int, msg, tip string) error {
	if isHTMX(c) {
		return htmxError(c, msg, tip)
	}
	return fiber.NewError(status, msg)
}

// AutoSearchFailure maps a pipeline error to a status, message and tip.
func AutoSearchFailure(err error) (int, string, string) {
	var hashtagErr *pipeline.HashtagError
	switch {
	case errors.Is(err, pipeline.ErrNoTerms):
		return fiber.StatusBadRequest, "Fournissez au moins un hashtag ou mot-clé", ""
	case errors.Is(err, pipeline.ErrInvalidHashtag):
		return fiber.StatusBadRequest, "Hashtag invalide : lettres, chiffres et _ uniquement", ""
	case errors.As(err, &hashtagErr):
		return fiber.StatusBadGateway, hashtagErr.Error(), TipBlocked
	default:
		return fiber.StatusInternalServerError, "Erreur lors de la recherche", TipGeneric
	}
}

// renderRun renders a run as a partial for HTMX or as a full page.
func renderRun(c fiber.Ctx, cfg *config.Config, result *models.RunResult) error {
	data := MergeBranding(fiber.Map{
		"Title": "Résultats",
		"User":  currentUser(c),
		"Run":   result,
	}, cfg)
	if isHTMX(c) {
		return c.Render("partials/results", data, "")
	}
	return c.Render("results", data)
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"influencerfinder/internal/config"
	"influencerfinder/internal/pipeline"
)

// AnalyzeHandler scores a hand-picked list of handles.
type AnalyzeHandler struct {
	cfg    *config.Config
	runner Runner
	logger *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(cfg *config.Config, runner Runner, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{cfg: cfg, runner: runner, logger: logger}
}

// Analyze fetches the submitted handles and renders them ranked, with the
// handles that could not be fetched listed below.
func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	usernames, keywords := analyzeFromForm(c)

	result, err := h.runner.Analyze(c.Context(), pipeline.AnalyzeRequest{
		Usernames: usernames,
		Keywords:  keywords,
	})
	if err != nil {
		status, msg := AnalyzeFailure(err)
		if status >= fiber.StatusInternalServerError {
			h.logger.Warn("analyze failed", zap.Error(err))
		}
		if isHTMX(c) {
			return htmxError(c, msg, "")
		}
		return fiber.NewError(status, msg)
	}

	return renderRun(c, h.cfg, result)
}

// AnalyzeFailure maps a pipeline error to a status and message.
func AnalyzeFailure(err error) (int, string) {
	if errors.Is(err, pipeline.ErrNoUsernames) {
		return fiber.StatusBadRequest, "Fournissez une liste de usernames"
	}
	return fiber.StatusInternalServerError, "Erreur lors de l'analyse"
}

package handlers

import (
	"github.com/gofiber/fiber/v3"

	"influencerfinder/internal/config"
	"influencerfinder/internal/models"
)

// UpstreamStatus reports the latest upstream probe result.
type UpstreamStatus interface {
	UpstreamStatus() (up bool, checked bool)
}

func upstreamLabel(s UpstreamStatus) string {
	if s == nil {
		return "unknown"
	}
	up, checked := s.UpstreamStatus()
	switch {
	case !checked:
		return "unknown"
	case up:
		return "up"
	default:
		return "down"
	}
}

// HomeHandler renders the landing page with both forms.
type HomeHandler struct {
	cfg    *config.Config
	yaml   *config.YAMLConfig
	status UpstreamStatus
}

// NewHomeHandler creates a new home handler. yaml and status may be nil.
func NewHomeHandler(cfg *config.Config, yaml *config.YAMLConfig, status UpstreamStatus) *HomeHandler {
	return &HomeHandler{cfg: cfg, yaml: yaml, status: status}
}

// Index renders the search form and the profile analyzer.
func (h *HomeHandler) Index(c fiber.Ctx) error {
	return c.Render("index", MergeBranding(fiber.Map{
		"Title":           "Recherche",
		"User":            currentUser(c),
		"Filters":         models.DefaultSearchFilters(),
		"Niches":          h.yaml.Niches(),
		"AnalyzeKeywords": DefaultAnalyzeKeywords,
		"Upstream":        upstreamLabel(h.status),
	}, h.cfg))
}

package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"influencerfinder/internal/cache"
	"influencerfinder/internal/config"
	"influencerfinder/internal/handlers"
	"influencerfinder/internal/handlers/api"
	"influencerfinder/internal/metrics"
	"influencerfinder/internal/middleware"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	YAML   *config.YAMLConfig
	Runner handlers.Runner
	Runs   *cache.RunStore
	Store  fiber.Storage
	Status handlers.UpstreamStatus // nil when the probe is off
	Now    func() time.Time
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg.AuthEnabled())

	homeHandler := handlers.NewHomeHandler(s.Cfg, deps.YAML, deps.Status)
	searchHandler := handlers.NewSearchHandler(s.Cfg, deps.YAML, deps.Runner, deps.Now, s.Logger)
	analyzeHandler := handlers.NewAnalyzeHandler(s.Cfg, deps.Runner, s.Logger)
	runHandler := handlers.NewRunHandler(s.Cfg, deps.Runs, deps.Now)
	probeHandler := handlers.NewProbeHandler(deps.Store, deps.Status)

	apiSearch := api.NewSearchHandler(deps.YAML, deps.Runner, deps.Now, s.Logger)
	apiScrape := api.NewScrapeHandler(deps.Runner, s.Logger)
	apiRuns := api.NewRunHandler(deps.Runs)

	// Probes and metrics stay open for the cluster.
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if s.Cfg.AuthEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, s.Logger)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		s.Logger.Info("OIDC authentication is disabled, set OIDC_ISSUER to enable")
	}

	// Frontend routes
	s.App.Get("/", authMiddleware.RequireAuth, homeHandler.Index)
	s.App.Post("/search", authMiddleware.RequireAuth, searchHandler.Strategy)
	s.App.Post("/auto-search", authMiddleware.RequireAuth, searchHandler.AutoSearch)
	s.App.Post("/analyze", authMiddleware.RequireAuth, analyzeHandler.Analyze)
	s.App.Get("/runs/:id", authMiddleware.RequireAuth, runHandler.Show)
	s.App.Get("/runs/:id/export.csv", authMiddleware.RequireAuth, runHandler.Export)

	// JSON API
	apiGroup := s.App.Group("/api", authMiddleware.RequireAuth)
	apiGroup.Post("/search", apiSearch.Strategy)
	apiGroup.Post("/auto-search", apiSearch.AutoSearch)
	apiGroup.Post("/scrape", apiScrape.Scrape)
	apiGroup.Get("/runs/:id", apiRuns.Get)

	return nil
}

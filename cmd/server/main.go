package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"influencerfinder/internal/cache"
	"influencerfinder/internal/config"
	"influencerfinder/internal/instagram"
	"influencerfinder/internal/jobs"
	"influencerfinder/internal/logging"
	"influencerfinder/internal/metrics"
	"influencerfinder/internal/pipeline"
	"influencerfinder/internal/scoring"
	"influencerfinder/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogEncoding())
	defer func() { _ = logger.Sync() }()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		logger.Fatal("failed to load config file", zap.Error(err))
	}
	if yamlCfg == nil {
		logger.Info("no config file found, using built-in niches and vocabulary")
	}

	store := cache.NewStorage(cfg.RedisURL, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("cache close failed", zap.Error(err))
		}
	}()

	upstream := instagram.NewHTTPClient(instagram.Options{
		BaseURL:      cfg.InstagramBaseURL,
		AppID:        cfg.InstagramAppID,
		UserAgent:    cfg.InstagramUserAgent,
		RPS:          cfg.InstagramRPS,
		Burst:        cfg.InstagramBurst,
		MaxAttempts:  cfg.InstagramMaxAttempts,
		BaseBackoff:  cfg.InstagramBaseBackoff,
		Timeout:      cfg.InstagramTimeout,
		FallbackHTML: cfg.InstagramFallbackHTML,
	}, logger.Named("instagram"))

	client := cache.NewCachingClient(upstream, cache.NewProfileCache(store, cfg.CacheTTL), logger.Named("cache"))
	runs := cache.NewRunStore(store, cfg.CacheTTL)

	engine := scoring.New(yamlCfg.Vocabulary())
	pipe := pipeline.New(client, engine, runs, pipeline.Options{
		AnalyzeLimit:    cfg.AnalyzeLimit,
		AnalyzeDelay:    cfg.AnalyzeDelay,
		MediaLimit:      cfg.AutoSearchMediaLimit,
		ProfileLimit:    cfg.AutoSearchProfileLimit,
		AutoSearchDelay: cfg.AutoSearchDelay,
	}, logger.Named("pipeline"))

	deps := server.Deps{
		YAML:   yamlCfg,
		Runner: pipe,
		Runs:   runs,
		Store:  store,
		Now:    engine.Now,
	}

	// The probe hits the upstream directly so cached answers cannot hide an outage.
	if cfg.ProbeInterval > 0 {
		probe := jobs.NewUpstreamProbe(upstream, cfg.ProbeUsername, cfg.ProbeInterval, logger.Named("probe"))
		deps.Status = probe
		metrics.Init(probe)
		go probe.Start(ctx)
	} else {
		metrics.Init(nil)
	}

	srv := server.New(cfg, store, logger.Named("http"))
	if err := srv.RegisterRoutes(ctx, deps); err != nil {
		logger.Fatal("failed to register routes", zap.Error(err))
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

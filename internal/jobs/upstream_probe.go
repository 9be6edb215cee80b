package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"influencerfinder/internal/instagram"
	"influencerfinder/internal/models"
)

// ProfileFetcher is the slice of the upstream client the probe needs.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (models.RawProfile, error)
}

// UpstreamProbe periodically fetches a known public profile and remembers
// whether the upstream answered.
type UpstreamProbe struct {
	client   ProfileFetcher
	username string
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	up      bool
	checked bool
	lastErr error
}

// NewUpstreamProbe creates a new upstream probe.
func NewUpstreamProbe(client ProfileFetcher, username string, interval time.Duration, logger *zap.Logger) *UpstreamProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpstreamProbe{
		client:   client,
		username: username,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the background probe loop. It returns when ctx is done.
func (p *UpstreamProbe) Start(ctx context.Context) {
	p.logger.Info("upstream probe started",
		zap.Duration("interval", p.interval),
		zap.String("username", p.username))

	// Run immediately on start
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("upstream probe stopped")
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

// Check runs one probe. A not-found answer still proves the upstream is
// reachable; blocks, rate limits and transport errors mark it down.
func (p *UpstreamProbe) Check(ctx context.Context) {
	_, err := p.client.FetchProfile(ctx, p.username)
	if ctx.Err() != nil {
		return
	}

	up := err == nil || errors.Is(err, instagram.ErrNotFound)

	p.mu.Lock()
	wasUp, wasChecked := p.up, p.checked
	p.up, p.checked, p.lastErr = up, true, err
	p.mu.Unlock()

	switch {
	case up && (!wasUp || !wasChecked):
		p.logger.Info("upstream reachable")
	case !up && (wasUp || !wasChecked):
		p.logger.Warn("upstream unreachable", zap.Error(err))
	}
}

// UpstreamStatus reports the last probe result. checked is false until the
// first probe has completed.
func (p *UpstreamProbe) UpstreamStatus() (up bool, checked bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.up, p.checked
}

// LastError returns the error of the last probe, if any.
func (p *UpstreamProbe) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

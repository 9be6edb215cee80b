package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"influencerfinder/internal/instagram"
	"influencerfinder/internal/metrics"
	"influencerfinder/internal/models"
)

// ProfileCache stores fetched profiles by username.
type ProfileCache struct {
	store fiber.Storage
	ttl   time.Duration
}

// NewProfileCache creates a cache whose entries live for ttl.
func NewProfileCache(store fiber.Storage, ttl time.Duration) *ProfileCache {
	return &ProfileCache{store: store, ttl: ttl}
}

func profileKey(username string) string {
	return "profile:" + strings.ToLower(username)
}

// Get returns the cached profile or ErrMiss.
func (c *ProfileCache) Get(ctx context.Context, username string) (models.RawProfile, error) {
	data, err := c.store.GetWithContext(ctx, profileKey(username))
	if err != nil {
		return models.RawProfile{}, fmt.Errorf("cache: get profile: %w", err)
	}
	if data == nil {
		return models.RawProfile{}, ErrMiss
	}
	var p models.RawProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return models.RawProfile{}, fmt.Errorf("cache: decode profile: %w", err)
	}
	return p, nil
}

// Put stores p under its username.
func (c *ProfileCache) Put(ctx context.Context, p models.RawProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.store.SetWithContext(ctx, profileKey(p.Username), data, c.ttl)
}

// CachingClient serves profiles from a ProfileCache before asking the
// wrapped client. Hashtag feeds and partial profiles are never cached.
type CachingClient struct {
	next   instagram.Client
	cache  *ProfileCache
	logger *zap.Logger
}

var _ instagram.Client = (*CachingClient)(nil)

// NewCachingClient decorates next with cache.
func NewCachingClient(next instagram.Client, cache *ProfileCache, logger *zap.Logger) *CachingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingClient{next: next, cache: cache, logger: logger}
}

func (c *CachingClient) FetchProfile(ctx context.Context, username string) (models.RawProfile, error) {
	p, err := c.cache.Get(ctx, username)
	if err == nil {
		metrics.RecordCacheLookup(true)
		return p, nil
	}
	metrics.RecordCacheLookup(false)
	if !errors.Is(err, ErrMiss) {
		c.logger.Warn("profile cache read failed", zap.String("username", username), zap.Error(err))
	}

	p, err = c.next.FetchProfile(ctx, username)
	if err != nil {
		return p, err
	}
	if p.Partial {
		c.logger.Debug("partial profile not cached", zap.String("username", username))
		return p, nil
	}
	if err := c.cache.Put(ctx, p); err != nil {
		c.logger.Warn("profile cache write failed", zap.String("username", username), zap.Error(err))
	}
	return p, nil
}

func (c *CachingClient) FetchHashtagUsernames(ctx context.Context, hashtag string, limit int) ([]string, error) {
	return c.next.FetchHashtagUsernames(ctx, hashtag, limit)
}

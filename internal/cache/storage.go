// Package cache keeps upstream responses and finished runs for a bounded
// time. Nothing here is durable.
package cache

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/storage/redis/v3"
	"go.uber.org/zap"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// NewRedisStorage connects to url. The driver panics when the server does
// not answer its initial ping; that is reported as an error instead.
func NewRedisStorage(url string) (store fiber.Storage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache: connect redis: %v", r)
		}
	}()
	return redis.New(redis.Config{URL: url}), nil
}

// NewStorage returns a Redis-backed store when url is set and reachable,
// and an in-process store otherwise.
func NewStorage(url string, logger *zap.Logger) fiber.Storage {
	if url == "" {
		return NewMemoryStorage()
	}
	store, err := NewRedisStorage(url)
	if err != nil {
		logger.Warn("redis unavailable, using in-process cache", zap.Error(err))
		return NewMemoryStorage()
	}
	logger.Info("using redis cache")
	return store
}

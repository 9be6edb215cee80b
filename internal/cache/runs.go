package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"influencerfinder/internal/models"
)

// RunStore keeps finished runs so they can be exported after the response
// that produced them.
type RunStore struct {
	store fiber.Storage
	ttl   time.Duration
}

// NewRunStore creates a store whose runs live for ttl.
func NewRunStore(store fiber.Storage, ttl time.Duration) *RunStore {
	return &RunStore{store: store, ttl: ttl}
}

func runKey(id uuid.UUID) string {
	return "run:" + id.String()
}

// Save stores r under its RunID.
func (s *RunStore) Save(ctx context.Context, r *models.RunResult) error {
	if r.RunID == uuid.Nil {
		return fmt.Errorf("cache: run without id")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.store.SetWithContext(ctx, runKey(r.RunID), data, s.ttl)
}

// Load returns the run with the given id or ErrMiss.
func (s *RunStore) Load(ctx context.Context, id uuid.UUID) (*models.RunResult, error) {
	data, err := s.store.GetWithContext(ctx, runKey(id))
	if err != nil {
		return nil, fmt.Errorf("cache: get run: %w", err)
	}
	if data == nil {
		return nil, ErrMiss
	}
	var r models.RunResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("cache: decode run: %w", err)
	}
	return &r, nil
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

type memoryEntry struct {
	val     []byte
	expires time.Time // zero = never
}

// memoryGCInterval is how often expired keys are swept.
const memoryGCInterval = 10 * time.Second

// MemoryStorage is an in-process fiber.Storage. Expired keys are hidden on
// read and removed by a periodic sweep until Close.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

var _ fiber.Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty store and starts its sweeper.
func NewMemoryStorage() *MemoryStorage {
	return newMemoryStorage(time.Now, memoryGCInterval)
}

// newMemoryStorage starts no sweeper when interval is not positive.
func newMemoryStorage(now func() time.Time, interval time.Duration) *MemoryStorage {
	s := &MemoryStorage{
		data: make(map[string]memoryEntry),
		now:  now,
		done: make(chan struct{}),
	}
	if interval > 0 {
		go s.gc(interval)
	}
	return s
}

func (s *MemoryStorage) gc(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep deletes every expired key.
func (s *MemoryStorage) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.data {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(s.data, k)
		}
	}
}

func (s *MemoryStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && !s.now().Before(e.expires)) {
		return nil, nil
	}
	return e.val, nil
}

func (s *MemoryStorage) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Get(key)
}

func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	e := memoryEntry{val: append([]byte(nil), val...)}
	if exp > 0 {
		e.expires = s.now().Add(exp)
	}

	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Set(key, val, exp)
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) DeleteWithContext(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Delete(key)
}

func (s *MemoryStorage) Reset() error {
	s.mu.Lock()
	s.data = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) ResetWithContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Reset()
}

// Close stops the sweeper. The data stays readable.
func (s *MemoryStorage) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

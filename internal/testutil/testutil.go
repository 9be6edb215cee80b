// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/storage/redis/v3"

	"influencerfinder/internal/instagram"
	"influencerfinder/internal/models"
)

// TestRedis starts an in-process Redis server and returns a storage bound
// to it. Both are closed when the test ends.
func TestRedis(t *testing.T) fiber.Storage {
	t.Helper()

	mr := miniredis.RunT(t)
	store := redis.New(redis.Config{URL: "redis://" + mr.Addr()})
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// FixedClock returns a clock that always reads now.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// Profile builds a raw profile with posts identical posts, the most recent
// one published at last. A zero last leaves post timestamps empty.
func Profile(username string, followers int, bio string, posts, likes, comments int, last time.Time) models.RawProfile {
	p := models.RawProfile{
		ID:            "id-" + username,
		Username:      username,
		FullName:      username,
		Biography:     bio,
		FollowerCount: followers,
		PostCount:     posts,
	}
	for i := range posts {
		post := models.RawPost{LikeCount: likes, CommentCount: comments}
		if i == 0 && !last.IsZero() {
			t := last
			post.TakenAt = &t
		}
		p.RecentPosts = append(p.RecentPosts, post)
	}
	return p
}

// FakeClient is an in-memory instagram.Client. Unknown usernames answer
// like the upstream does for a missing account.
type FakeClient struct {
	mu         sync.Mutex
	profiles   map[string]models.RawProfile
	errs       map[string]error
	hashtags   map[string][]string
	hashtagErr error
	calls      []string
}

var _ instagram.Client = (*FakeClient)(nil)

// NewFakeClient creates a client serving profiles.
func NewFakeClient(profiles ...models.RawProfile) *FakeClient {
	f := &FakeClient{
		profiles: make(map[string]models.RawProfile),
		errs:     make(map[string]error),
		hashtags: make(map[string][]string),
	}
	for _, p := range profiles {
		f.profiles[p.Username] = p
	}
	return f
}

// FailProfile makes fetching username return err.
func (f *FakeClient) FailProfile(username string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[username] = err
}

// SetHashtag registers the authors returned for tag.
func (f *FakeClient) SetHashtag(tag string, usernames ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashtags[tag] = usernames
}

// FailHashtags makes every hashtag fetch return err.
func (f *FakeClient) FailHashtags(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashtagErr = err
}

// Calls returns the requests made so far, as "profile:<name>" or "hashtag:<tag>".
func (f *FakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeClient) FetchProfile(ctx context.Context, username string) (models.RawProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "profile:"+username)

	if err := ctx.Err(); err != nil {
		return models.RawProfile{}, err
	}
	if err, ok := f.errs[username]; ok {
		return models.RawProfile{}, err
	}
	p, ok := f.profiles[username]
	if !ok {
		return models.RawProfile{}, &instagram.StatusError{Op: "profile", StatusCode: http.StatusNotFound}
	}
	return p, nil
}

func (f *FakeClient) FetchHashtagUsernames(ctx context.Context, hashtag string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "hashtag:"+hashtag)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.hashtagErr != nil {
		return nil, f.hashtagErr
	}
	users := f.hashtags[hashtag]
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return append([]string(nil), users...), nil
}

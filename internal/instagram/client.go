// Package instagram fetches public profiles and hashtag feeds from the
// Instagram web API.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"influencerfinder/internal/models"
)

// Client is what the pipeline needs from an upstream.
type Client interface {
	FetchProfile(ctx context.Context, username string) (models.RawProfile, error)
	FetchHashtagUsernames(ctx context.Context, hashtag string, limit int) ([]string, error)
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL      string
	AppID        string
	UserAgent    string
	RPS          float64
	Burst        int
	MaxAttempts  int
	BaseBackoff  time.Duration
	Timeout      time.Duration
	FallbackHTML bool

	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// HTTPClient talks to the public web endpoints, one paced request at a time.
type HTTPClient struct {
	baseURL      string
	appID        string
	userAgent    string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxAttempts  int
	baseBackoff  time.Duration
	fallbackHTML bool
	logger       *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client from opts.
func NewHTTPClient(opts Options, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &HTTPClient{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		appID:        opts.AppID,
		userAgent:    opts.UserAgent,
		httpClient:   hc,
		limiter:      newLimiter(opts.RPS, opts.Burst),
		maxAttempts:  attempts,
		baseBackoff:  opts.BaseBackoff,
		fallbackHTML: opts.FallbackHTML,
		logger:       logger,
	}
}

func (c *HTTPClient) headers(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.appID != "" {
		req.Header.Set("x-ig-app-id", c.appID)
	}
}

// get performs a paced, retried GET and fails on any non-2xx status.
// The caller closes the body.
func (c *HTTPClient) get(ctx context.Context, op, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.headers(req)
	req.Header.Set("Accept", accept)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// FetchProfile retrieves a public profile through the web profile endpoint.
// When the endpoint refuses the request and HTML fallback is enabled, the
// profile page metadata is used instead.
func (c *HTTPClient) FetchProfile(ctx context.Context, username string) (models.RawProfile, error) {
	if username == "" {
		return models.RawProfile{}, errors.New("instagram: empty username")
	}

	p, err := c.fetchProfileJSON(ctx, username)
	if err == nil || !c.fallbackHTML || errors.Is(err, ErrNotFound) || ctx.Err() != nil {
		return p, err
	}

	c.logger.Debug("profile api failed, trying html", zap.String("username", username), zap.Error(err))
	scraped, scrapeErr := c.ScrapeProfile(ctx, username)
	if scrapeErr != nil {
		return models.RawProfile{}, err
	}
	return scraped, nil
}

func (c *HTTPClient) fetchProfileJSON(ctx context.Context, username string) (models.RawProfile, error) {
	u := fmt.Sprintf("%s/api/v1/users/web_profile_info/?username=%s", c.baseURL, url.QueryEscape(username))
	resp, err := c.get(ctx, "profile", u, "application/json")
	if err != nil {
		return models.RawProfile{}, err
	}
	defer resp.Body.Close()

	var raw profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.RawProfile{}, fmt.Errorf("instagram profile: decode: %w", err)
	}
	if raw.Data == nil || raw.Data.User == nil {
		return models.RawProfile{}, ErrNoUser
	}
	return raw.Data.User.toRawProfile(username), nil
}

// FetchHashtagUsernames returns the unique authors of the first limit recent
// medias posted under hashtag. A non-positive limit reads every media.
func (c *HTTPClient) FetchHashtagUsernames(ctx context.Context, hashtag string, limit int) ([]string, error) {
	if hashtag == "" {
		return nil, errors.New("instagram: empty hashtag")
	}
	u := fmt.Sprintf("%s/api/v1/tags/web_info/?tag_name=%s", c.baseURL, url.QueryEscape(hashtag))
	resp, err := c.get(ctx, "hashtag", u, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw hashtagResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("instagram hashtag: decode: %w", err)
	}
	return raw.usernames(limit), nil
}

// doWithRetry retries 429 and 5xx responses and transport errors with
// exponential backoff, honoring Retry-After. The last retryable response is
// returned as-is once attempts are exhausted.
func (c *HTTPClient) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err == nil {
			retryable := resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599)
			if !retryable || attempt == c.maxAttempts {
				return resp, nil
			}
			wait := retryAfter(resp.Header.Get("Retry-After"), backoff)
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			c.logger.Debug("upstream throttled, retrying",
				zap.String("url", req.URL.Path),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait))
			if err := sleep(ctx, jitter(wait)); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.maxAttempts {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("instagram: request failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func retryAfter(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return fallback
}

// jitter spreads wait by +/-20%.
func jitter(wait time.Duration) time.Duration {
	j := time.Duration(float64(wait) * 0.2)
	if j <= 0 {
		return wait
	}
	return wait - j + time.Duration(time.Now().UnixNano()%int64(2*j))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package pipeline turns usernames or a hashtag into a ranked run. Upstream
// calls are made one at a time with a fixed pause between them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"influencerfinder/internal/cache"
	"influencerfinder/internal/instagram"
	"influencerfinder/internal/metrics"
	"influencerfinder/internal/models"
	"influencerfinder/internal/scoring"
	"influencerfinder/internal/validation"
)

var (
	ErrNoTerms        = errors.New("pipeline: no hashtag or keyword")
	ErrNoUsernames    = errors.New("pipeline: no usernames")
	ErrInvalidHashtag = errors.New("pipeline: invalid hashtag")
)

// MsgNoProfiles is the run message when a hashtag yields no authors.
const MsgNoProfiles = "Aucun profil trouvé pour ce hashtag"

// HashtagError reports that the seed hashtag feed could not be read.
type HashtagError struct {
	Hashtag string
	Err     error
}

func (e *HashtagError) Error() string {
	return fmt.Sprintf("Failed to fetch hashtag %s: %v", e.Hashtag, e.Err)
}

func (e *HashtagError) Unwrap() error { return e.Err }

// Options bounds and paces a run.
type Options struct {
	AnalyzeLimit    int
	AnalyzeDelay    time.Duration
	MediaLimit      int
	ProfileLimit    int
	AutoSearchDelay time.Duration
}

// DefaultOptions mirror the limits the tool has always used.
func DefaultOptions() Options {
	return Options{
		AnalyzeLimit:    10,
		AnalyzeDelay:    1500 * time.Millisecond,
		MediaLimit:      20,
		ProfileLimit:    10,
		AutoSearchDelay: 500 * time.Millisecond,
	}
}

// Pipeline fetches candidates, scores them and stores the run.
type Pipeline struct {
	client instagram.Client
	engine *scoring.Engine
	runs   *cache.RunStore
	opts   Options
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a pipeline. runs may be nil, in which case runs are not kept.
func New(client instagram.Client, engine *scoring.Engine, runs *cache.RunStore, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		client: client,
		engine: engine,
		runs:   runs,
		opts:   opts,
		logger: logger,
		sleep:  sleep,
	}
}

// AnalyzeRequest lists explicit handles to analyze.
type AnalyzeRequest struct {
	Usernames []string `json:"usernames"`
	Keywords  []string `json:"keywords"`
}

// Analyze fetches and scores the requested handles without filtering.
// Handles are cleaned, deduplicated and capped at AnalyzeLimit.
func (p *Pipeline) Analyze(ctx context.Context, req AnalyzeRequest) (*models.RunResult, error) {
	start := time.Now()

	usernames := cleanUsernames(req.Usernames, p.opts.AnalyzeLimit)
	if len(usernames) == 0 {
		return nil, ErrNoUsernames
	}

	log := p.logger.With(zap.String("mode", models.ModeAnalyze))
	log.Info("analyze started", zap.Int("usernames", len(usernames)))

	raws, fetchErrs, err := p.fetchAll(ctx, usernames, p.opts.AnalyzeDelay, log)
	if err != nil {
		return nil, err
	}

	ranked, _ := p.engine.Evaluate(raws, models.FilterConfig{}, req.Keywords)
	metrics.RecordRanked(len(ranked))

	result := p.newResult(models.ModeAnalyze, ranked, fetchErrs)
	p.finish(ctx, result, start, log)
	return result, nil
}

// AutoSearch discovers authors of the first hashtag or keyword, then fetches,
// filters and scores them.
func (p *Pipeline) AutoSearch(ctx context.Context, filters models.SearchFilters) (*models.RunResult, error) {
	start := time.Now()

	hashtags := cleanHashtags(validation.SplitList(filters.Hashtags))
	keywords := validation.SplitList(filters.Keywords)

	terms := append([]string(nil), hashtags...)
	for _, k := range keywords {
		if t := strings.Join(strings.Fields(k), ""); t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}
	target := terms[0]
	if !validation.ValidateHashtag(target) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHashtag, target)
	}

	log := p.logger.With(zap.String("mode", models.ModeAutoSearch), zap.String("hashtag", target))

	usernames, err := p.client.FetchHashtagUsernames(ctx, target, p.opts.MediaLimit)
	metrics.RecordFetch("hashtag", err)
	if err != nil {
		log.Warn("hashtag fetch failed", zap.Error(err))
		return nil, &HashtagError{Hashtag: target, Err: err}
	}

	if len(usernames) == 0 {
		result := p.newResult(models.ModeAutoSearch, nil, nil)
		result.Hashtag = target
		result.Message = MsgNoProfiles
		p.finish(ctx, result, start, log)
		return result, nil
	}

	if p.opts.ProfileLimit > 0 && len(usernames) > p.opts.ProfileLimit {
		usernames = usernames[:p.opts.ProfileLimit]
	}
	log.Info("auto-search started", zap.Int("usernames", len(usernames)))

	raws, fetchErrs, err := p.fetchAll(ctx, usernames, p.opts.AutoSearchDelay, log)
	if err != nil {
		return nil, err
	}

	scoringKeywords := append(append([]string(nil), keywords...), hashtags...)
	ranked, rejected := p.engine.Evaluate(raws, filters.FilterConfig(), scoringKeywords)
	for _, r := range rejected {
		metrics.RecordFiltered(r.Reason)
	}
	metrics.RecordRanked(len(ranked))
	log.Debug("profiles filtered", zap.Int("kept", len(ranked)), zap.Int("rejected", len(rejected)))

	result := p.newResult(models.ModeAutoSearch, ranked, fetchErrs)
	result.Hashtag = target
	p.finish(ctx, result, start, log)
	return result, nil
}

// fetchAll fetches usernames in order, pausing between calls. Per-item
// failures are collected; only cancellation aborts the loop.
func (p *Pipeline) fetchAll(ctx context.Context, usernames []string, delay time.Duration, log *zap.Logger) ([]models.RawProfile, []models.FetchError, error) {
	raws := make([]models.RawProfile, 0, len(usernames))
	fetchErrs := []models.FetchError{}

	for i, username := range usernames {
		if i > 0 {
			if err := p.sleep(ctx, delay); err != nil {
				return nil, nil, err
			}
		}

		if !validation.ValidateUsername(username) {
			fetchErrs = append(fetchErrs, models.FetchError{Username: username, Error: "Nom d'utilisateur invalide: " + username})
			continue
		}

		raw, err := p.client.FetchProfile(ctx, username)
		metrics.RecordFetch("profile", err)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			log.Debug("profile fetch failed", zap.String("username", username), zap.Error(err))
			fetchErrs = append(fetchErrs, fetchError(username, err))
			continue
		}
		raws = append(raws, raw)
	}
	return raws, fetchErrs, nil
}

func (p *Pipeline) newResult(mode string, ranked []models.ScoredProfile, fetchErrs []models.FetchError) *models.RunResult {
	if ranked == nil {
		ranked = []models.ScoredProfile{}
	}
	if fetchErrs == nil {
		fetchErrs = []models.FetchError{}
	}
	return &models.RunResult{
		RunID:     uuid.New(),
		Mode:      mode,
		Profiles:  ranked,
		Errors:    fetchErrs,
		Total:     len(ranked),
		ScrapedAt: p.engine.Now().UTC(),
	}
}

func (p *Pipeline) finish(ctx context.Context, result *models.RunResult, start time.Time, log *zap.Logger) {
	elapsed := time.Since(start)
	metrics.ObservePipeline(result.Mode, elapsed)

	if p.runs != nil {
		if err := p.runs.Save(ctx, result); err != nil {
			log.Warn("failed to store run", zap.String("run_id", result.RunID.String()), zap.Error(err))
		}
	}
	log.Info("run finished",
		zap.String("run_id", result.RunID.String()),
		zap.Int("profiles", result.Total),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("elapsed", elapsed))
}

// fetchError turns a fetch failure into the record shown to the user.
func fetchError(username string, err error) models.FetchError {
	fe := models.FetchError{Username: username, Status: instagram.StatusCode(err)}
	switch {
	case fe.Status != 0:
		fe.Error = "Profil non trouvé: " + username
	case errors.Is(err, instagram.ErrNoUser):
		fe.Error = "Données non disponibles pour " + username
	default:
		fe.Error = fmt.Sprintf("Erreur scraping %s: %v", username, err)
	}
	return fe
}

func cleanUsernames(raw []string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range raw {
		u := validation.CleanUsername(r)
		key := strings.ToLower(u)
		if u == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func cleanHashtags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if h := validation.CleanHashtag(r); h != "" {
			out = append(out, h)
		}
	}
	return out
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

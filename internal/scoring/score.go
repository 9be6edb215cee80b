package scoring

import (
	"strings"
	"time"

	"influencerfinder/internal/models"
)

// Point values of the additive score.
const (
	MaxScore = 100

	pointsPerVocabularyTerm = 3
	pointsPerKeyword        = 5
	pointsForEmail          = 10
)

// Engine scores and ranks profiles against a fixed vocabulary.
type Engine struct {
	vocabulary []string
	now        func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock sets the clock used to compute days since the last post.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine. An empty vocabulary falls back to DefaultVocabulary.
func New(vocabulary []string, opts ...Option) *Engine {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	terms := make([]string, 0, len(vocabulary))
	for _, v := range vocabulary {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			terms = append(terms, v)
		}
	}

	e := &Engine{vocabulary: terms, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Vocabulary returns the normalized vocabulary terms.
func (e *Engine) Vocabulary() []string {
	out := make([]string, len(e.vocabulary))
	copy(out, e.vocabulary)
	return out
}

// Score computes the relevance of p for the caller keywords, in [0, MaxScore].
// The Score field of p is ignored.
func (e *Engine) Score(p models.ScoredProfile, keywords []string) int {
	bio := strings.ToLower(p.Bio)

	score := engagementPoints(p.EngagementRate) + followerPoints(p.Followers)

	for _, term := range e.vocabulary {
		if strings.Contains(bio, term) {
			score += pointsPerVocabularyTerm
		}
	}

	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(bio, kw) {
			score += pointsPerKeyword
		}
	}

	if p.HasEmail() {
		score += pointsForEmail
	}

	if p.LastPost != nil {
		score += recencyPoints(DaysSince(*p.LastPost, e.now()))
	}

	return min(score, MaxScore)
}

func engagementPoints(rate float64) int {
	switch {
	case rate >= 5:
		return 30
	case rate >= 3:
		return 25
	case rate >= 2:
		return 15
	case rate >= 1:
		return 5
	default:
		return 0
	}
}

func followerPoints(followers int) int {
	switch {
	case followers >= 30000 && followers <= 150000:
		return 20
	case followers >= 10000 && followers <= 200000:
		return 10
	default:
		return 0
	}
}

func recencyPoints(days int) int {
	switch {
	case days <= 7:
		return 10
	case days <= 30:
		return 5
	default:
		return 0
	}
}

// DaysSince returns the whole days elapsed between t and now, rounded down.
func DaysSince(t, now time.Time) int {
	d := now.Sub(t)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

package scoring

import (
	"sort"
	"strings"
	"time"

	"influencerfinder/internal/models"
)

// Rejection is a profile left out of a ranking by a filter predicate.
type Rejection struct {
	Username string
	Reason   string
}

// Build derives the metrics, email and last post of raw. Score is left at zero.
func Build(raw models.RawProfile) models.ScoredProfile {
	m := DeriveMetrics(raw.FollowerCount, raw.RecentPosts)

	p := models.ScoredProfile{
		ID:             raw.ID,
		Username:       raw.Username,
		FullName:       raw.FullName,
		Platform:       models.PlatformInstagram,
		ProfileURL:     raw.ProfileURL(),
		AvatarURL:      raw.ProfilePicURL,
		Bio:            raw.Biography,
		Followers:      nonNegative(raw.FollowerCount),
		Following:      nonNegative(raw.FollowingCount),
		Posts:          nonNegative(raw.PostCount),
		Verified:       raw.IsVerified,
		EngagementRate: m.EngagementRate,
		AvgLikes:       m.AvgLikes,
		AvgComments:    m.AvgComments,
	}

	if email, ok := ExtractEmail(raw.Biography); ok {
		p.Email = &email
	}
	if len(raw.RecentPosts) > 0 && raw.RecentPosts[0].TakenAt != nil {
		t := raw.RecentPosts[0].TakenAt.UTC()
		p.LastPost = &t
	}
	return p
}

// Evaluate builds, filters and scores profiles, returning the accepted ones
// in rank order together with the rejected ones.
func (e *Engine) Evaluate(profiles []models.RawProfile, filters models.FilterConfig, keywords []string) ([]models.ScoredProfile, []Rejection) {
	ranked := make([]models.ScoredProfile, 0, len(profiles))
	var rejected []Rejection

	for _, raw := range profiles {
		p := Build(raw)
		if keep, reason := Accept(p, filters); !keep {
			rejected = append(rejected, Rejection{Username: p.Username, Reason: reason})
			continue
		}
		p.Score = e.Score(p, keywords)
		ranked = append(ranked, p)
	}

	SortByScore(ranked)
	return ranked, rejected
}

// ScoreAndRank returns the profiles passing filters, highest score first.
func (e *Engine) ScoreAndRank(profiles []models.RawProfile, filters models.FilterConfig, keywords []string) []models.ScoredProfile {
	ranked, _ := e.Evaluate(profiles, filters, keywords)
	return ranked
}

// SortByScore orders profiles by score descending. Equal scores are ordered by
// username, then keep their input order.
func SortByScore(profiles []models.ScoredProfile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].Score != profiles[j].Score {
			return profiles[i].Score > profiles[j].Score
		}
		return strings.ToLower(profiles[i].Username) < strings.ToLower(profiles[j].Username)
	})
}

// Now returns the engine clock reading.
func (e *Engine) Now() time.Time {
	return e.now()
}

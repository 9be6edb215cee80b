package scoring

import (
	"math"

	"influencerfinder/internal/models"
)

// MetricsWindow is how many of the most recent posts are averaged.
const MetricsWindow = 12

// Metrics are the engagement figures derived from recent posts.
type Metrics struct {
	AvgLikes       int
	AvgComments    int
	EngagementRate float64 // percent, two decimals
}

// DeriveMetrics averages likes and comments over at most the MetricsWindow
// most recent posts and relates them to the follower count.
func DeriveMetrics(followerCount int, recentPosts []models.RawPost) Metrics {
	window := recentPosts
	if len(window) > MetricsWindow {
		window = window[:MetricsWindow]
	}

	var totalLikes, totalComments int
	for _, p := range window {
		totalLikes += nonNegative(p.LikeCount)
		totalComments += nonNegative(p.CommentCount)
	}

	var m Metrics
	if n := len(window); n > 0 {
		m.AvgLikes = roundHalfUp(float64(totalLikes) / float64(n))
		m.AvgComments = roundHalfUp(float64(totalComments) / float64(n))
	}

	if followers := nonNegative(followerCount); followers > 0 {
		m.EngagementRate = round2(100 * float64(m.AvgLikes+m.AvgComments) / float64(followers))
	}
	return m
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// roundHalfUp rounds a non-negative value to the nearest integer, .5 going up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

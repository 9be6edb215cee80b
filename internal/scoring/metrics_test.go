package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"influencerfinder/internal/models"
)

func posts(n, likes, comments int) []models.RawPost {
	out := make([]models.RawPost, n)
	for i := range out {
		out[i] = models.RawPost{LikeCount: likes, CommentCount: comments}
	}
	return out
}

func TestDeriveMetrics(t *testing.T) {
	tests := []struct {
		name      string
		followers int
		posts     []models.RawPost
		want      Metrics
	}{
		{"no posts", 50000, nil, Metrics{}},
		{"zero followers", 0, posts(12, 2000, 500), Metrics{AvgLikes: 2000, AvgComments: 500}},
		{"five percent", 50000, posts(12, 2000, 500), Metrics{AvgLikes: 2000, AvgComments: 500, EngagementRate: 5}},
		{"rounds to two decimals", 30000, posts(3, 1000, 0), Metrics{AvgLikes: 1000, EngagementRate: 3.33}},
		{
			"averages round half up",
			1000,
			[]models.RawPost{{LikeCount: 1, CommentCount: 0}, {LikeCount: 2, CommentCount: 1}},
			Metrics{AvgLikes: 2, AvgComments: 1, EngagementRate: 0.3},
		},
		{"negative counts clamp", 1000, []models.RawPost{{LikeCount: -10, CommentCount: -3}}, Metrics{}},
		{"negative followers", -5, posts(2, 10, 1), Metrics{AvgLikes: 10, AvgComments: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveMetrics(tt.followers, tt.posts))
		})
	}
}

func TestDeriveMetrics_UsesTwelveMostRecent(t *testing.T) {
	recent := posts(12, 100, 10)
	older := posts(30, 100000, 10000)

	got := DeriveMetrics(10000, append(recent, older...))

	assert.Equal(t, 100, got.AvgLikes)
	assert.Equal(t, 10, got.AvgComments)
	assert.Equal(t, 1.1, got.EngagementRate)
}

func TestDeriveMetrics_RateNeverNegative(t *testing.T) {
	for _, f := range []int{1, 7, 1000, 1 << 30} {
		m := DeriveMetrics(f, posts(5, 3, 1))
		assert.GreaterOrEqual(t, m.EngagementRate, 0.0)
	}
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"influencerfinder/internal/models"
)

func TestCleanUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "jane", "jane"},
		{"at sign", "@jane", "jane"},
		{"trailing slash", "jane/", "jane"},
		{"surrounding space", "  @jane.doe_  ", "jane.doe_"},
		{"profile url", "https://www.instagram.com/jane/", "jane"},
		{"url without scheme", "instagram.com/jane", "jane"},
		{"url with query", "https://instagram.com/jane/?hl=fr", "jane"},
		{"url with subpath", "https://www.instagram.com/jane/reels/", "jane"},
		{"empty", "   ", ""},
		{"only at", "@", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanUsername(tt.input))
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"letters", "jane", true},
		{"dots and underscores", "jane.doe_99", true},
		{"max length", "abcdefghijabcdefghijabcdefghij", true},
		{"too long", "abcdefghijabcdefghijabcdefghijk", false},
		{"empty", "", false},
		{"contains space", "jane doe", false},
		{"contains slash", "jane/doe", false},
		{"path traversal attempt", "../etc", false},
		{"at sign", "@jane", false},
		{"unicode", "jané", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateUsername(tt.username)
			if got != tt.want {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestCleanAndValidateHashtag(t *testing.T) {
	tests := []struct {
		input     string
		want      string
		wantValid bool
	}{
		{"#savonfroid", "savonfroid", true},
		{" zero dechet ", "zerodechet", true},
		{"##beautébio", "beautébio", true},
		{"made_in_france", "made_in_france", true},
		{"#", "", false},
		{"savon-froid", "savon-froid", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CleanHashtag(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantValid, ValidateHashtag(got))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"savon", "zéro déchet", "bio"}, SplitList(" savon, zéro déchet ,,bio "))
	assert.Equal(t, []string{"@a", "b", "c"}, SplitList("@a\nb\r\nc\n"))
	assert.Empty(t, SplitList(" , \n "))
	assert.Empty(t, SplitList(""))
}

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *models.SearchFilters)
		valid  bool
	}{
		{"defaults", func(*models.SearchFilters) {}, true},
		{"unbounded max", func(f *models.SearchFilters) { f.FollowersMax = 0 }, true},
		{"unknown platform", func(f *models.SearchFilters) { f.Platform = "youtube" }, false},
		{"negative followers", func(f *models.SearchFilters) { f.FollowersMin = -1 }, false},
		{"inverted followers", func(f *models.SearchFilters) { f.FollowersMin = 200000 }, false},
		{"negative engagement", func(f *models.SearchFilters) { f.EngagementMin = -0.5 }, false},
		{"inverted engagement", func(f *models.SearchFilters) { f.EngagementMin = 20 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := models.DefaultSearchFilters()
			tt.mutate(&f)
			valid, msg := ValidateFilters(f)
			assert.Equal(t, tt.valid, valid)
			if !tt.valid {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

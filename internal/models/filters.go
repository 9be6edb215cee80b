package models

// Platform values accepted by the search form.
const (
	PlatformChoiceInstagram = "instagram"
	PlatformChoiceTikTok    = "tiktok"
	PlatformChoiceBoth      = "both"
)

// SearchFilters is what the user enters in the search form.
// Keywords and Hashtags are comma-separated lists.
type SearchFilters struct {
	Keywords      string  `json:"keywords" form:"keywords"`
	Hashtags      string  `json:"hashtags" form:"hashtags"`
	Platform      string  `json:"platform" form:"platform"`
	FollowersMin  int     `json:"followersMin" form:"followersMin"`
	FollowersMax  int     `json:"followersMax" form:"followersMax"`
	EngagementMin float64 `json:"engagementMin" form:"engagementMin"`
	EngagementMax float64 `json:"engagementMax" form:"engagementMax"`
	Language      string  `json:"language" form:"language"`
	Country       string  `json:"country" form:"country"`
	Niche         string  `json:"niche" form:"niche"`
	ContactOnly   bool    `json:"contactOnly" form:"contactOnly"`
	Verified      bool    `json:"verified" form:"verified"`
}

// DefaultSearchFilters returns the values the search form starts with.
func DefaultSearchFilters() SearchFilters {
	return SearchFilters{
		Platform:      PlatformChoiceBoth,
		FollowersMin:  30000,
		FollowersMax:  150000,
		EngagementMin: 2,
		EngagementMax: 15,
		Language:      "fr",
		Country:       "france",
	}
}

// FilterConfig returns the inclusion predicates carried by the search filters.
func (f SearchFilters) FilterConfig() FilterConfig {
	return FilterConfig{
		FollowersMin:  f.FollowersMin,
		FollowersMax:  f.FollowersMax,
		EngagementMin: f.EngagementMin,
		EngagementMax: f.EngagementMax,
		ContactOnly:   f.ContactOnly,
		Verified:      f.Verified,
	}
}

// FilterConfig holds the active inclusion predicates.
// A zero (or negative) maximum leaves that range unbounded above.
type FilterConfig struct {
	FollowersMin  int
	FollowersMax  int
	EngagementMin float64
	EngagementMax float64
	ContactOnly   bool
	Verified      bool
}

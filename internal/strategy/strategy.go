// Package strategy builds the manual search plan shown before any fetch:
// terms to explore, ready-made explore URLs and web search queries.
package strategy

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"influencerfinder/internal/models"
	"influencerfinder/internal/validation"
)

// exploreTerms is how many terms get explore URLs.
const exploreTerms = 5

// SearchURLs are per-platform tag pages.
type SearchURLs struct {
	Instagram []string `json:"instagram"`
	TikTok    []string `json:"tiktok"`
}

// Strategy is the search plan for one form submission.
type Strategy struct {
	Filters           models.SearchFilters   `json:"filters"`
	SearchTerms       []string               `json:"searchTerms"`
	SuggestedHashtags []string               `json:"suggestedHashtags"`
	SearchURLs        SearchURLs             `json:"searchUrls"`
	WebSearchQueries  []string               `json:"webSearchQueries"`
	Profiles          []models.ScoredProfile `json:"profiles"`
	Tips              []string               `json:"tips"`
}

// Build combines the niche hashtags with the user's keywords and hashtags.
// Terms keep their first-seen order and appear once.
func Build(filters models.SearchFilters, nicheHashtags, tips []string, now time.Time) Strategy {
	var candidates []string
	candidates = append(candidates, nicheHashtags...)
	candidates = append(candidates, validation.SplitList(filters.Keywords)...)
	for _, h := range validation.SplitList(filters.Hashtags) {
		candidates = append(candidates, validation.CleanHashtag(h))
	}
	terms := dedupe(candidates)

	s := Strategy{
		Filters:           filters,
		SearchTerms:       terms,
		SuggestedHashtags: nonNil(nicheHashtags),
		SearchURLs: SearchURLs{
			Instagram: []string{},
			TikTok:    []string{},
		},
		Profiles: []models.ScoredProfile{},
		Tips:     nonNil(tips),
	}

	for _, t := range head(terms, exploreTerms) {
		esc := url.PathEscape(t)
		s.SearchURLs.Instagram = append(s.SearchURLs.Instagram, "https://www.instagram.com/explore/tags/"+esc+"/")
		s.SearchURLs.TikTok = append(s.SearchURLs.TikTok, "https://www.tiktok.com/tag/"+esc)
	}

	country := filters.Country
	if country == "" {
		country = "france"
	}
	s.WebSearchQueries = []string{
		collapse(fmt.Sprintf("influenceuse %s %s %sk-%sk abonnés %s",
			filters.Platform, strings.Join(head(terms, 3), " "),
			thousands(filters.FollowersMin), thousands(filters.FollowersMax), country)),
		collapse(fmt.Sprintf("micro influenceuse cosmetique bio %s france %d", filters.Platform, now.Year())),
		collapse(fmt.Sprintf("top influenceurs beauté naturelle %s france", filters.Platform)),
	}
	return s
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// thousands renders 30000 as "30" and 2500 as "2.5".
func thousands(n int) string {
	return strconv.FormatFloat(float64(n)/1000, 'f', -1, 64)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

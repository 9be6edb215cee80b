package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"influencerfinder/internal/models"
)

// UsernamePattern is the Instagram handle format: letters, digits, dots and
// underscores, at most 30 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._]{1,30}$`)

// HashtagPattern accepts letters (accented included), digits and underscores.
var HashtagPattern = regexp.MustCompile(`^[\p{L}\p{N}_]{1,100}$`)

// CleanUsername turns "@jane", "jane/" or "https://www.instagram.com/jane/"
// into "jane".
func CleanUsername(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "instagram.com/") {
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		if u, err := url.Parse(s); err == nil {
			s = strings.Trim(u.Path, "/")
			if i := strings.IndexByte(s, '/'); i >= 0 {
				s = s[:i]
			}
		}
	}
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimRight(s, "/")
	return strings.TrimSpace(s)
}

// ValidateUsername checks a cleaned username against UsernamePattern.
func ValidateUsername(username string) bool {
	return UsernamePattern.MatchString(username)
}

// CleanHashtag strips '#' characters and whitespace.
func CleanHashtag(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == '#' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// ValidateHashtag checks a cleaned hashtag against HashtagPattern.
func ValidateHashtag(tag string) bool {
	return HashtagPattern.MatchString(tag)
}

// SplitList splits comma or newline separated user input, trimming entries
// and dropping empty ones.
func SplitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ValidateFilters checks the numeric ranges and platform of a search form.
// A zero maximum means no upper bound.
func ValidateFilters(f models.SearchFilters) (bool, string) {
	switch f.Platform {
	case "", models.PlatformChoiceInstagram, models.PlatformChoiceTikTok, models.PlatformChoiceBoth:
	default:
		return false, "Plateforme inconnue"
	}
	if f.FollowersMin < 0 || f.FollowersMax < 0 {
		return false, "Le nombre d'abonnés ne peut pas être négatif"
	}
	if f.FollowersMax > 0 && f.FollowersMin > f.FollowersMax {
		return false, "Le minimum d'abonnés dépasse le maximum"
	}
	if f.EngagementMin < 0 || f.EngagementMax < 0 {
		return false, "Le taux d'engagement ne peut pas être négatif"
	}
	if f.EngagementMax > 0 && f.EngagementMin > f.EngagementMax {
		return false, "Le minimum d'engagement dépasse le maximum"
	}
	return true, ""
}

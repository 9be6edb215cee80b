package scoring

import "influencerfinder/internal/models"

// Rejection reasons reported by Accept.
const (
	ReasonFollowers   = "followers"
	ReasonEngagement  = "engagement"
	ReasonNoContact   = "no_contact"
	ReasonNotVerified = "not_verified"
)

// Accept reports whether p passes every active predicate of f. When it does
// not, reason names the first predicate that rejected it.
func Accept(p models.ScoredProfile, f models.FilterConfig) (keep bool, reason string) {
	if p.Followers < f.FollowersMin || (f.FollowersMax > 0 && p.Followers > f.FollowersMax) {
		return false, ReasonFollowers
	}
	if p.EngagementRate < f.EngagementMin || (f.EngagementMax > 0 && p.EngagementRate > f.EngagementMax) {
		return false, ReasonEngagement
	}
	if f.ContactOnly && !p.HasEmail() {
		return false, ReasonNoContact
	}
	if f.Verified && !p.Verified {
		return false, ReasonNotVerified
	}
	return true, ""
}

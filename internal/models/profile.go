package models

import "time"

// PlatformInstagram is the only platform profiles are fetched from.
const PlatformInstagram = "instagram"

// RawPost holds the engagement counters of a single post.
type RawPost struct {
	LikeCount    int        `json:"likeCount"`
	CommentCount int        `json:"commentCount"`
	TakenAt      *time.Time `json:"takenAt,omitempty"`
}

// RawProfile is a public profile as returned by the fetcher, already defaulted.
// RecentPosts are ordered most recent first.
type RawProfile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"fullName"`
	Biography      string    `json:"biography"`
	FollowerCount  int       `json:"followerCount"`
	FollowingCount int       `json:"followingCount"`
	PostCount      int       `json:"postCount"`
	IsVerified     bool      `json:"isVerified"`
	ProfilePicURL  string    `json:"profilePicUrl,omitempty"`
	RecentPosts    []RawPost `json:"recentPosts,omitempty"`
	// Partial marks profiles read from the public page, without posts or bio.
	Partial bool `json:"partial,omitempty"`
}

// ProfileURL returns the public profile page of the account.
func (p RawProfile) ProfileURL() string {
	return "https://www.instagram.com/" + p.Username + "/"
}

// ScoredProfile is a RawProfile enriched with derived metrics and a relevance score.
type ScoredProfile struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	FullName       string     `json:"fullName"`
	Platform       string     `json:"platform"`
	ProfileURL     string     `json:"profileUrl"`
	AvatarURL      string     `json:"avatarUrl"`
	Bio            string     `json:"bio"`
	Followers      int        `json:"followers"`
	Following      int        `json:"following"`
	Posts          int        `json:"posts"`
	Verified       bool       `json:"verified"`
	EngagementRate float64    `json:"engagementRate"`
	AvgLikes       int        `json:"avgLikes"`
	AvgComments    int        `json:"avgComments"`
	Email          *string    `json:"email"`
	LastPost       *time.Time `json:"lastPost"`
	Score          int        `json:"score"`
}

// HasEmail reports whether an address was found in the biography.
func (p ScoredProfile) HasEmail() bool {
	return p.Email != nil && *p.Email != ""
}

// EmailAddress returns the extracted address or an empty string.
func (p ScoredProfile) EmailAddress() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}

// FetchError records a candidate that could not be retrieved.
type FetchError struct {
	Username string `json:"username"`
	Error    string `json:"error"`
	Status   int    `json:"status,omitempty"`
}

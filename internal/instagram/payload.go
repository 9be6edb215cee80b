package instagram

import (
	"time"

	"influencerfinder/internal/models"
)

// Upstream payloads are decoded into pointer fields so that an absent value
// is distinguishable from a zero one; toRawProfile applies the defaults.

type countPayload struct {
	Count *int `json:"count"`
}

type postNodePayload struct {
	EdgeLikedBy        *countPayload `json:"edge_liked_by"`
	EdgeMediaToComment *countPayload `json:"edge_media_to_comment"`
	TakenAtTimestamp   *int64        `json:"taken_at_timestamp"`
}

type timelinePayload struct {
	Count *int `json:"count"`
	Edges []struct {
		Node *postNodePayload `json:"node"`
	} `json:"edges"`
}

type userPayload struct {
	ID              *string          `json:"id"`
	Username        *string          `json:"username"`
	FullName        *string          `json:"full_name"`
	Biography       *string          `json:"biography"`
	IsVerified      *bool            `json:"is_verified"`
	ProfilePicURL   *string          `json:"profile_pic_url"`
	ProfilePicURLHD *string          `json:"profile_pic_url_hd"`
	EdgeFollowedBy  *countPayload    `json:"edge_followed_by"`
	EdgeFollow      *countPayload    `json:"edge_follow"`
	Timeline        *timelinePayload `json:"edge_owner_to_timeline_media"`
}

type profileResponse struct {
	Data *struct {
		User *userPayload `json:"user"`
	} `json:"data"`
}

type hashtagResponse struct {
	Data *struct {
		Recent *struct {
			Sections []struct {
				LayoutContent *struct {
					Medias []struct {
						Media *struct {
							User *struct {
								Username *string `json:"username"`
							} `json:"user"`
						} `json:"media"`
					} `json:"medias"`
				} `json:"layout_content"`
			} `json:"sections"`
		} `json:"recent"`
	} `json:"data"`
}

func stringOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func (c *countPayload) value() int {
	if c == nil || c.Count == nil || *c.Count < 0 {
		return 0
	}
	return *c.Count
}

func (p *postNodePayload) toRawPost() models.RawPost {
	if p == nil {
		return models.RawPost{}
	}
	post := models.RawPost{
		LikeCount:    p.EdgeLikedBy.value(),
		CommentCount: p.EdgeMediaToComment.value(),
	}
	if p.TakenAtTimestamp != nil && *p.TakenAtTimestamp > 0 {
		t := time.Unix(*p.TakenAtTimestamp, 0).UTC()
		post.TakenAt = &t
	}
	return post
}

// toRawProfile defaults every absent field. requested is used when the
// payload carries no username.
func (u *userPayload) toRawProfile(requested string) models.RawProfile {
	p := models.RawProfile{
		ID:             stringOr(u.ID, ""),
		Username:       stringOr(u.Username, requested),
		FullName:       stringOr(u.FullName, ""),
		Biography:      stringOr(u.Biography, ""),
		FollowerCount:  u.EdgeFollowedBy.value(),
		FollowingCount: u.EdgeFollow.value(),
		ProfilePicURL:  stringOr(u.ProfilePicURLHD, stringOr(u.ProfilePicURL, "")),
	}
	if u.IsVerified != nil {
		p.IsVerified = *u.IsVerified
	}
	if u.Timeline != nil {
		if u.Timeline.Count != nil && *u.Timeline.Count > 0 {
			p.PostCount = *u.Timeline.Count
		}
		p.RecentPosts = make([]models.RawPost, 0, len(u.Timeline.Edges))
		for _, e := range u.Timeline.Edges {
			p.RecentPosts = append(p.RecentPosts, e.Node.toRawPost())
		}
	}
	return p
}

// usernames returns the unique authors of the first limit medias of the
// first section, in order. Later sections are ignored.
func (r *hashtagResponse) usernames(limit int) []string {
	if r.Data == nil || r.Data.Recent == nil || len(r.Data.Recent.Sections) == 0 {
		return nil
	}
	first := r.Data.Recent.Sections[0].LayoutContent
	if first == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for i, m := range first.Medias {
		if limit > 0 && i >= limit {
			break
		}
		if m.Media == nil || m.Media.User == nil {
			continue
		}
		name := stringOr(m.Media.User.Username, "")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

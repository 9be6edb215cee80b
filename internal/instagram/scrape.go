package instagram

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"influencerfinder/internal/models"
)

// maxPageBytes bounds how much of a profile page is parsed.
const maxPageBytes = 2 << 20

var (
	followersPattern = regexp.MustCompile(`(?i)([\d][\d.,\s\x{00a0}\x{202f}]*[km]?)\s+(?:followers|abonnés|abonné)`)
	followingPattern = regexp.MustCompile(`(?i)([\d][\d.,\s\x{00a0}\x{202f}]*[km]?)\s+(?:following|abonnements)`)
	postsPattern     = regexp.MustCompile(`(?i)([\d][\d.,\s\x{00a0}\x{202f}]*[km]?)\s+(?:posts|publications)`)
)

// pageMeta holds the <meta> values of a profile page.
type pageMeta struct {
	Description string
	Title       string
	Image       string
}

// ScrapeProfile reads follower, following and post counts from the public
// profile page. The page carries no post data, so RecentPosts stays empty.
func (c *HTTPClient) ScrapeProfile(ctx context.Context, username string) (models.RawProfile, error) {
	u := fmt.Sprintf("%s/%s/", c.baseURL, url.PathEscape(username))
	resp, err := c.get(ctx, "page", u, "text/html")
	if err != nil {
		return models.RawProfile{}, err
	}
	defer resp.Body.Close()

	meta, err := parsePageMeta(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return models.RawProfile{}, fmt.Errorf("instagram page: %w", err)
	}
	return meta.toRawProfile(username)
}

func parsePageMeta(r io.Reader) (pageMeta, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return pageMeta{}, err
	}

	var meta pageMeta
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "property", "name":
					key = a.Val
				case "content":
					content = a.Val
				}
			}
			switch key {
			case "og:description":
				meta.Description = content
			case "description":
				if meta.Description == "" {
					meta.Description = content
				}
			case "og:title":
				meta.Title = content
			case "og:image":
				meta.Image = content
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return meta, nil
}

func (m pageMeta) toRawProfile(username string) (models.RawProfile, error) {
	followers, ok := matchCount(followersPattern, m.Description)
	if !ok {
		return models.RawProfile{}, ErrNoMetadata
	}
	following, _ := matchCount(followingPattern, m.Description)
	posts, _ := matchCount(postsPattern, m.Description)

	return models.RawProfile{
		Username:       username,
		FullName:       titleName(m.Title),
		FollowerCount:  followers,
		FollowingCount: following,
		PostCount:      posts,
		ProfilePicURL:  m.Image,
		Partial:        true,
	}, nil
}

func matchCount(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseCount(m[1])
}

// titleName extracts "Jane Doe" from "Jane Doe (@jane) • Instagram photos and videos".
func titleName(title string) string {
	if i := strings.Index(title, "(@"); i >= 0 {
		return strings.TrimSpace(title[:i])
	}
	return ""
}

// parseCount understands "1,234", "1 234", "12.5k", "12,5k" and "1.2M".
func parseCount(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if s == "" {
		return 0, false
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult = 1e3
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult = 1e6
		s = strings.TrimSuffix(s, "m")
	}

	if mult > 1 {
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return int(f*mult + 0.5), true
	}

	n, err := strconv.Atoi(strings.NewReplacer(",", "", ".", "").Replace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

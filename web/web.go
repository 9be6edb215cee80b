// Package web holds the embedded templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"strconv"
	"time"
)

//go:embed views static
var assets embed.FS

// Views returns the template tree rooted at views/.
func Views() fs.FS {
	sub, err := fs.Sub(assets, "views")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs are the helpers available in every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatNumber":    FormatNumber,
		"formatRate":      FormatRate,
		"formatDate":      FormatDate,
		"scoreClass":      ScoreClass,
		"engagementClass": EngagementClass,
		"add":             func(a, b int) int { return a + b },
	}
}

// FormatNumber abbreviates follower counts: 1.2M, 45.3k, 999.
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}

// FormatRate prints an engagement rate with at most two decimals.
func FormatRate(r float64) string {
	return strconv.FormatFloat(math.Round(r*100)/100, 'f', -1, 64) + "%"
}

// FormatDate prints a post date as DD/MM/YYYY, or a dash when unknown.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}

// ScoreClass picks the badge colour for a score.
func ScoreClass(score int) string {
	switch {
	case score >= 70:
		return "score-high"
	case score >= 40:
		return "score-mid"
	default:
		return "score-low"
	}
}

// EngagementClass picks the text colour for an engagement rate.
func EngagementClass(rate float64) string {
	switch {
	case rate >= 5:
		return "eng-great"
	case rate >= 3:
		return "eng-good"
	case rate >= 1:
		return "eng-fair"
	default:
		return "eng-poor"
	}
}

package handlers

import (
	"html"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"influencerfinder/internal/models"
	"influencerfinder/internal/validation"
)

// User-facing hints shown next to a failed run.
const (
	TipBlocked = "Instagram bloque parfois les requêtes. Réessayez dans 1 minute ou utilisez l'onglet 'Analyser des profils' avec des usernames spécifiques."
	TipGeneric = "Si l'erreur persiste, utilisez l'onglet 'Analyser des profils' pour analyser des usernames spécifiques."
)

// DefaultAnalyzeKeywords prefills the analyzer form.
const DefaultAnalyzeKeywords = "savon, cosmétique, naturel, bio"

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message, tip string) error {
	out := `<div class="alert alert-error">` + html.EscapeString(message)
	if tip != "" {
		out += `<p class="alert-tip">` + html.EscapeString(tip) + `</p>`
	}
	out += `</div>`
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(out)
}

func isHTMX(c fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// currentUser returns the signed-in user, or nil when auth is off.
func currentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// filtersFromForm reads the search form. Missing or malformed numbers keep
// the form defaults; unchecked boxes are false.
func filtersFromForm(c fiber.Ctx) models.SearchFilters {
	f := models.DefaultSearchFilters()

	f.Keywords = strings.TrimSpace(c.FormValue("keywords"))
	f.Hashtags = strings.TrimSpace(c.FormValue("hashtags"))
	if v := c.FormValue("platform"); v != "" {
		f.Platform = v
	}
	if v := c.FormValue("language"); v != "" {
		f.Language = v
	}
	if v := c.FormValue("country"); v != "" {
		f.Country = v
	}
	f.Niche = c.FormValue("niche")

	f.FollowersMin = formInt(c, "followersMin", f.FollowersMin)
	f.FollowersMax = formInt(c, "followersMax", f.FollowersMax)
	f.EngagementMin = formFloat(c, "engagementMin", f.EngagementMin)
	f.EngagementMax = formFloat(c, "engagementMax", f.EngagementMax)

	f.ContactOnly = formBool(c, "contactOnly")
	f.Verified = formBool(c, "verified")
	return f
}

// analyzeFromForm reads the analyzer form: one handle per line or comma.
func analyzeFromForm(c fiber.Ctx) ([]string, []string) {
	return validation.SplitList(c.FormValue("usernames")), validation.SplitList(c.FormValue("keywords"))
}

func formInt(c fiber.Ctx, key string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(c.FormValue(key))); err == nil {
		return v
	}
	return fallback
}

func formFloat(c fiber.Ctx, key string, fallback float64) float64 {
	raw := strings.ReplaceAll(strings.TrimSpace(c.FormValue(key)), ",", ".")
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return fallback
}

func formBool(c fiber.Ctx, key string) bool {
	switch c.FormValue(key) {
	case "on", "true", "1":
		return true
	}
	return false
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"influencerfinder/internal/cache"
	"influencerfinder/internal/config"
	"influencerfinder/internal/models"
	"influencerfinder/internal/pipeline"
	"influencerfinder/internal/scoring"
	"influencerfinder/internal/testutil"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Status string           `json:"status"`
	Data   models.RunResult `json:"data"`
	Error  string           `json:"error"`
	Tip    string           `json:"tip"`
}

type testServer struct {
	app    *fiber.App
	client *testutil.FakeClient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Env:           "test",
		BaseURL:       "http://localhost:3000",
		SessionSecret: "test-secret-that-is-long-enough-for-production",
		SiteTitle:     "Influencer Finder",
		SiteFooter:    "footer",
	}
	store := cache.NewMemoryStorage()
	client := testutil.NewFakeClient(
		testutil.Profile("savon_lea", 50000, "Savon naturel fait main, bio@example.com", 12, 2000, 500, now.Add(-3*24*time.Hour)),
		testutil.Profile("zero_dechet_paul", 40000, "Zéro déchet et vrac", 12, 800, 40, now.Add(-10*24*time.Hour)),
	)
	client.SetHashtag("savonartisanal", "savon_lea", "zero_dechet_paul", "ghost")

	logger := zaptest.NewLogger(t)
	engine := scoring.New(nil, scoring.WithClock(testutil.FixedClock(now)))
	runs := cache.NewRunStore(store, time.Hour)
	opts := pipeline.DefaultOptions()
	opts.AnalyzeDelay, opts.AutoSearchDelay = 0, 0
	pipe := pipeline.New(client, engine, runs, opts, logger)

	srv := New(cfg, store, logger)
	require.NoError(t, srv.RegisterRoutes(context.Background(), Deps{
		Runner: pipe,
		Runs:   runs,
		Store:  store,
		Now:    engine.Now,
	}))
	return &testServer{app: srv.App, client: client}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (s *testServer) postJSON(t *testing.T, path, body string) (*http.Response, envelope) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, raw := s.do(t, req)
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env), raw)
	return resp, env
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values, htmx bool) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return s.do(t, req)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, body := s.do(t, req)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, "Analyser des profils")
	assert.Contains(t, body, "Savon artisanal")
	assert.Contains(t, body, `value="30000"`)
	assert.Contains(t, body, "savon, cosmétique, naturel, bio")
}

func TestStrategyPage(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.postForm(t, "/search", url.Values{
		"niche":    {"savon_artisanal"},
		"keywords": {"zéro déchet"},
	}, false)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "#savonartisanal")
	assert.Contains(t, body, "https://www.instagram.com/explore/tags/savonartisanal/")
	assert.Contains(t, body, "Conseils")
	assert.Empty(t, s.client.Calls())
}

func TestStrategyPage_InvalidFilters(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.postForm(t, "/search", url.Values{
		"followersMin": {"200000"},
		"followersMax": {"1000"},
	}, false)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Le minimum d&#39;abonnés dépasse le maximum")
}

func TestAPISearch(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"hashtags":"#savon, #bio","niche":"zero_dechet"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, raw := s.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var env struct {
		Status string `json:"status"`
		Data   struct {
			SearchTerms []string `json:"searchTerms"`
			Tips        []string `json:"tips"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, "zerodechet", env.Data.SearchTerms[0])
	assert.Contains(t, env.Data.SearchTerms, "savon")
	assert.Len(t, env.Data.Tips, 5)
}

func TestAPIScrape_AndExport(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.postJSON(t, "/api/scrape", `{"usernames":["@zero_dechet_paul","savon_lea/","ghost"]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", env.Status)
	require.Len(t, env.Data.Profiles, 2)
	assert.Equal(t, "savon_lea", env.Data.Profiles[0].Username)
	require.Len(t, env.Data.Errors, 1)
	assert.Equal(t, "ghost", env.Data.Errors[0].Username)

	req, _ := http.NewRequest(http.MethodGet, "/runs/"+env.Data.RunID.String()+"/export.csv", nil)
	resp, body := s.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "influenceurs_2026-10-18.csv")

	lines := strings.Split(body, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Username,Nom,Abonnés,Engagement %,Likes moy.,Comments moy.,Email,Score,URL,Bio", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "savon_lea,"))

	req, _ = http.NewRequest(http.MethodGet, "/api/runs/"+env.Data.RunID.String(), nil)
	resp, raw := s.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stored envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, env.Data.RunID, stored.Data.RunID)
}

func TestAPIScrape_NoUsernames(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{"usernames":[]}`, `{"usernames":[" ","@"]}`, `not json`} {
		resp, env := s.postJSON(t, "/api/scrape", body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, "Fournissez une liste de usernames", env.Error, body)
	}
	assert.Empty(t, s.client.Calls())
}

func TestAPIAutoSearch(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.postJSON(t, "/api/auto-search", `{"hashtags":"#savonartisanal","keywords":"bio"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "savonartisanal", env.Data.Hashtag)
	assert.Equal(t, models.ModeAutoSearch, env.Data.Mode)
	require.Len(t, env.Data.Profiles, 2)
	require.Len(t, env.Data.Errors, 1)
}

func TestAPIAutoSearch_Failures(t *testing.T) {
	t.Run("no terms", func(t *testing.T) {
		s := newTestServer(t)
		resp, env := s.postJSON(t, "/api/auto-search", `{"keywords":"  ,  "}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Fournissez au moins un hashtag ou mot-clé", env.Error)
		assert.Empty(t, env.Tip)
	})

	t.Run("invalid hashtag", func(t *testing.T) {
		s := newTestServer(t)
		resp, env := s.postJSON(t, "/api/auto-search", `{"hashtags":"savon-artisanal"}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, env.Error, "Hashtag invalide")
		assert.Empty(t, s.client.Calls())
	})

	t.Run("hashtag blocked", func(t *testing.T) {
		s := newTestServer(t)
		s.client.FailHashtags(errors.New("status 401"))
		resp, env := s.postJSON(t, "/api/auto-search", `{"hashtags":"savonartisanal"}`)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "error", env.Status)
		assert.Contains(t, env.Error, "savonartisanal")
		assert.Contains(t, env.Tip, "Réessayez dans 1 minute")
	})
}

func TestAutoSearch_HTMXPartial(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.postForm(t, "/auto-search", url.Values{
		"hashtags":     {"savonartisanal"},
		"followersMin": {"0"},
		"followersMax": {"0"},
	}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, "@savon_lea")
	assert.Contains(t, body, "Score: ")
	assert.Contains(t, body, "export.csv")
}

func TestAutoSearch_HTMXError(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.postForm(t, "/auto-search", url.Values{}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "alert-error")
	assert.Contains(t, body, "Fournissez au moins un hashtag ou mot-cl")
}

func TestAnalyze_FullPage(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.postForm(t, "/analyze", url.Values{
		"usernames": {"savon_lea\nghost"},
		"keywords":  {"savon"},
	}, false)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, "@savon_lea")
	assert.Contains(t, body, "📧 Oui")
	assert.Contains(t, body, "Profil non trouvé: ghost")
}

func TestRuns_NotFound(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "api unknown run", path: "/api/runs/" + uuid.NewString(), status: fiber.StatusNotFound},
		{name: "api bad id", path: "/api/runs/nope", status: fiber.StatusBadRequest},
		{name: "export unknown run", path: "/runs/" + uuid.NewString() + "/export.csv", status: fiber.StatusNotFound},
		{name: "page bad id", path: "/runs/nope", status: fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			resp, _ := s.do(t, req)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestProbes(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	resp, body := s.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","upstream":"unknown"}`, body)

	req, _ = http.NewRequest(http.MethodGet, "/readyz", nil)
	resp, _ = s.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	resp, _ = s.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/static/css/app.css", nil)
	resp, body := s.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ".score-high")
}

// TestEncryptCookieSessionRoundTrip replays encrypted session cookies kept
// in the cache storage across requests.
func TestEncryptCookieSessionRoundTrip(t *testing.T) {
	app := fiber.New()
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveEncryptionKey("test-secret-that-is-long-enough-for-production"),
	}))
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		Storage:        cache.NewMemoryStorage(),
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	app.Post("/session-set", func(c fiber.Ctx) error {
		session.FromContext(c).Set("user", "alice")
		return c.SendString("ok")
	})
	app.Get("/session-get", func(c fiber.Ctx) error {
		val, _ := session.FromContext(c).Get("user").(string)
		return c.SendString(val)
	})

	req, _ := http.NewRequest(http.MethodPost, "/session-set", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	for i := range 2 {
		req, _ := http.NewRequest(http.MethodGet, "/session-get", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := app.Test(req)
		require.NoError(t, err, "round trip %d", i)
		body, _ := io.ReadAll(resp.Body)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice", string(body), "round trip %d", i)
	}
}

package middleware

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"influencerfinder/internal/models"
)

func newTestApp(enabled bool) *fiber.App {
	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{CookieHTTPOnly: true})
	app.Use(sessionMiddleware)

	auth := NewAuthMiddleware(enabled)

	app.Get("/sign-in", func(c fiber.Ctx) error {
		StoreUser(session.FromContext(c), &models.User{Sub: "abc", Email: "jeanne@example.com", Name: "Jeanne"})
		return c.SendString("ok")
	})
	whoami := func(c fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(user.DisplayName())
	}
	app.Get("/page", auth.RequireAuth, whoami)
	app.Get("/api/page", auth.RequireAuth, whoami)
	app.Get("/optional", auth.OptionalAuth, whoami)
	return app
}

func get(t *testing.T, app *fiber.App, path string, cookies []*http.Cookie) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestRequireAuth_Disabled(t *testing.T) {
	app := newTestApp(false)

	resp, body := get(t, app, "/page", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body != "anonymous" {
		t.Errorf("expected anonymous, got %q", body)
	}
}

func TestRequireAuth_Anonymous(t *testing.T) {
	app := newTestApp(true)

	tests := []struct {
		name     string
		path     string
		status   int
		location string
	}{
		{name: "page redirects to login", path: "/page", status: fiber.StatusSeeOther, location: "/auth/login"},
		{name: "api returns 401", path: "/api/page", status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, app, tt.path, nil)
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if tt.location != "" && resp.Header.Get("Location") != tt.location {
				t.Errorf("expected redirect to %s, got %q", tt.location, resp.Header.Get("Location"))
			}
		})
	}
}

func TestRequireAuth_SignedIn(t *testing.T) {
	app := newTestApp(true)

	resp, _ := get(t, app, "/sign-in", nil)
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie returned")
	}

	for _, path := range []string{"/page", "/api/page", "/optional"} {
		resp, body := get(t, app, path, cookies)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if body != "Jeanne" {
			t.Errorf("%s: expected Jeanne, got %q", path, body)
		}
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	app := newTestApp(true)

	resp, body := get(t, app, "/optional", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body != "anonymous" {
		t.Errorf("expected anonymous, got %q", body)
	}
}

func TestUserFromSession_Nil(t *testing.T) {
	if UserFromSession(nil) != nil {
		t.Error("expected nil user for nil session")
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"influencerfinder/internal/models"
)

// Session keys holding the signed-in user.
const (
	SessionUserSub     = "user_sub"
	SessionUserEmail   = "user_email"
	SessionUserName    = "user_name"
	SessionUserPicture = "user_picture"
	SessionRedirect    = "redirect_after_login"
)

// AuthMiddleware handles user authentication via sessions.
// When disabled every request passes through without a user.
type AuthMiddleware struct {
	enabled bool
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(enabled bool) *AuthMiddleware {
	return &AuthMiddleware{enabled: enabled}
}

// RequireAuth ensures the user is authenticated. Pages redirect to the
// login flow; API calls get a 401.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

	sess := session.FromContext(c)
	if user := UserFromSession(sess); user != nil {
		c.Locals("user", user)
		return c.Next()
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "authentication required",
		})
	}

	if sess != nil && c.Method() == fiber.MethodGet {
		sess.Set(SessionRedirect, c.OriginalURL())
	}
	return c.Redirect().To("/auth/login")
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}
	if user := UserFromSession(session.FromContext(c)); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

// UserFromSession rebuilds the user stored at login, or returns nil.
func UserFromSession(sess *session.Middleware) *models.User {
	if sess == nil {
		return nil
	}
	sub, _ := sess.Get(SessionUserSub).(string)
	if sub == "" {
		return nil
	}
	email, _ := sess.Get(SessionUserEmail).(string)
	name, _ := sess.Get(SessionUserName).(string)
	picture, _ := sess.Get(SessionUserPicture).(string)
	return &models.User{Sub: sub, Email: email, Name: name, Picture: picture}
}

// StoreUser saves user in the session.
func StoreUser(sess *session.Middleware, user *models.User) {
	sess.Set(SessionUserSub, user.Sub)
	sess.Set(SessionUserEmail, user.Email)
	sess.Set(SessionUserName, user.Name)
	sess.Set(SessionUserPicture, user.Picture)
}

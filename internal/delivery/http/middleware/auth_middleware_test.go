package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"turf-hire/internal/domain/user"
	"turf-hire/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(svc jwt.Service) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	auth := NewAuthMiddleware(svc)
	app.Get("/me", auth.Middleware(), func(c fiber.Ctx) error {
		return c.SendString(string(c.Locals(CtxRoleKey).(user.Role)))
	})
	app.Get("/admin", auth.Middleware(), RequireRole(user.RoleAdmin), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService(jwt.Options{AccessSecret: "a", RefreshSecret: "r", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	app := newAuthApp(svc)

	candidate, err := svc.GenerateAccessToken(uuid.New(), "c@example.com", "candidate")
	require.NoError(t, err)
	admin, err := svc.GenerateAccessToken(uuid.New(), "a@example.com", "admin")
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", "garbage"))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", refresh))
	assert.Equal(t, fiber.StatusOK, request(t, app, "/me", candidate))

	assert.Equal(t, fiber.StatusForbidden, request(t, app, "/admin", candidate))
	assert.Equal(t, fiber.StatusNoContent, request(t, app, "/admin", admin))
}

func TestBearerTokenFromHeader(t *testing.T) {
	tok, ok := bearerTokenFromHeader("bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerTokenFromHeader("Basic abc")
	assert.False(t, ok)
	_, ok = bearerTokenFromHeader("Bearer")
	assert.False(t, ok)
}

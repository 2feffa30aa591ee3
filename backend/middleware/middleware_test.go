package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"esiksha/backend/authz"
	"esiksha/backend/config"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.JWTSecret = "testsecret"
	return &cfg
}

func tokenFor(t *testing.T, cfg *config.Config, role models.Role) string {
	t.Helper()
	user := &models.User{Base: models.Base{ID: uuid.New()}, Email: "u@example.com", FullName: "U", Role: role}
	token, err := utils.GenerateJWTToken(user, cfg)
	require.NoError(t, err)
	return token
}

func call(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Get("/", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString(string(CurrentPrincipal(c).Role))
	})

	assert.Equal(t, http.StatusUnauthorized, call(t, app, ""))
	assert.Equal(t, http.StatusForbidden, call(t, app, "garbage"))

	other := testConfig()
	other.JWTSecret = "othersecret"
	assert.Equal(t, http.StatusForbidden, call(t, app, tokenFor(t, other, models.RoleStudent)))
	assert.Equal(t, http.StatusOK, call(t, app, tokenFor(t, cfg, models.RoleStudent)))
}

func TestOptionalAuth(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Get("/", OptionalAuth(cfg), func(c *fiber.Ctx) error {
		if CurrentPrincipal(c) == nil {
			return c.SendStatus(http.StatusNoContent)
		}
		return c.SendStatus(http.StatusOK)
	})

	assert.Equal(t, http.StatusNoContent, call(t, app, ""))
	assert.Equal(t, http.StatusNoContent, call(t, app, "garbage"))
	assert.Equal(t, http.StatusOK, call(t, app, tokenFor(t, cfg, models.RoleStudent)))
}

func TestAdminMiddleware(t *testing.T) {
	cfg := testConfig()
	enforcer := authz.MustNewEnforcer()
	app := fiber.New()
	app.Get("/", AuthMiddleware(cfg), AdminMiddleware(enforcer, authz.ModerateContent), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	assert.Equal(t, http.StatusForbidden, call(t, app, tokenFor(t, cfg, models.RoleStudent)))
	assert.Equal(t, http.StatusForbidden, call(t, app, tokenFor(t, cfg, models.RoleInstructor)))
	assert.Equal(t, http.StatusOK, call(t, app, tokenFor(t, cfg, models.RoleAdmin)))
}

func TestRequireCapabilityWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireCapability(authz.MustNewEnforcer(), authz.WriteReview, "nope"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	assert.Equal(t, http.StatusUnauthorized, call(t, app, ""))
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := &utils.Logger{SugaredLogger: zap.New(core).Sugar()}

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(LoggingMiddleware(logger))
	app.Use(MetricsMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	assert.Equal(t, http.StatusOK, call(t, app, ""))
	assert.Equal(t, http.StatusNotFound, callPath(t, app, "/missing"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.NotEmpty(t, entries[0].ContextMap()["requestId"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func callPath(t *testing.T, app *fiber.App, path string) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	return resp.StatusCode
}

package middleware

import (
	"coachhub/config"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "test-secret", JWTTTLHours: 1, DefaultLocale: "ja"}
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestMatchLocale(t *testing.T) {
	assert.Equal(t, "en", MatchLocale("en-US,en;q=0.9", "ja"))
	assert.Equal(t, "ja", MatchLocale("ja-JP", "en"))
	assert.Equal(t, "en", MatchLocale("fr-FR,en;q=0.5", "ja"))
	assert.Equal(t, "ja", MatchLocale("", "ja"))
	assert.Equal(t, "en", MatchLocale(";;;", "en"))
}

func TestLocaleRedirectsUnprefixedPages(t *testing.T) {
	testConfig(t)
	app := fiber.New()
	app.Use(Locale("/api", "/health"))
	app.Get("/api/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/:locale/students", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("locale").(string))
	})

	cases := []struct {
		path, acceptLanguage, location string
	}{
		{"/", "", "/ja/"},
		{"/", "en-GB", "/en/"},
		{"/students", "en", "/en/students"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.acceptLanguage != "" {
			req.Header.Set("Accept-Language", tc.acceptLanguage)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode, tc.path)
		assert.Equal(t, tc.location, resp.Header.Get("Location"), tc.path)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/en/students", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "en", string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTRoundTripAndRoles(t *testing.T) {
	testConfig(t)

	token, err := GenerateJWT(7, "花子", "admin", "hanako@example.com")
	require.NoError(t, err)
	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, &Claims{CoachID: 7, Role: "admin", Name: "花子", Email: "hanako@example.com"}, claims)

	_, err = ParseJWT(token + "x")
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"coachId": 7})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(unsigned)
	assert.Error(t, err, "alg none is rejected")

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/admin", JWTMiddleware, RequireRole("admin"), func(c *fiber.Ctx) error {
		id, _ := CurrentCoachID(c)
		return c.JSON(fiber.Map{"id": id})
	})
	app.Get("/coach-only", JWTMiddleware, RequireRole("coach"), func(c *fiber.Ctx) error { return nil })

	call := func(path string, header, cookie string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if cookie != "" {
			req.Header.Set("Cookie", SessionCookie+"="+cookie)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, call("/admin", "Bearer "+token, ""))
	assert.Equal(t, http.StatusOK, call("/admin", "", token), "session cookie is accepted")
	assert.Equal(t, http.StatusUnauthorized, call("/admin", "Token "+token, ""))
	assert.Equal(t, http.StatusUnauthorized, call("/admin", "", ""))
	assert.Equal(t, http.StatusForbidden, call("/coach-only", "Bearer "+token, ""))
}

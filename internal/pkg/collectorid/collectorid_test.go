package collectorid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractVia(t *testing.T, req *http.Request) string {
	t.Helper()

	var got string
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = Extract(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	return got
}

func TestExtract(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "CollectorID abc123")
		assert.Equal(t, "abc123", extractVia(t, req))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieKey, Value: "from-cookie"})
		assert.Equal(t, "from-cookie", extractVia(t, req))
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "CollectorID from-header")
		req.AddCookie(&http.Cookie{Name: CookieKey, Value: "from-cookie"})
		assert.Equal(t, "from-header", extractVia(t, req))
	})

	t.Run("other realm", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		assert.Equal(t, "", extractVia(t, req))
	})

	t.Run("invalid characters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "CollectorID a:b")
		assert.Equal(t, "", extractVia(t, req))
	})
}

func TestNewIsValid(t *testing.T) {
	assert.True(t, Valid(New()))
	assert.NotEqual(t, New(), New())
}

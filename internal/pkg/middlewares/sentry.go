package middlewares

import (
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/pocketstats/internal/pkg/collectorid"
)

// EnrichSentry tags the request scope with the request and collector ids.
func EnrichSentry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hub := fibersentry.GetHubFromContext(c); hub != nil {
			if id, ok := c.Locals(RequestIDLocalsKey).(string); ok {
				hub.Scope().SetTag("request_id", id)
			}
			if id := collectorid.Extract(c); id != "" {
				hub.Scope().SetUser(sentry.User{ID: id})
			}
		}
		return c.Next()
	}
}

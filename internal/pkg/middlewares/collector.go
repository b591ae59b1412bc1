package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"exusiai.dev/pocketstats/internal/pkg/collectorid"
	"exusiai.dev/pocketstats/internal/pkg/flog"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
)

// RequireCollector rejects requests that do not identify a collector and stores the id
// in ctx.Locals for the handlers.
func RequireCollector() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := collectorid.Extract(c)
		if id == "" {
			return pserr.ErrUnauthorized
		}
		c.Locals(collectorid.LocalsKey, id)
		flog.FromFiberCtx(c).UpdateContext(func(zc zerolog.Context) zerolog.Context {
			return zc.Str("collector_id", id)
		})
		return c.Next()
	}
}

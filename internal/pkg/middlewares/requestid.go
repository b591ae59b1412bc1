package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/pocketstats/internal/pkg/flog"
)

const RequestIDLocalsKey = "requestId"

// RequestID copies the request id generated by the logger middleware into ctx.Locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(RequestIDLocalsKey, id.String())
		}
		return c.Next()
	}
}

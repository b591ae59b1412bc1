package httpserver

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/pocketstats/internal/pkg/collectorid"
	"exusiai.dev/pocketstats/internal/pkg/flog"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
)

// HandleCustomError renders e as {"code", "message", ...extras}.
func HandleCustomError(ctx *fiber.Ctx, e *pserr.Error) error {
	flog.WarnFrom(ctx).
		Str("evt.name", "http.error").
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var pe *pserr.Error
	if errors.As(err, &pe) {
		return HandleCustomError(ctx, pe)
	}

	re := *pserr.ErrInternalError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		re.StatusCode = fe.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = fe.Message

		// routing and method errors are the client's fault and not worth reporting
		if fe.Code < fiber.StatusInternalServerError {
			return HandleCustomError(ctx, &re)
		}
	}

	log.Error().
		Stack().
		Err(err).
		Str("evt.name", "http.internal_error").
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", re.StatusCode).
		Msg("internal server error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		if u := collectorid.Extract(ctx); u != "" {
			hub.Scope().SetUser(sentry.User{
				ID: u,
			})
		}
		hub.CaptureException(err)
	}

	return HandleCustomError(ctx, &re)
}

// Package collectorid reads and writes the identity of the collector a request acts for.
package collectorid

import (
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
)

const (
	AuthorizationRealm = "CollectorID"
	CookieKey          = "collector_id"
	SetHeader          = "X-Pocketstats-Set-CollectorID"
	LocalsKey          = "collectorId"

	cookieMaxAge = 60 * 60 * 24 * 365 * 2
)

var valid = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// New issues a fresh collector id.
func New() string {
	return xid.New().String()
}

func Valid(id string) bool {
	return valid.MatchString(id)
}

// Extract returns the collector id of the request, preferring the Authorization header
// over the cookie. An empty string is returned when neither carries a valid id.
func Extract(ctx *fiber.Ctx) string {
	id := ""
	if authorization := ctx.Get(fiber.HeaderAuthorization); strings.HasPrefix(authorization, AuthorizationRealm+" ") {
		id = strings.TrimSpace(strings.TrimPrefix(authorization, AuthorizationRealm))
	}
	if id == "" {
		id = ctx.Cookies(CookieKey)
	}
	if !Valid(id) {
		return ""
	}
	return id
}

// Inject persists id on the client as a cookie and echoes it in a response header for
// clients that cannot use cookies.
func Inject(ctx *fiber.Ctx, id string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     CookieKey,
		Value:    id,
		MaxAge:   cookieMaxAge,
		Path:     "/",
		Expires:  time.Now().Add(time.Second * cookieMaxAge),
		SameSite: fiber.CookieSameSiteLaxMode,
		HTTPOnly: true,
	})
	ctx.Set(SetHeader, id)
}

// FromLocals returns the id stored by the collector middleware.
func FromLocals(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(LocalsKey).(string)
	return id
}

package v1

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/pocketstats/internal/pkg/cachectrl"
	"exusiai.dev/pocketstats/internal/pkg/collectorid"
	"exusiai.dev/pocketstats/internal/server/svr"
)

type Collector struct{}

func RegisterCollector(v1 *svr.V1) {
	c := &Collector{}
	v1.Post("/collectors", c.CreateCollector)
}

// CreateCollector issues a new collector id, or returns the one the request already carries.
func (c *Collector) CreateCollector(ctx *fiber.Ctx) error {
	status := fiber.StatusOK
	id := collectorid.Extract(ctx)
	if id == "" {
		id = collectorid.New()
		status = fiber.StatusCreated
	}

	collectorid.Inject(ctx, id)
	cachectrl.OptOut(ctx)

	return ctx.Status(status).JSON(fiber.Map{
		"collectorId": id,
	})
}

package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/pkg/cachectrl"
	"exusiai.dev/pocketstats/internal/server/svr"
	"exusiai.dev/pocketstats/internal/service"
)

type SiteStats struct {
	fx.In

	SiteStatsService service.SiteStatsProvider
}

func RegisterSiteStats(v1 *svr.V1, c SiteStats) {
	v1.Get("/stats", c.GetSiteStats)
}

func (c *SiteStats) GetSiteStats(ctx *fiber.Ctx) error {
	cachectrl.OptInCustom(ctx, time.Now(), time.Minute*5)

	return ctx.JSON(c.SiteStatsService.Get(ctx.UserContext()))
}

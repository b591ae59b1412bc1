package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/pkg/cachectrl"
	"exusiai.dev/pocketstats/internal/pkg/collectorid"
	"exusiai.dev/pocketstats/internal/pkg/middlewares"
	"exusiai.dev/pocketstats/internal/server/svr"
	"exusiai.dev/pocketstats/internal/service"
)

type Overview struct {
	fx.In

	OverviewService *service.Overview
}

func RegisterOverview(v1 *svr.V1, c Overview) {
	v1.Get("/overview", middlewares.RequireCollector(), c.GetOverview)
	v1.Get("/expansions/:expansionId/pull-rates", middlewares.RequireCollector(), c.GetPullRates)
}

func (c *Overview) GetOverview(ctx *fiber.Ctx) error {
	override, err := filterOverride(ctx)
	if err != nil {
		return err
	}

	o, err := c.OverviewService.Get(ctx.UserContext(), collectorid.FromLocals(ctx), override)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)

	return ctx.JSON(o)
}

func (c *Overview) GetPullRates(ctx *fiber.Ctx) error {
	override, err := filterOverride(ctx)
	if err != nil {
		return err
	}

	rates, err := c.OverviewService.PullRates(ctx.UserContext(), collectorid.FromLocals(ctx), ctx.Params("expansionId"), override)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)

	return ctx.JSON(rates)
}

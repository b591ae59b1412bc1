package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/cachectrl"
	"exusiai.dev/pocketstats/internal/pkg/collectorid"
	"exusiai.dev/pocketstats/internal/pkg/middlewares"
	"exusiai.dev/pocketstats/internal/server/svr"
	"exusiai.dev/pocketstats/internal/service"
	"exusiai.dev/pocketstats/internal/util/rekuest"
)

type Filter struct {
	fx.In

	FilterService *service.Filter
}

type UpdateFiltersRequest struct {
	Rarity []model.Rarity `json:"rarityFilter" validate:"required,dive,rarity"`
	Number int            `json:"numberFilter" validate:"min=1,max=5"`
}

func RegisterFilter(v1 *svr.V1, c Filter) {
	v1.Get("/filters", middlewares.RequireCollector(), c.GetFilters)
	v1.Put("/filters", middlewares.RequireCollector(), c.UpdateFilters)
}

func (c *Filter) GetFilters(ctx *fiber.Ctx) error {
	f, err := c.FilterService.Get(ctx.UserContext(), collectorid.FromLocals(ctx))
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)

	return ctx.JSON(f)
}

func (c *Filter) UpdateFilters(ctx *fiber.Ctx) error {
	var request UpdateFiltersRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	f, err := c.FilterService.Update(ctx.UserContext(), collectorid.FromLocals(ctx), model.Filters{
		Rarity: request.Rarity,
		Number: request.Number,
	})
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)

	return ctx.JSON(f)
}

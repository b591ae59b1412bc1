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

type Collection struct {
	fx.In

	CollectionService *service.Collection
}

type CollectionResponse struct {
	Revision int64              `json:"revision"`
	Cards    []*model.OwnedCard `json:"cards"`
}

type UpsertCollectionRequest struct {
	Cards []*model.OwnedCard `json:"cards" validate:"required,max=10000,dive,required"`
}

func RegisterCollection(v1 *svr.V1, c Collection) {
	v1.Get("/collection", middlewares.RequireCollector(), c.GetCollection)
	v1.Put("/collection", middlewares.RequireCollector(), c.UpsertCollection)
}

func (c *Collection) GetCollection(ctx *fiber.Ctx) error {
	id := collectorid.FromLocals(ctx)

	rev, err := c.CollectionService.Revision(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	cards, err := c.CollectionService.GetOwnedCards(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)

	return ctx.JSON(CollectionResponse{
		Revision: rev,
		Cards:    cards,
	})
}

func (c *Collection) UpsertCollection(ctx *fiber.Ctx) error {
	var request UpsertCollectionRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	rev, err := c.CollectionService.UpsertOwnedCards(ctx.UserContext(), collectorid.FromLocals(ctx), request.Cards)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)

	return ctx.JSON(fiber.Map{
		"revision": rev,
	})
}

package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/cachectrl"
	"exusiai.dev/pocketstats/internal/server/svr"
	"exusiai.dev/pocketstats/internal/service"
)

// startedAt stands in for the last modification time of the embedded card database.
var startedAt = time.Now()

type Card struct {
	fx.In

	CardService *service.Card
}

func RegisterCard(v1 *svr.V1, c Card) {
	v1.Get("/expansions", c.GetExpansions)
	v1.Get("/cards", c.SearchCards)
}

func (c *Card) GetExpansions(ctx *fiber.Ctx) error {
	cachectrl.OptIn(ctx, startedAt)

	return ctx.JSON(c.CardService.Expansions())
}

func (c *Card) SearchCards(ctx *fiber.Ctx) error {
	rarity, err := rarityQuery(ctx)
	if err != nil {
		return err
	}

	cards := c.CardService.Search(ctx.Query("q"), model.Filters{Rarity: rarity})

	cachectrl.OptIn(ctx, startedAt)

	return ctx.JSON(cards)
}

package v1

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
	"exusiai.dev/pocketstats/internal/service"
	"exusiai.dev/pocketstats/internal/util/rekuest"
)

// rarityQuery parses a comma separated rarity list. A missing parameter yields nil and
// an empty one yields an empty, non-nil slice, which clears the filter.
func rarityQuery(ctx *fiber.Ctx) ([]model.Rarity, error) {
	raw := ctx.Context().QueryArgs().Peek("rarity")
	if raw == nil {
		return nil, nil
	}

	parts := lo.FilterMap(strings.Split(string(raw), ","), func(s string, _ int) (model.Rarity, bool) {
		s = strings.TrimSpace(s)
		return model.Rarity(s), s != ""
	})
	if !model.ValidRarities(parts) {
		return nil, pserr.ErrInvalidReq.Msg("invalid request: rarity contains an unknown rarity")
	}
	return parts, nil
}

func numberQuery(ctx *fiber.Ctx) (null.Int, error) {
	raw := ctx.Query("number")
	if raw == "" {
		return null.Int{}, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return null.Int{}, pserr.ErrInvalidReq.Msg("invalid request: number must be an integer")
	}
	v := null.IntFrom(int64(n))
	if err := rekuest.ValidVar(v, "min=1,max=5"); err != nil {
		return null.Int{}, err
	}
	return v, nil
}

func filterOverride(ctx *fiber.Ctx) (service.FilterOverride, error) {
	rarity, err := rarityQuery(ctx)
	if err != nil {
		return service.FilterOverride{}, err
	}
	number, err := numberQuery(ctx)
	if err != nil {
		return service.FilterOverride{}, err
	}
	return service.FilterOverride{Rarity: rarity, Number: number}, nil
}

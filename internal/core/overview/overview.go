// Package overview assembles the dashboard payload from its declared inputs.
package overview

import (
	"github.com/samber/lo"

	"exusiai.dev/pocketstats/internal/core/stats"
	"exusiai.dev/pocketstats/internal/model"
)

// Input lists everything an overview depends on. Recompute reads nothing else, so an
// overview can be cached under a key derived from these values.
type Input struct {
	OwnedCards []*model.OwnedCard
	Filters    model.Filters
	SiteStats  model.SiteStats
}

// Recompute builds the overview. It is pure and deterministic.
func Recompute(c stats.Catalog, in Input) *model.Overview {
	f := in.Filters
	if f.Rarity == nil {
		f.Rarity = []model.Rarity{}
	}
	f.Number = f.Threshold()

	o := &model.Overview{
		HasCards:         lo.SomeBy(in.OwnedCards, func(oc *model.OwnedCard) bool { return oc != nil && oc.AmountOwned > 0 }),
		TotalUniqueCards: stats.TotalNrOfCards(c, f),
		NrOfCardsOwned:   stats.NrOfCardsOwned(c, in.OwnedCards, f),
		TotalCopiesOwned: stats.TotalCopiesOwned(in.OwnedCards),
		RarityFilter:     f.Rarity,
		NumberFilter:     f.Number,
		SiteStats:        in.SiteStats,
	}

	if best, ok := stats.HighestProbabilityPack(c, in.OwnedCards, f); ok {
		o.HighestProbabilityPack = &best
	}

	expansions := c.Expansions()
	o.Expansions = make([]*model.ExpansionOverview, 0, len(expansions))
	for _, e := range expansions {
		owned, total := stats.ExpansionCompletion(c, in.OwnedCards, e, f)
		rates := []*model.PackPullRate{}
		if !e.Promo {
			rates = stats.ExpansionPullRates(c, in.OwnedCards, e, f)
		}
		o.Expansions = append(o.Expansions, &model.ExpansionOverview{
			ExpansionID:   e.ID,
			ExpansionName: e.Name,
			Promo:         e.Promo,
			CardsOwned:    owned,
			TotalCards:    total,
			PullRates:     rates,
		})
	}

	return o
}

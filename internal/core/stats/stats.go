// Package stats computes the collection statistics shown on the overview: how many cards
// match the filters, how many of those are owned, and how likely each pack is to yield a
// card that is still missing.
//
// Every function here is pure over its arguments and total over well-formed input.
package stats

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"exusiai.dev/pocketstats/internal/model"
)

// Catalog is the read side of the card database the engine needs.
type Catalog interface {
	Cards() []*model.Card
	Expansions() []*model.Expansion
	CardsInExpansion(expansionID string) []*model.Card
	CardsInPack(e *model.Expansion, p *model.Pack) []*model.Card
}

// Owned indexes amounts by card id. Duplicated records for one card are summed.
type Owned map[string]int

func IndexOwned(ownedCards []*model.OwnedCard) Owned {
	idx := make(Owned, len(ownedCards))
	for _, oc := range ownedCards {
		if oc == nil || oc.AmountOwned <= 0 {
			continue
		}
		idx[oc.CardID] += oc.AmountOwned
	}
	return idx
}

// Satisfied reports whether the card is owned at least threshold times.
func (o Owned) Satisfied(cardID string, threshold int) bool {
	return o[cardID] >= threshold
}

// TotalNrOfCards counts the distinct cards of the database that pass the rarity filter.
func TotalNrOfCards(c Catalog, f model.Filters) int {
	return lo.CountBy(c.Cards(), func(card *model.Card) bool {
		return f.MatchesRarity(card.Rarity)
	})
}

// NrOfCardsOwned counts the distinct database cards that pass the rarity filter and are
// owned at least f.Number times. Owned records of unknown cards are ignored.
func NrOfCardsOwned(c Catalog, ownedCards []*model.OwnedCard, f model.Filters) int {
	return countOwned(c.Cards(), IndexOwned(ownedCards), f)
}

func countOwned(cards []*model.Card, owned Owned, f model.Filters) int {
	threshold := f.Threshold()
	return lo.CountBy(cards, func(card *model.Card) bool {
		return f.MatchesRarity(card.Rarity) && owned.Satisfied(card.CardID, threshold)
	})
}

// TotalCopiesOwned sums every owned copy, regardless of filters.
func TotalCopiesOwned(ownedCards []*model.OwnedCard) int {
	return lo.SumBy(ownedCards, func(oc *model.OwnedCard) int {
		if oc == nil || oc.AmountOwned < 0 {
			return 0
		}
		return oc.AmountOwned
	})
}

// ExpansionCompletion returns the owned and total distinct card counts of one expansion
// under the filters.
func ExpansionCompletion(c Catalog, ownedCards []*model.OwnedCard, e *model.Expansion, f model.Filters) (owned int, total int) {
	cards := c.CardsInExpansion(e.ID)
	total = lo.CountBy(cards, func(card *model.Card) bool {
		return f.MatchesRarity(card.Rarity)
	})
	return countOwned(cards, IndexOwned(ownedCards), f), total
}

// PullRate is the probability that opening one p yields at least one card still needed.
//
// Each slot independently draws a rarity from its table and then a uniformly random card
// of that rarity among the cards pullable from p. The slot hits with
// sum(P(r) * needed_r / total_r) and the pack hits unless every slot misses.
func PullRate(c Catalog, ownedCards []*model.OwnedCard, e *model.Expansion, p *model.Pack, f model.Filters) float64 {
	return pullRate(c, IndexOwned(ownedCards), e, p, f)
}

func pullRate(c Catalog, owned Owned, e *model.Expansion, p *model.Pack, f model.Filters) float64 {
	threshold := f.Threshold()
	total := map[model.Rarity]int{}
	needed := map[model.Rarity]int{}
	for _, card := range c.CardsInPack(e, p) {
		total[card.Rarity]++
		if f.MatchesRarity(card.Rarity) && !owned.Satisfied(card.CardID, threshold) {
			needed[card.Rarity]++
		}
	}

	miss := 1.0
	for _, slot := range p.Slots {
		hit := 0.0
		// summed in tier order so equal inputs give bit-identical rates
		for _, rarity := range model.Rarities() {
			prob, ok := slot[rarity]
			if !ok || total[rarity] == 0 || needed[rarity] == 0 {
				continue
			}
			hit += prob * float64(needed[rarity]) / float64(total[rarity])
		}
		miss *= 1 - clamp(hit)
	}

	return clamp(1 - miss)
}

// ExpansionPullRates lists the pull rate of every openable pack of e, in database order.
// The "Every pack" pseudo-pack is skipped.
func ExpansionPullRates(c Catalog, ownedCards []*model.OwnedCard, e *model.Expansion, f model.Filters) []*model.PackPullRate {
	return expansionPullRates(c, IndexOwned(ownedCards), e, f)
}

func expansionPullRates(c Catalog, owned Owned, e *model.Expansion, f model.Filters) []*model.PackPullRate {
	rates := make([]*model.PackPullRate, 0, len(e.Packs))
	for _, p := range e.Packs {
		if p.IsEveryPack() {
			continue
		}
		rates = append(rates, &model.PackPullRate{
			PackName:   strings.TrimSuffix(p.Name, " pack"),
			Percentage: pullRate(c, owned, e, p, f),
			Fill:       p.Color,
		})
	}
	return rates
}

// HighestProbabilityPack picks the pack most likely to yield a needed card across all
// non-promotional expansions. Ties keep the first pack encountered. ok is false when no
// pack has a positive pull rate.
func HighestProbabilityPack(c Catalog, ownedCards []*model.OwnedCard, f model.Filters) (best model.PackPullRate, ok bool) {
	owned := IndexOwned(ownedCards)
	for _, e := range c.Expansions() {
		if e.Promo {
			continue
		}
		rates := expansionPullRates(c, owned, e, f)
		if len(rates) == 0 {
			continue
		}
		sort.SliceStable(rates, func(i, j int) bool {
			return rates[i].Percentage > rates[j].Percentage
		})
		candidate := rates[0]
		if candidate.Percentage > best.Percentage {
			best = *candidate
			ok = true
		}
	}
	return best, ok
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

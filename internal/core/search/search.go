// Package search implements the debounced card search box.
package search

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/debounce"
)

// Input forwards the latest typed value to setSearchValue once typing pauses.
type Input struct {
	d *debounce.Debouncer[string]
}

func NewInput(wait time.Duration, setSearchValue func(string)) *Input {
	return &Input{d: debounce.New(wait, setSearchValue)}
}

// Change records a new value of the box and restarts the quiet window.
func (i *Input) Change(value string) {
	i.d.Trigger(value)
}

// Submit delivers the pending value right away, as pressing enter does.
func (i *Input) Submit() bool {
	return i.d.Flush()
}

// Close drops any pending value. The input ignores changes afterwards.
func (i *Input) Close() {
	i.d.Stop()
}

// Cards returns the cards whose name or id contains q, case-insensitively, and whose
// rarity passes the filter. An empty q matches every card. Order of cards is kept.
func Cards(cards []*model.Card, q string, f model.Filters) []*model.Card {
	q = strings.ToLower(strings.TrimSpace(q))
	return lo.Filter(cards, func(c *model.Card, _ int) bool {
		if !f.MatchesRarity(c.Rarity) {
			return false
		}
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.CardID), q)
	})
}

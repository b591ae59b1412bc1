package service

import (
	"context"

	"github.com/samber/lo"

	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
)

// FilterStore persists the filters of a collector. Load must fall back to defaults
// for malformed stored values.
type FilterStore interface {
	Load(ctx context.Context, collectorID string) (model.Filters, error)
	Save(ctx context.Context, collectorID string, f model.Filters) error
}

type Filter struct {
	store FilterStore
}

func NewFilter(store FilterStore) *Filter {
	return &Filter{store: store}
}

func (s *Filter) Get(ctx context.Context, collectorID string) (model.Filters, error) {
	return s.store.Load(ctx, collectorID)
}

// Update validates and persists f, returning the stored form.
func (s *Filter) Update(ctx context.Context, collectorID string, f model.Filters) (model.Filters, error) {
	f, err := NormalizeFilters(f)
	if err != nil {
		return f, err
	}
	if err := s.store.Save(ctx, collectorID, f); err != nil {
		return f, err
	}
	return f, nil
}

// NormalizeFilters rejects unknown tiers and out of range thresholds, and removes
// duplicated tiers.
func NormalizeFilters(f model.Filters) (model.Filters, error) {
	if !model.ValidRarities(f.Rarity) {
		return f, pserr.ErrInvalidReq.Msg("invalid request: rarityFilter contains an unknown rarity")
	}
	if f.Number < model.MinNumberFilter || f.Number > model.MaxNumberFilter {
		return f, pserr.ErrInvalidReq.Msg("invalid request: numberFilter must be between %d and %d", model.MinNumberFilter, model.MaxNumberFilter)
	}
	f.Rarity = lo.Uniq(f.Rarity)
	return f, nil
}

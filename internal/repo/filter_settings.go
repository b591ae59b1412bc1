package repo

import (
	"context"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"exusiai.dev/pocketstats/internal/model"
)

const (
	filterFieldRarity = "rarityFilter"
	filterFieldNumber = "numberFilter"
)

// FilterSettings persists the two dashboard filters of every collector in a redis hash.
type FilterSettings struct {
	client *redis.Client
}

func NewFilterSettings(client *redis.Client) *FilterSettings {
	return &FilterSettings{client: client}
}

func filterKey(collectorID string) string {
	return "filters:" + collectorID
}

// Load never fails on malformed stored values: each one falls back to its default.
// Only transport errors are returned.
func (r *FilterSettings) Load(ctx context.Context, collectorID string) (model.Filters, error) {
	fields, err := r.client.HGetAll(ctx, filterKey(collectorID)).Result()
	if err != nil {
		return model.DefaultFilters(), errors.Wrap(err, "failed to load filter settings")
	}

	f, problems := decodeFilters(fields)
	for _, p := range problems {
		log.Warn().
			Str("evt.name", "filters.fallback").
			Str("collector_id", collectorID).
			Str("field", p.field).
			Str("raw", p.raw).
			Msg("stored filter value is invalid, using default")
	}
	return f, nil
}

// Save expects validated filters.
func (r *FilterSettings) Save(ctx context.Context, collectorID string, f model.Filters) error {
	fields, err := encodeFilters(f)
	if err != nil {
		return err
	}

	err = r.client.HSet(ctx, filterKey(collectorID),
		filterFieldRarity, fields[filterFieldRarity],
		filterFieldNumber, fields[filterFieldNumber],
	).Err()
	return errors.Wrap(err, "failed to save filter settings")
}

// encodeFilters is the inverse of decodeFilters for valid filters.
func encodeFilters(f model.Filters) (map[string]string, error) {
	rarity := f.Rarity
	if rarity == nil {
		rarity = []model.Rarity{}
	}
	b, err := json.Marshal(rarity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode rarity filter")
	}

	return map[string]string{
		filterFieldRarity: string(b),
		filterFieldNumber: strconv.Itoa(f.Number),
	}, nil
}

type decodeProblem struct {
	field string
	raw   string
}

func decodeFilters(fields map[string]string) (model.Filters, []decodeProblem) {
	f := model.DefaultFilters()
	var problems []decodeProblem

	if raw, ok := fields[filterFieldRarity]; ok {
		var rarities []model.Rarity
		if err := json.Unmarshal([]byte(raw), &rarities); err != nil || !model.ValidRarities(rarities) {
			problems = append(problems, decodeProblem{field: filterFieldRarity, raw: raw})
		} else if len(rarities) > 0 {
			f.Rarity = rarities
		}
	}

	if raw, ok := fields[filterFieldNumber]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < model.MinNumberFilter || n > model.MaxNumberFilter {
			problems = append(problems, decodeProblem{field: filterFieldNumber, raw: raw})
		} else {
			f.Number = n
		}
	}

	return f, problems
}

package service

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/xxh3"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/pocketstats/internal/app/appconfig"
	"exusiai.dev/pocketstats/internal/core/overview"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/cache"
	"exusiai.dev/pocketstats/internal/pkg/observability"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
)

// OverviewMemo stores computed overviews. cache.Set satisfies it.
type OverviewMemo interface {
	MutexGetSet(ctx context.Context, key string, valueFunc func() (*model.Overview, error), expire time.Duration) (*model.Overview, bool, error)
	Clear(ctx context.Context) error
}

type SiteStatsProvider interface {
	Get(ctx context.Context) model.SiteStats
}

// FilterOverride replaces stored filters for a single request. Nil Rarity and an
// invalid Number keep the stored value.
type FilterOverride struct {
	Rarity []model.Rarity
	Number null.Int
}

type Overview struct {
	cards      *Card
	collection *Collection
	filter     *Filter
	siteStats  SiteStatsProvider
	memo       OverviewMemo
	ttl        time.Duration
}

func NewOverview(conf *appconfig.Config, cards *Card, collection *Collection, filter *Filter, siteStats SiteStatsProvider, memo OverviewMemo) *Overview {
	return &Overview{
		cards:      cards,
		collection: collection,
		filter:     filter,
		siteStats:  siteStats,
		memo:       memo,
		ttl:        conf.OverviewCacheTTL,
	}
}

// NewOverviewMemo keeps memoised overviews in redis.
func NewOverviewMemo(client *redis.Client) OverviewMemo {
	return cache.NewSet[*model.Overview](client, "overview")
}

// Get returns the overview of a collector under its stored filters, optionally overridden.
func (s *Overview) Get(ctx context.Context, collectorID string, override FilterOverride) (*model.Overview, error) {
	f, err := s.filter.Get(ctx, collectorID)
	if err != nil {
		return nil, err
	}

	if override.Rarity != nil {
		f.Rarity = override.Rarity
	}
	if override.Number.Valid {
		f.Number = int(override.Number.Int64)
	}
	f, err = NormalizeFilters(f)
	if err != nil {
		return nil, err
	}

	return s.compute(ctx, collectorID, f)
}

// PullRates returns the pack pull rates of one expansion from the collector's overview.
func (s *Overview) PullRates(ctx context.Context, collectorID, expansionID string, override FilterOverride) ([]*model.PackPullRate, error) {
	if _, err := s.cards.Expansion(expansionID); err != nil {
		return nil, err
	}

	o, err := s.Get(ctx, collectorID, override)
	if err != nil {
		return nil, err
	}
	for _, e := range o.Expansions {
		if e.ExpansionID == expansionID {
			return e.PullRates, nil
		}
	}
	return nil, pserr.ErrNotFound.Msg("expansion %q not found", expansionID)
}

// Warm computes the overview under the stored filters so the next read is served from
// the memo.
func (s *Overview) Warm(ctx context.Context, collectorID string) error {
	_, err := s.Get(ctx, collectorID, FilterOverride{})
	return err
}

// Purge drops every memoised overview.
func (s *Overview) Purge(ctx context.Context) error {
	return errors.Wrap(s.memo.Clear(ctx), "failed to purge overview memo")
}

func (s *Overview) compute(ctx context.Context, collectorID string, f model.Filters) (*model.Overview, error) {
	rev, err := s.collection.Revision(ctx, collectorID)
	if err != nil {
		return nil, err
	}

	key, err := overviewKey(collectorID, f, rev)
	if err != nil {
		return nil, err
	}

	o, calculated, err := s.memo.MutexGetSet(ctx, key, func() (*model.Overview, error) {
		owned, err := s.collection.GetOwnedCards(ctx, collectorID)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		defer func() {
			observability.OverviewRecomputeDuration.Observe(time.Since(start).Seconds())
		}()

		// site stats change independently of the memo key and are attached per request
		return overview.Recompute(s.cards.Catalog(), overview.Input{
			OwnedCards: owned,
			Filters:    f,
		}), nil
	}, s.ttl)
	if err != nil {
		return nil, err
	}

	if calculated {
		observability.OverviewMemo.WithLabelValues("miss").Inc()
		log.Debug().
			Str("evt.name", "overview.recomputed").
			Str("collector_id", collectorID).
			Int64("revision", rev).
			Msg("overview recomputed")
	} else {
		observability.OverviewMemo.WithLabelValues("hit").Inc()
	}

	// the memoised value may be shared with concurrent callers
	res := *o
	res.SiteStats = s.siteStats.Get(ctx)
	// the key ignores tier order, so the entry may carry another request's order
	res.RarityFilter = slices.Clone(f.Rarity)
	if res.RarityFilter == nil {
		res.RarityFilter = []model.Rarity{}
	}
	return &res, nil
}

// overviewKey is overview:{collectorID}:{xxh3(filters)}:{revision}. Filters are hashed in
// a canonical form so that equal filter sets share one entry.
func overviewKey(collectorID string, f model.Filters, rev int64) (string, error) {
	canonical := model.Filters{
		Rarity: slices.Clone(f.Rarity),
		Number: f.Threshold(),
	}
	if canonical.Rarity == nil {
		canonical.Rarity = []model.Rarity{}
	}
	slices.Sort(canonical.Rarity)

	b, err := json.Marshal(canonical)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode filters for memo key")
	}

	return collectorID + ":" + strconv.FormatUint(xxh3.Hash(b), 16) + ":" + strconv.FormatInt(rev, 10), nil
}

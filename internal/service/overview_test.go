package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/pocketstats/internal/app/appconfig"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
	"exusiai.dev/pocketstats/internal/service/servicetest"
)

type overviewFixture struct {
	svc        *Overview
	collection *collectionFixture
	filters    *servicetest.FilterStore
	memo       *servicetest.Memo
}

func newOverviewFixture() *overviewFixture {
	conf := &appconfig.Config{ConfigSpec: appconfig.ConfigSpec{OverviewCacheTTL: time.Hour}}
	cf := newCollectionFixture()
	f := &overviewFixture{
		collection: cf,
		filters:    servicetest.NewFilterStore(),
		memo:       servicetest.NewMemo(),
	}
	f.svc = NewOverview(
		conf,
		cf.svc.cards,
		cf.svc,
		NewFilter(f.filters),
		servicetest.SiteStats{CollectionCount: "1200", UsersCount: "300"},
		f.memo,
	)
	return f
}

func TestOverviewGet(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture()

	o, err := f.svc.Get(ctx, "alice", FilterOverride{})
	require.NoError(t, err)
	assert.False(t, o.HasCards)
	assert.Equal(t, 39, o.TotalUniqueCards)
	assert.Zero(t, o.NrOfCardsOwned)
	assert.Equal(t, []model.Rarity{}, o.RarityFilter)
	assert.Equal(t, 1, o.NumberFilter)
	assert.Equal(t, "1200", o.SiteStats.CollectionCount)
	assert.Equal(t, "300", o.SiteStats.UsersCount)
	assert.Len(t, o.Expansions, 3)

	_, err = f.collection.svc.UpsertOwnedCards(ctx, "alice", []*model.OwnedCard{owned("A1-001", 2)})
	require.NoError(t, err)

	o, err = f.svc.Get(ctx, "alice", FilterOverride{})
	require.NoError(t, err)
	assert.True(t, o.HasCards)
	assert.Equal(t, 1, o.NrOfCardsOwned)
	assert.Equal(t, 2, o.TotalCopiesOwned)
}

func TestOverviewMemo(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture()

	_, err := f.svc.Get(ctx, "alice", FilterOverride{})
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, "alice", FilterOverride{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.collection.store.Reads, "second read must be served from the memo")
	assert.Equal(t, 1, f.memo.Len())

	// a write bumps the revision and so the key
	_, err = f.collection.svc.UpsertOwnedCards(ctx, "alice", []*model.OwnedCard{owned("A1-001", 1)})
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, "alice", FilterOverride{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.collection.store.Reads)
	assert.Equal(t, 2, f.memo.Len())
}

func TestOverviewOverride(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture()
	f.filters.Filters["alice"] = model.Filters{Rarity: []model.Rarity{model.RarityCrown}, Number: 1}

	o, err := f.svc.Get(ctx, "alice", FilterOverride{})
	require.NoError(t, err)
	assert.Equal(t, []model.Rarity{model.RarityCrown}, o.RarityFilter)

	o, err = f.svc.Get(ctx, "alice", FilterOverride{
		Rarity: []model.Rarity{},
		Number: null.IntFrom(3),
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Rarity{}, o.RarityFilter)
	assert.Equal(t, 3, o.NumberFilter)
	assert.Equal(t, 39, o.TotalUniqueCards)

	// overrides are never persisted
	stored, err := f.svc.filter.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []model.Rarity{model.RarityCrown}, stored.Rarity)

	_, err = f.svc.Get(ctx, "alice", FilterOverride{Number: null.IntFrom(0)})
	assert.True(t, errors.Is(err, pserr.ErrInvalidReq))
}

func TestOverviewRarityOrderFollowsRequest(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture()

	o, err := f.svc.Get(ctx, "alice", FilterOverride{Rarity: []model.Rarity{model.RarityOneStar, model.RarityOneDiamond}})
	require.NoError(t, err)
	assert.Equal(t, []model.Rarity{model.RarityOneStar, model.RarityOneDiamond}, o.RarityFilter)

	o, err = f.svc.Get(ctx, "alice", FilterOverride{Rarity: []model.Rarity{model.RarityOneDiamond, model.RarityOneStar}})
	require.NoError(t, err)
	assert.Equal(t, []model.Rarity{model.RarityOneDiamond, model.RarityOneStar}, o.RarityFilter)
	assert.Equal(t, 1, f.memo.Len(), "both orders share one entry")
	assert.Equal(t, 1, f.collection.store.Reads)
}

func TestOverviewWarm(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture()

	require.NoError(t, f.svc.Warm(ctx, "alice"))
	_, err := f.svc.Get(ctx, "alice", FilterOverride{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.collection.store.Reads)
}

func TestOverviewPurge(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture()

	require.NoError(t, f.svc.Warm(ctx, "alice"))
	require.Equal(t, 1, f.memo.Len())

	require.NoError(t, f.svc.Purge(ctx))
	assert.Equal(t, 0, f.memo.Len())

	_, err := f.svc.Get(ctx, "alice", FilterOverride{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.collection.store.Reads)
}

func TestOverviewKey(t *testing.T) {
	a, err := overviewKey("alice", model.Filters{Rarity: []model.Rarity{model.RarityOneStar, model.RarityCrown}, Number: 2}, 3)
	require.NoError(t, err)
	b, err := overviewKey("alice", model.Filters{Rarity: []model.Rarity{model.RarityCrown, model.RarityOneStar}, Number: 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b, "tier order must not change the key")

	c, err := overviewKey("alice", model.Filters{Rarity: nil, Number: 0}, 3)
	require.NoError(t, err)
	d, err := overviewKey("alice", model.DefaultFilters(), 3)
	require.NoError(t, err)
	assert.Equal(t, c, d, "unset filters must share the default key")

	e, err := overviewKey("alice", model.DefaultFilters(), 4)
	require.NoError(t, err)
	assert.NotEqual(t, d, e)

	g, err := overviewKey("bob", model.DefaultFilters(), 3)
	require.NoError(t, err)
	assert.NotEqual(t, d, g)
}

func TestOverviewPullRates(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture()

	rates, err := f.svc.PullRates(ctx, "alice", "A1", FilterOverride{})
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.Equal(t, "Mewtwo", rates[0].PackName)

	rates, err = f.svc.PullRates(ctx, "alice", "P-A", FilterOverride{})
	require.NoError(t, err)
	assert.Empty(t, rates)

	_, err = f.svc.PullRates(ctx, "alice", "B9", FilterOverride{})
	assert.True(t, errors.Is(err, pserr.ErrNotFound))
}

package overview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/pocketstats/internal/carddb"
	"exusiai.dev/pocketstats/internal/model"
)

func TestRecomputeEmptyCollection(t *testing.T) {
	db, err := carddb.Load()
	require.NoError(t, err)

	o := Recompute(db, Input{Filters: model.DefaultFilters()})

	assert.False(t, o.HasCards)
	assert.Equal(t, len(db.Cards()), o.TotalUniqueCards)
	assert.Zero(t, o.NrOfCardsOwned)
	assert.Zero(t, o.TotalCopiesOwned)
	assert.Equal(t, []model.Rarity{}, o.RarityFilter)
	assert.Equal(t, 1, o.NumberFilter)
	require.NotNil(t, o.HighestProbabilityPack)
	assert.Equal(t, "Mewtwo", o.HighestProbabilityPack.PackName)

	require.Len(t, o.Expansions, 3)
	assert.Equal(t, "A1", o.Expansions[0].ExpansionID)
	assert.Len(t, o.Expansions[0].PullRates, 3)
	assert.Len(t, o.Expansions[1].PullRates, 1)
	assert.True(t, o.Expansions[2].Promo)
	assert.Empty(t, o.Expansions[2].PullRates)
	assert.NotNil(t, o.Expansions[2].PullRates)
}

func TestRecomputeWithCollection(t *testing.T) {
	db, err := carddb.Load()
	require.NoError(t, err)

	in := Input{
		OwnedCards: []*model.OwnedCard{
			{CardID: "A1-001", AmountOwned: 2},
			{CardID: "A1-019", AmountOwned: 1},
			{CardID: "P-A-001", AmountOwned: 1},
		},
		Filters:   model.Filters{Rarity: []model.Rarity{model.RarityOneStar}, Number: 1},
		SiteStats: model.SiteStats{CollectionCount: "1200", UsersCount: "300"},
	}
	o := Recompute(db, in)

	assert.True(t, o.HasCards)
	assert.Equal(t, 4, o.TotalUniqueCards)
	assert.Equal(t, 1, o.NrOfCardsOwned)
	assert.Equal(t, 4, o.TotalCopiesOwned)
	assert.Equal(t, "1200", o.SiteStats.CollectionCount)

	a1 := o.Expansions[0]
	assert.Equal(t, 1, a1.CardsOwned)
	assert.Equal(t, 3, a1.TotalCards)

	// the one-star of the Mewtwo pack is owned, Charizard's is still needed
	require.NotNil(t, o.HighestProbabilityPack)
	assert.NotEqual(t, "Mewtwo", o.HighestProbabilityPack.PackName)

	assert.Equal(t, Recompute(db, in), o, "recompute is deterministic")
}

func TestRecomputeNothingNeeded(t *testing.T) {
	db, err := carddb.Load()
	require.NoError(t, err)

	var owned []*model.OwnedCard
	for _, c := range db.Cards() {
		owned = append(owned, &model.OwnedCard{CardID: c.CardID, AmountOwned: 1})
	}
	o := Recompute(db, Input{OwnedCards: owned, Filters: model.DefaultFilters()})

	assert.Nil(t, o.HighestProbabilityPack)
	assert.Equal(t, o.TotalUniqueCards, o.NrOfCardsOwned)
}

package service

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/pocketstats/internal/infra"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
	"exusiai.dev/pocketstats/internal/service/servicetest"
)

type collectionFixture struct {
	svc       *Collection
	store     *servicetest.OwnedCardStore
	revisions *servicetest.RevisionStore
	events    *servicetest.Publisher
}

func newCollectionFixture() *collectionFixture {
	f := &collectionFixture{
		store:     servicetest.NewOwnedCardStore(),
		revisions: servicetest.NewRevisionStore(),
		events:    &servicetest.Publisher{},
	}
	f.svc = NewCollection(NewCard(mustLoadDB()), f.store, f.revisions, f.events)
	return f
}

func owned(id string, n int) *model.OwnedCard {
	return &model.OwnedCard{CardID: id, AmountOwned: n}
}

func TestCollectionUpsert(t *testing.T) {
	ctx := context.Background()
	f := newCollectionFixture()

	rev, err := f.svc.UpsertOwnedCards(ctx, "alice", []*model.OwnedCard{
		owned("A1-001", 1),
		owned("A1-005", 3),
		owned("A1-001", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	assert.Equal(t, map[string]int{"A1-001": 2, "A1-005": 3}, f.store.Cards["alice"])

	require.Len(t, f.events.Msgs, 1)
	msg := f.events.Msgs[0]
	assert.Equal(t, infra.CollectionUpdated, msg.Subject)

	var evt model.CollectionUpdated
	require.NoError(t, json.Unmarshal(msg.Data, &evt))
	assert.Equal(t, "alice", evt.CollectorID)
	assert.Equal(t, int64(1), evt.Revision)
	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, evt.EventID, msg.MsgID)

	rev, err = f.svc.UpsertOwnedCards(ctx, "alice", []*model.OwnedCard{owned("A1-001", 0)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
	assert.Equal(t, 0, f.store.Cards["alice"]["A1-001"])
}

func TestCollectionUpsertEmpty(t *testing.T) {
	ctx := context.Background()
	f := newCollectionFixture()
	f.revisions.Revs["alice"] = 7

	rev, err := f.svc.UpsertOwnedCards(ctx, "alice", []*model.OwnedCard{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rev)
	assert.Empty(t, f.events.Msgs)
}

func TestCollectionUpsertRejects(t *testing.T) {
	t.Run("negative amount", func(t *testing.T) {
		f := newCollectionFixture()
		_, err := f.svc.UpsertOwnedCards(context.Background(), "alice", []*model.OwnedCard{owned("A1-001", -1)})
		assert.True(t, errors.Is(err, pserr.ErrInvalidReq))
		assert.Empty(t, f.store.Cards)
		assert.Empty(t, f.events.Msgs)
	})

	t.Run("unknown card", func(t *testing.T) {
		f := newCollectionFixture()
		_, err := f.svc.UpsertOwnedCards(context.Background(), "alice", []*model.OwnedCard{
			owned("A1-001", 1),
			owned("Z9-999", 1),
		})
		require.Error(t, err)

		var perr *pserr.Error
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, pserr.CodeInvalidRequest, perr.ErrorCode)
		require.NotNil(t, perr.Extras)
		assert.Equal(t, []string{"Z9-999"}, (*perr.Extras)["unknownCardIds"])
		assert.Empty(t, f.store.Cards)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newCollectionFixture()
		f.store.Err = errBoom
		_, err := f.svc.UpsertOwnedCards(context.Background(), "alice", []*model.OwnedCard{owned("A1-001", 1)})
		assert.ErrorIs(t, err, errBoom)
		assert.Zero(t, f.revisions.Revs["alice"])
		assert.Empty(t, f.events.Msgs)
	})
}

func TestCollectionUpsertPublishFailure(t *testing.T) {
	f := newCollectionFixture()
	f.events.Err = errBoom

	rev, err := f.svc.UpsertOwnedCards(context.Background(), "alice", []*model.OwnedCard{owned("A1-001", 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	assert.Equal(t, 1, f.store.Cards["alice"]["A1-001"])
}

func TestLastWins(t *testing.T) {
	got := lastWins([]*model.OwnedCard{
		owned("b", 1),
		nil,
		owned("a", 1),
		owned("b", 4),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].CardID)
	assert.Equal(t, 4, got[0].AmountOwned)
	assert.Equal(t, "a", got[1].CardID)
}

package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/pocketstats/internal/infra"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
)

type OwnedCardStore interface {
	GetOwnedCards(ctx context.Context, collectorID string) ([]*model.OwnedCard, error)
	UpsertOwnedCards(ctx context.Context, collectorID string, cards []*model.OwnedCard) error
}

type RevisionStore interface {
	Current(ctx context.Context, collectorID string) (int64, error)
	Bump(ctx context.Context, collectorID string) (int64, error)
}

// EventPublisher is the publishing side of nats.JetStreamContext.
type EventPublisher interface {
	PublishMsg(m *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

type Collection struct {
	cards     *Card
	store     OwnedCardStore
	revisions RevisionStore
	events    EventPublisher
}

func NewCollection(cards *Card, store OwnedCardStore, revisions RevisionStore, events EventPublisher) *Collection {
	return &Collection{
		cards:     cards,
		store:     store,
		revisions: revisions,
		events:    events,
	}
}

func (s *Collection) GetOwnedCards(ctx context.Context, collectorID string) ([]*model.OwnedCard, error) {
	return s.store.GetOwnedCards(ctx, collectorID)
}

func (s *Collection) Revision(ctx context.Context, collectorID string) (int64, error) {
	return s.revisions.Current(ctx, collectorID)
}

// UpsertOwnedCards stores the given amounts and returns the new collection revision.
// When a card appears more than once the last amount wins.
func (s *Collection) UpsertOwnedCards(ctx context.Context, collectorID string, cards []*model.OwnedCard) (int64, error) {
	cards = lastWins(cards)

	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.AmountOwned < 0 {
			return 0, pserr.ErrInvalidReq.Msg("invalid request: amount_owned of %q must not be negative", c.CardID)
		}
		ids = append(ids, c.CardID)
	}
	if unknown := s.cards.UnknownCardIDs(ids); len(unknown) > 0 {
		return 0, pserr.ErrInvalidReq.
			Msg("invalid request: %d card ids are not in the card database", len(unknown)).
			WithExtras(pserr.Extras{"unknownCardIds": unknown})
	}

	if len(cards) == 0 {
		return s.revisions.Current(ctx, collectorID)
	}

	if err := s.store.UpsertOwnedCards(ctx, collectorID, cards); err != nil {
		return 0, err
	}

	rev, err := s.revisions.Bump(ctx, collectorID)
	if err != nil {
		return 0, err
	}

	// the write already succeeded; consumers only warm caches
	if err := s.publishUpdated(collectorID, rev); err != nil {
		log.Warn().
			Err(err).
			Str("evt.name", "collection.publish_failed").
			Str("collector_id", collectorID).
			Int64("revision", rev).
			Msg("failed to publish collection update")
	}

	return rev, nil
}

func (s *Collection) publishUpdated(collectorID string, rev int64) error {
	evt := model.CollectionUpdated{
		EventID:     ulid.Make().String(),
		CollectorID: collectorID,
		Revision:    rev,
		CreatedAt:   time.Now(),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "failed to encode collection event")
	}

	msg := nats.NewMsg(infra.CollectionUpdated)
	msg.Data = b
	// lets the stream drop redeliveries of the same event
	msg.Header.Set(nats.MsgIdHdr, evt.EventID)

	_, err = s.events.PublishMsg(msg)
	return err
}

func lastWins(cards []*model.OwnedCard) []*model.OwnedCard {
	pos := make(map[string]int, len(cards))
	out := make([]*model.OwnedCard, 0, len(cards))
	for _, c := range cards {
		if c == nil {
			continue
		}
		if i, ok := pos[c.CardID]; ok {
			out[i] = c
			continue
		}
		pos[c.CardID] = len(out)
		out = append(out, c)
	}
	return out
}

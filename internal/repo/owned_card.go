package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/repo/selector"
)

type OwnedCard struct {
	db  *bun.DB
	sel selector.S[model.OwnedCard]
}

func NewOwnedCard(db *bun.DB) *OwnedCard {
	return &OwnedCard{db: db, sel: selector.New[model.OwnedCard](db)}
}

func (r *OwnedCard) GetOwnedCards(ctx context.Context, collectorID string) ([]*model.OwnedCard, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("collector_id = ?", collectorID).Order("card_id ASC")
	})
}

// GetCollectorIDs lists every collector that owns at least one card record.
func (r *OwnedCard) GetCollectorIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.NewSelect().
		Model((*model.OwnedCard)(nil)).
		ColumnExpr("DISTINCT collector_id").
		Order("collector_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list collectors")
	}
	return ids, nil
}

// UpsertOwnedCards writes the given amounts in a single transaction. Rows of cards that
// are not mentioned are left untouched.
func (r *OwnedCard) UpsertOwnedCards(ctx context.Context, collectorID string, cards []*model.OwnedCard) error {
	if len(cards) == 0 {
		return nil
	}

	now := time.Now()
	for _, c := range cards {
		c.CollectorID = collectorID
		c.UpdatedAt = &now
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&cards).
			On("CONFLICT (collector_id, card_id) DO UPDATE").
			Set("amount_owned = EXCLUDED.amount_owned").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return errors.Wrap(err, "failed to upsert owned cards")
	})
}

func (r *OwnedCard) CreateSchema(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*model.OwnedCard)(nil)).
		IfNotExists().
		Exec(ctx)
	return errors.Wrap(err, "failed to create owned_cards table")
}

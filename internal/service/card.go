package service

import (
	"exusiai.dev/pocketstats/internal/carddb"
	"exusiai.dev/pocketstats/internal/core/search"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/pserr"
)

type Card struct {
	db *carddb.DB
}

func NewCard(db *carddb.DB) *Card {
	return &Card{db: db}
}

func (s *Card) Catalog() *carddb.DB {
	return s.db
}

func (s *Card) Expansions() []*model.Expansion {
	return s.db.Expansions()
}

func (s *Card) Expansion(id string) (*model.Expansion, error) {
	e, ok := s.db.Expansion(id)
	if !ok {
		return nil, pserr.ErrNotFound.Msg("expansion %q not found", id)
	}
	return e, nil
}

func (s *Card) Search(q string, f model.Filters) []*model.Card {
	return search.Cards(s.db.Cards(), q, f)
}

// UnknownCardIDs returns the ids that are not in the card database, in input order.
func (s *Card) UnknownCardIDs(ids []string) []string {
	unknown := []string{}
	for _, id := range ids {
		if _, ok := s.db.Card(id); !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

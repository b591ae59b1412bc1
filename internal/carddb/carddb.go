// Package carddb holds the static card database bundled into the binary.
package carddb

import (
	_ "embed"
	"math"
	"slices"

	"github.com/ahmetb/go-linq/v3"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"exusiai.dev/pocketstats/internal/model"
)

//go:embed data/cards.json
var bundled []byte

// slotEpsilon absorbs rounding in published slot tables.
const slotEpsilon = 1e-6

var ErrInvalidDatabase = errors.New("invalid card database")

type document struct {
	Expansions []*model.Expansion `json:"expansions"`
	Cards      []*model.Card      `json:"cards"`
}

// DB is read-only after construction and safe for concurrent use.
type DB struct {
	expansions []*model.Expansion
	cards      []*model.Card

	cardByID         map[string]*model.Card
	expansionByID    map[string]*model.Expansion
	cardsByExpansion map[string][]*model.Card
}

// Load parses the bundled database.
func Load() (*DB, error) {
	db, err := Parse(bundled)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("evt.name", "carddb.loaded").
		Int("expansions", len(db.expansions)).
		Int("cards", len(db.cards)).
		Msg("card database loaded")

	return db, nil
}

func Parse(b []byte) (*DB, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode card database")
	}
	return New(doc.Expansions, doc.Cards)
}

// New validates and indexes the given expansions and cards. Order of both slices is kept
// and is the order every listing of the database uses.
func New(expansions []*model.Expansion, cards []*model.Card) (*DB, error) {
	db := &DB{
		expansions:    expansions,
		cards:         cards,
		cardByID:      make(map[string]*model.Card, len(cards)),
		expansionByID: make(map[string]*model.Expansion, len(expansions)),
	}

	for _, e := range expansions {
		if _, dup := db.expansionByID[e.ID]; dup {
			return nil, errors.Wrapf(ErrInvalidDatabase, "duplicated expansion %q", e.ID)
		}
		for _, p := range e.Packs {
			if err := validatePack(e, p); err != nil {
				return nil, err
			}
		}
		db.expansionByID[e.ID] = e
	}

	for _, c := range cards {
		if _, dup := db.cardByID[c.CardID]; dup {
			return nil, errors.Wrapf(ErrInvalidDatabase, "duplicated card %q", c.CardID)
		}
		if !c.Rarity.Valid() {
			return nil, errors.Wrapf(ErrInvalidDatabase, "card %q has unknown rarity %q", c.CardID, c.Rarity)
		}
		if _, ok := db.expansionByID[c.Expansion]; !ok {
			return nil, errors.Wrapf(ErrInvalidDatabase, "card %q refers to unknown expansion %q", c.CardID, c.Expansion)
		}
		db.cardByID[c.CardID] = c
	}

	var grouped []linq.Group
	linq.From(cards).
		GroupByT(
			func(c *model.Card) string { return c.Expansion },
			func(c *model.Card) *model.Card { return c }).
		ToSlice(&grouped)
	db.cardsByExpansion = make(map[string][]*model.Card, len(grouped))
	for _, g := range grouped {
		group := make([]*model.Card, 0, len(g.Group))
		for _, el := range g.Group {
			group = append(group, el.(*model.Card))
		}
		db.cardsByExpansion[g.Key.(string)] = group
	}

	return db, nil
}

func validatePack(e *model.Expansion, p *model.Pack) error {
	for i, slot := range p.Slots {
		unknown := lo.Filter(lo.Keys(slot), func(r model.Rarity, _ int) bool { return !r.Valid() })
		if len(unknown) > 0 {
			slices.Sort(unknown)
			return errors.Wrapf(ErrInvalidDatabase, "pack %q of %q: slot %d has unknown rarity %q", p.Name, e.ID, i, unknown[0])
		}

		sum := 0.0
		for _, r := range model.Rarities() {
			prob, ok := slot[r]
			if !ok {
				continue
			}
			if prob < 0 || math.IsNaN(prob) {
				return errors.Wrapf(ErrInvalidDatabase, "pack %q of %q: slot %d has invalid probability %v", p.Name, e.ID, i, prob)
			}
			sum += prob
		}
		if sum > 1+slotEpsilon {
			return errors.Wrapf(ErrInvalidDatabase, "pack %q of %q: slot %d probabilities sum to %.6f", p.Name, e.ID, i, sum)
		}
	}
	return nil
}

func (d *DB) Expansions() []*model.Expansion {
	return d.expansions
}

func (d *DB) Cards() []*model.Card {
	return d.cards
}

func (d *DB) Card(id string) (*model.Card, bool) {
	c, ok := d.cardByID[id]
	return c, ok
}

func (d *DB) Expansion(id string) (*model.Expansion, bool) {
	e, ok := d.expansionByID[id]
	return e, ok
}

func (d *DB) CardsInExpansion(id string) []*model.Card {
	return d.cardsByExpansion[id]
}

// CardsInPack returns the cards that can be pulled from p. For the "Every pack" pseudo-pack
// that is the whole expansion.
func (d *DB) CardsInPack(e *model.Expansion, p *model.Pack) []*model.Card {
	all := d.cardsByExpansion[e.ID]
	if p.IsEveryPack() {
		return all
	}

	var cards []*model.Card
	linq.From(all).
		WhereT(func(c *model.Card) bool { return c.InPack(p.Name) }).
		ToSlice(&cards)
	return cards
}

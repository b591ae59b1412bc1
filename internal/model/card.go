package model

// EveryPackName is the pseudo-pack a card is listed under when it can be pulled from
// any pack of its expansion.
const EveryPackName = "Every pack"

type Card struct {
	CardID    string   `json:"card_id"`
	Name      string   `json:"name"`
	Rarity    Rarity   `json:"rarity"`
	Expansion string   `json:"expansion"`
	Packs     []string `json:"packs"`
}

// InPack reports whether the card can be pulled from the pack with the given name.
func (c *Card) InPack(packName string) bool {
	for _, p := range c.Packs {
		if p == packName || p == EveryPackName {
			return true
		}
	}
	return false
}

// Slot maps a rarity to the probability that the card in this slot is of that rarity.
type Slot map[Rarity]float64

type Pack struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slots []Slot `json:"slots"`
}

// IsEveryPack reports whether the pack is the aggregate pseudo-pack rather than a real,
// openable one.
func (p *Pack) IsEveryPack() bool {
	return p.Name == EveryPackName
}

type Expansion struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Promo bool    `json:"promo"`
	Packs []*Pack `json:"packs"`
}

func (e *Expansion) Pack(name string) (*Pack, bool) {
	for _, p := range e.Packs {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

package model

// Rarity is the tier printed on a card. It decides which slot table a card is drawn from.
type Rarity string

const (
	RarityOneDiamond   Rarity = "◊"
	RarityTwoDiamond   Rarity = "◊◊"
	RarityThreeDiamond Rarity = "◊◊◊"
	RarityFourDiamond  Rarity = "◊◊◊◊"
	RarityOneStar      Rarity = "☆"
	RarityTwoStar      Rarity = "☆☆"
	RarityThreeStar    Rarity = "☆☆☆"
	RarityCrown        Rarity = "Crown Rare"
	RarityPromo        Rarity = "P"
)

// Rarities returns all known tiers, from the most common to the rarest.
func Rarities() []Rarity {
	return []Rarity{
		RarityOneDiamond,
		RarityTwoDiamond,
		RarityThreeDiamond,
		RarityFourDiamond,
		RarityOneStar,
		RarityTwoStar,
		RarityThreeStar,
		RarityCrown,
		RarityPromo,
	}
}

func (r Rarity) Valid() bool {
	for _, known := range Rarities() {
		if r == known {
			return true
		}
	}
	return false
}

// ValidRarities reports whether every element of rs is a known tier.
func ValidRarities(rs []Rarity) bool {
	for _, r := range rs {
		if !r.Valid() {
			return false
		}
	}
	return true
}

package model

const (
	DefaultNumberFilter = 1
	MinNumberFilter     = 1
	MaxNumberFilter     = 5
)

// Filters are the dashboard controls that restrict which cards are "of interest".
type Filters struct {
	// Rarity restricts the statistics to the given tiers. Empty means no restriction.
	Rarity []Rarity `json:"rarityFilter"`

	// Number is the copy threshold: a card counts as owned once AmountOwned >= Number.
	Number int `json:"numberFilter"`
}

func DefaultFilters() Filters {
	return Filters{
		Rarity: []Rarity{},
		Number: DefaultNumberFilter,
	}
}

// MatchesRarity reports whether r passes the rarity filter.
func (f Filters) MatchesRarity(r Rarity) bool {
	if len(f.Rarity) == 0 {
		return true
	}
	for _, want := range f.Rarity {
		if want == r {
			return true
		}
	}
	return false
}

// Threshold returns the copy threshold, treating non-positive values as the default.
func (f Filters) Threshold() int {
	if f.Number < MinNumberFilter {
		return DefaultNumberFilter
	}
	return f.Number
}

package model

type Overview struct {
	HasCards               bool                 `json:"hasCards"`
	TotalUniqueCards       int                  `json:"totalUniqueCards"`
	NrOfCardsOwned         int                  `json:"nrOfCardsOwned"`
	TotalCopiesOwned       int                  `json:"totalCopiesOwned"`
	RarityFilter           []Rarity             `json:"rarityFilter"`
	NumberFilter           int                  `json:"numberFilter"`
	HighestProbabilityPack *PackPullRate        `json:"highestProbabilityPack"`
	Expansions             []*ExpansionOverview `json:"expansions"`
	SiteStats              SiteStats            `json:"siteStats"`
}

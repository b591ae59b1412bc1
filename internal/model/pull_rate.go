package model

// PackPullRate is the probability of pulling at least one card still needed from one pack.
type PackPullRate struct {
	PackName   string  `json:"packName"`
	Percentage float64 `json:"percentage"`
	Fill       string  `json:"fill"`
}

type ExpansionOverview struct {
	ExpansionID   string          `json:"expansionId"`
	ExpansionName string          `json:"expansionName"`
	Promo         bool            `json:"promo"`
	CardsOwned    int             `json:"cardsOwned"`
	TotalCards    int             `json:"totalCards"`
	PullRates     []*PackPullRate `json:"pullRates"`
}

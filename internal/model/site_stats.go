package model

// SiteStats is the informational counter pair shown next to the collection numbers.
// Both values stay empty strings until a fetch succeeds.
type SiteStats struct {
	CollectionCount string `json:"collectionCount"`
	UsersCount      string `json:"usersCount"`
}

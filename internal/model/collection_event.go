package model

import "time"

// CollectionUpdated is published on every successful collection write.
type CollectionUpdated struct {
	EventID     string    `json:"eventId"`
	CollectorID string    `json:"collectorId"`
	Revision    int64     `json:"revision"`
	CreatedAt   time.Time `json:"createdAt"`
}

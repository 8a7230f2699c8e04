package models

import "time"

// Slot is a bookable [StartAt, EndAt) interval. It is recomputed on every query.
type Slot struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// SlotQuery selects an inclusive local date range. TimeZone overrides the provider's zone.
type SlotQuery struct {
	ProviderUserID string
	From           string
	To             string
	TimeZone       string
}

package models

import "time"

// Blackout is a provider-declared unavailable UTC interval.
type Blackout struct {
	ID             string    `bson:"id" json:"id"`
	ProviderUserID string    `bson:"providerUserId" json:"providerUserId"`
	StartAt        time.Time `bson:"startAt" json:"startAt"`
	EndAt          time.Time `bson:"endAt" json:"endAt"`
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
	IsActive       bool      `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

type BlackoutInput struct {
	StartAt time.Time `json:"startAt" binding:"required"`
	EndAt   time.Time `json:"endAt" binding:"required"`
	Reason  string    `json:"reason"`
}

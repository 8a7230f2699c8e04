package models

import "time"

// Day-of-week values follow time.Weekday: 0 is Sunday.
const (
	MinSlotDurationMin = 15
	MaxSlotDurationMin = 240
	MaxBufferMin       = 120
)

// TimeRange is a wall-clock working window in "HH:MM" form. End may be "24:00".
type TimeRange struct {
	Start string `bson:"start" json:"start" binding:"required"`
	End   string `bson:"end" json:"end" binding:"required"`
}

// DaySchedule lists the working windows for one weekday.
type DaySchedule struct {
	DayOfWeek int         `bson:"dayOfWeek" json:"dayOfWeek"`
	Ranges    []TimeRange `bson:"ranges" json:"ranges"`
}

// WeeklyAvailability is a provider's recurring working-hour template.
type WeeklyAvailability struct {
	ID              string        `bson:"id" json:"id"`
	ProviderUserID  string        `bson:"providerUserId" json:"providerUserId"`
	TimeZone        string        `bson:"timeZone" json:"timeZone"`
	SlotDurationMin int           `bson:"slotDurationMin" json:"slotDurationMin"`
	BufferMin       int           `bson:"bufferMin" json:"bufferMin"`
	IsActive        bool          `bson:"isActive" json:"isActive"`
	Weekly          []DaySchedule `bson:"weekly" json:"weekly"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// WeeklyAvailabilityInput is the provider-editable part of WeeklyAvailability.
type WeeklyAvailabilityInput struct {
	TimeZone        string        `json:"timeZone" binding:"required"`
	SlotDurationMin int           `json:"slotDurationMin" binding:"required"`
	BufferMin       int           `json:"bufferMin"`
	IsActive        *bool         `json:"isActive"`
	Weekly          []DaySchedule `json:"weekly"`
}

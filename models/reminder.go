package models

import "time"

// ReminderPayload is the body of a booking reminder task.
type ReminderPayload struct {
	BookingID string    `json:"bookingId"`
	StartAt   time.Time `json:"startAt"`
}

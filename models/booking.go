package models

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking is a reserved provider interval. EndAt is always StartAt+DurationMin.
type Booking struct {
	ID             string    `bson:"id" json:"id"`
	RequestID      string    `bson:"requestId" json:"requestId"`
	ResponseID     string    `bson:"responseId" json:"responseId"`
	ProviderUserID string    `bson:"providerUserId" json:"providerUserId"`
	ClientID       string    `bson:"clientId" json:"clientId"`
	StartAt        time.Time `bson:"startAt" json:"startAt"`
	DurationMin    int       `bson:"durationMin" json:"durationMin"`
	EndAt          time.Time `bson:"endAt" json:"endAt"`
	Status         string    `bson:"status" json:"status"`

	CancelledAt  *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancelledBy  string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelReason string     `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`

	RescheduledFromID string     `bson:"rescheduledFromId,omitempty" json:"rescheduledFromId,omitempty"`
	RescheduledToID   string     `bson:"rescheduledToId,omitempty" json:"rescheduledToId,omitempty"`
	RescheduledAt     *time.Time `bson:"rescheduledAt,omitempty" json:"rescheduledAt,omitempty"`
	RescheduleReason  string     `bson:"rescheduleReason,omitempty" json:"rescheduleReason,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SetInterval sets StartAt, DurationMin and the derived EndAt together.
func (b *Booking) SetInterval(startAt time.Time, durationMin int) {
	b.StartAt = startAt.UTC()
	b.DurationMin = durationMin
	b.EndAt = b.StartAt.Add(time.Duration(durationMin) * time.Minute)
}

// IsTerminal reports whether no further status transition is allowed.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// Superseded reports whether the booking was cancelled by a reschedule.
func (b *Booking) Superseded() bool {
	return b.Status == BookingStatusCancelled && b.RescheduledToID != ""
}

// BookingPatch carries the fields a status transition writes.
type BookingPatch struct {
	Status           string
	CancelledAt      *time.Time
	CancelledBy      string
	CancelReason     string
	RescheduledToID  string
	RescheduledAt    *time.Time
	RescheduleReason string
	UpdatedAt        time.Time
}

// Apply copies the non-empty patch fields onto b.
func (p BookingPatch) Apply(b *Booking) {
	b.Status = p.Status
	if p.CancelledAt != nil {
		b.CancelledAt = p.CancelledAt
		b.CancelledBy = p.CancelledBy
		b.CancelReason = p.CancelReason
	}
	if p.RescheduledToID != "" {
		b.RescheduledToID = p.RescheduledToID
		b.RescheduledAt = p.RescheduledAt
		b.RescheduleReason = p.RescheduleReason
	}
	b.UpdatedAt = p.UpdatedAt
}

type CreateBookingInput struct {
	RequestID      string    `json:"requestId" binding:"required"`
	ResponseID     string    `json:"responseId" binding:"required"`
	ProviderUserID string    `json:"providerUserId" binding:"required"`
	ClientID       string    `json:"clientId"`
	StartAt        time.Time `json:"startAt" binding:"required"`
	DurationMin    int       `json:"durationMin" binding:"required"`
}

type RescheduleInput struct {
	NewStartAt     time.Time `json:"newStartAt" binding:"required"`
	NewDurationMin *int      `json:"newDurationMin"`
	Reason         string    `json:"reason"`
}

// RescheduleResult holds both sides of a committed reschedule.
type RescheduleResult struct {
	Old *Booking `json:"old"`
	New *Booking `json:"new"`
}

// BookingHistory is a reschedule chain ordered oldest to newest.
type BookingHistory struct {
	RootID       string    `json:"rootId"`
	RequestedID  string    `json:"requestedId"`
	LatestID     string    `json:"latestId"`
	CurrentIndex int       `json:"currentIndex"`
	Items        []Booking `json:"items"`
}

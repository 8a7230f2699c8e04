package booking

import (
	"context"

	"slotwise/models"
)

// SchedulingService is the booking core: slot queries, the booking lifecycle
// and reschedule history.
type SchedulingService interface {
	ListSlots(ctx context.Context, query models.SlotQuery) ([]models.Slot, error)
	CreateBooking(ctx context.Context, actor models.Actor, input models.CreateBookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, actor models.Actor, bookingID string, input models.RescheduleInput) (*models.RescheduleResult, error)
	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor, query ListQuery) ([]models.Booking, error)
	GetHistory(ctx context.Context, actor models.Actor, bookingID string) (*models.BookingHistory, error)
}

// SlotCache stores computed slot listings per provider. Listings are advisory.
type SlotCache interface {
	Lookup(ctx context.Context, providerID, key string) (slots []models.Slot, version string, hit bool, err error)
	Store(ctx context.Context, providerID, version, key string, slots []models.Slot) error
	Invalidate(ctx context.Context, providerID string) error
}

// ProviderLocker serializes booking writes for one provider.
type ProviderLocker interface {
	Acquire(ctx context.Context, providerID string) (release func(), err error)
}

// ReminderScheduler queues a reminder ahead of a confirmed booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking *models.Booking) error
}

// ListQuery narrows ListBookings. ProviderUserID is only honoured for admins.
type ListQuery struct {
	ProviderUserID string
	Status         string
	Limit          int
}

// Options holds the tunables main.go maps from configuration.
type Options struct {
	MaxRangeDays    int
	MaxHistoryDepth int
}

const (
	defaultMaxRangeDays    = 14
	defaultMaxHistoryDepth = 64
)

func (o Options) maxRangeDays() int {
	if o.MaxRangeDays <= 0 {
		return defaultMaxRangeDays
	}
	return o.MaxRangeDays
}

func (o Options) maxHistoryDepth() int {
	if o.MaxHistoryDepth <= 0 {
		return defaultMaxHistoryDepth
	}
	return o.MaxHistoryDepth
}

var _ SchedulingService = (*DefaultSchedulingEngine)(nil)

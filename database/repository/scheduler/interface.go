// File: database/repository/scheduler/interface.go
package schedulerRepo

import (
	"context"
	"errors"
	"time"

	"slotwise/models"
)

var (
	// ErrNotFound is returned when no booking has the requested id.
	ErrNotFound = errors.New("booking not found")
	// ErrOverlap is returned when a non-cancelled booking of the same provider
	// already occupies part of the requested interval.
	ErrOverlap = errors.New("booking overlaps an existing booking")
	// ErrStatusMismatch is returned when a conditional update finds the booking
	// in a different status than expected.
	ErrStatusMismatch = errors.New("booking status precondition failed")
	// ErrWriteConflict is returned when a concurrent transaction on the same
	// provider timeline won the race.
	ErrWriteConflict = errors.New("concurrent booking write conflict")
)

// ListFilter narrows ListBookings. Empty fields are ignored.
type ListFilter struct {
	ProviderUserID string
	ClientID       string
	Status         string
	Limit          int
}

// SchedulerRepository is the persistence collaborator of the booking lifecycle.
type SchedulerRepository interface {
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// FindOverlapping returns the provider's non-cancelled bookings overlapping [start, end).
	FindOverlapping(ctx context.Context, providerUserID string, start, end time.Time) ([]models.Booking, error)
	// InsertIfNoOverlap inserts booking unless another non-cancelled booking of the
	// provider overlaps it.
	InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error
	// UpdateStatus applies patch only while the booking is in expectedStatus.
	UpdateStatus(ctx context.Context, bookingID, expectedStatus string, patch models.BookingPatch) (*models.Booking, error)
	// Reschedule inserts next and applies oldPatch to the confirmed booking oldID
	// as one unit. The old booking is ignored by the overlap check.
	Reschedule(ctx context.Context, oldID string, oldPatch models.BookingPatch, next *models.Booking) (*models.Booking, error)
	ListBookings(ctx context.Context, filter ListFilter) ([]models.Booking, error)
}

const defaultListLimit = 100

func listLimit(n int) int {
	if n <= 0 || n > 500 {
		return defaultListLimit
	}
	return n
}

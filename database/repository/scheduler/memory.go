package schedulerRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"slotwise/models"
)

// MemorySchedulerRepo is a process-local SchedulerRepository. A single mutex
// makes every check-then-write atomic, matching the Mongo transaction semantics.
type MemorySchedulerRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func NewMemorySchedulerRepo() *MemorySchedulerRepo {
	return &MemorySchedulerRepo{bookings: make(map[string]models.Booking)}
}

func (r *MemorySchedulerRepo) GetBookingByID(_ context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemorySchedulerRepo) overlapping(providerUserID string, start, end time.Time, excludeID string) []models.Booking {
	out := []models.Booking{}
	for _, b := range r.bookings {
		if b.ProviderUserID != providerUserID || b.Status == models.BookingStatusCancelled || b.ID == excludeID {
			continue
		}
		if b.StartAt.Before(end) && start.Before(b.EndAt) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out
}

func (r *MemorySchedulerRepo) FindOverlapping(_ context.Context, providerUserID string, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapping(providerUserID, start, end, ""), nil
}

func (r *MemorySchedulerRepo) InsertIfNoOverlap(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.overlapping(booking.ProviderUserID, booking.StartAt, booking.EndAt, "")) > 0 {
		return ErrOverlap
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemorySchedulerRepo) UpdateStatus(_ context.Context, bookingID, expectedStatus string, patch models.BookingPatch) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Status != expectedStatus {
		return nil, ErrStatusMismatch
	}
	patch.Apply(&b)
	r.bookings[bookingID] = b
	return &b, nil
}

func (r *MemorySchedulerRepo) Reschedule(_ context.Context, oldID string, oldPatch models.BookingPatch, next *models.Booking) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.bookings[oldID]
	if !ok {
		return nil, ErrNotFound
	}
	if old.Status != models.BookingStatusConfirmed {
		return nil, ErrStatusMismatch
	}
	if len(r.overlapping(next.ProviderUserID, next.StartAt, next.EndAt, oldID)) > 0 {
		return nil, ErrOverlap
	}

	oldPatch.Apply(&old)
	r.bookings[next.ID] = *next
	r.bookings[oldID] = old
	return &old, nil
}

func (r *MemorySchedulerRepo) ListBookings(_ context.Context, filter ListFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if filter.ProviderUserID != "" && b.ProviderUserID != filter.ProviderUserID {
			continue
		}
		if filter.ClientID != "" && b.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartAt.After(out[j].StartAt)
	})
	if limit := listLimit(filter.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Put stores b as-is. It exists for seeding fixtures.
func (r *MemorySchedulerRepo) Put(b models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

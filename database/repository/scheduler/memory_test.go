package schedulerRepo

import (
	"context"
	"testing"
	"time"

	"slotwise/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id, provider string, start time.Time, minutes int) *models.Booking {
	b := &models.Booking{ID: id, ProviderUserID: provider, Status: models.BookingStatusConfirmed}
	b.SetInterval(start, minutes)
	return b
}

func TestMemoryRepo_InsertIfNoOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySchedulerRepo()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.InsertIfNoOverlap(ctx, booking("b1", "p1", start, 30)))
	assert.ErrorIs(t, repo.InsertIfNoOverlap(ctx, booking("b2", "p1", start.Add(29*time.Minute), 30)), ErrOverlap)
	assert.NoError(t, repo.InsertIfNoOverlap(ctx, booking("b3", "p1", start.Add(30*time.Minute), 30)), "adjacent is free")
	assert.NoError(t, repo.InsertIfNoOverlap(ctx, booking("b4", "p2", start, 30)), "other provider")
}

func TestMemoryRepo_UpdateStatusPrecondition(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySchedulerRepo()
	require.NoError(t, repo.InsertIfNoOverlap(ctx, booking("b1", "p1", time.Now(), 30)))

	patch := models.BookingPatch{Status: models.BookingStatusCompleted, UpdatedAt: time.Now()}
	updated, err := repo.UpdateStatus(ctx, "b1", models.BookingStatusConfirmed, patch)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, updated.Status)

	_, err = repo.UpdateStatus(ctx, "b1", models.BookingStatusConfirmed, patch)
	assert.ErrorIs(t, err, ErrStatusMismatch)

	_, err = repo.UpdateStatus(ctx, "missing", models.BookingStatusConfirmed, patch)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_RescheduleIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySchedulerRepo()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	old := booking("old", "p1", start, 30)
	old.Status = models.BookingStatusCompleted
	repo.Put(*old)

	next := booking("new", "p1", start.Add(time.Hour), 30)
	_, err := repo.Reschedule(ctx, "old", models.BookingPatch{Status: models.BookingStatusCancelled, RescheduledToID: "new"}, next)
	assert.ErrorIs(t, err, ErrStatusMismatch)

	_, err = repo.GetBookingByID(ctx, "new")
	assert.ErrorIs(t, err, ErrNotFound, "new booking must not survive a failed reschedule")
}

package booking

import (
	"context"
	"testing"

	"slotwise/models"
	"slotwise/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayQuery() models.SlotQuery {
	return models.SlotQuery{ProviderUserID: providerActor.UserID, From: "2026-06-01", To: "2026-06-01"}
}

func TestListSlots_ReturnsFreeSlots(t *testing.T) {
	f := newFixture(t)
	f.book(t, "10:00")

	slots, err := f.engine.ListSlots(context.Background(), mondayQuery())
	require.NoError(t, err)
	require.Len(t, slots, 5)
	assert.Equal(t, at("09:00"), slots[0].StartAt)
	for _, s := range slots {
		assert.NotEqual(t, at("10:00"), s.StartAt)
	}
}

func TestListSlots_Validation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]models.SlotQuery{
		"bad from":      {ProviderUserID: "p", From: "2026-6-1", To: "2026-06-01"},
		"bad to":        {ProviderUserID: "p", From: "2026-06-01", To: "tomorrow"},
		"inverted":      {ProviderUserID: "p", From: "2026-06-02", To: "2026-06-01"},
		"fifteen days":  {ProviderUserID: "p", From: "2026-06-01", To: "2026-06-15"},
		"unknown zone":  {ProviderUserID: "p", From: "2026-06-01", To: "2026-06-01", TimeZone: "Mars/Olympus"},
		"missing owner": {From: "2026-06-01", To: "2026-06-01"},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.engine.ListSlots(context.Background(), q)
			requireKind(t, err, utils.KindValidation)
		})
	}

	_, err := f.engine.ListSlots(context.Background(), models.SlotQuery{
		ProviderUserID: "p", From: "2026-06-01", To: "2026-06-14",
	})
	assert.NoError(t, err, "fourteen days is the limit")
}

func TestListSlots_NoOrInactiveAvailabilityIsEmpty(t *testing.T) {
	f := newFixture(t)
	slots, err := f.engine.ListSlots(context.Background(), models.SlotQuery{
		ProviderUserID: "nobody", From: "2026-06-01", To: "2026-06-01",
	})
	require.NoError(t, err)
	assert.Empty(t, slots)

	require.NoError(t, f.avail.SetWeeklyActive(context.Background(), providerActor.UserID, false, f.now))
	slots, err = f.engine.ListSlots(context.Background(), mondayQuery())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestListSlots_HidesPastSlots(t *testing.T) {
	f := newFixture(t)
	f.now = at("10:10")

	slots, err := f.engine.ListSlots(context.Background(), mondayQuery())
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, at("10:30"), slots[0].StartAt)
}

func TestListSlots_ZoneOverride(t *testing.T) {
	f := newFixture(t)
	q := mondayQuery()
	q.TimeZone = "Europe/Berlin"

	slots, err := f.engine.ListSlots(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, at("09:00"), slots[0].StartAt, "working hours stay in the provider's zone")

	b, err := f.engine.CreateBooking(context.Background(), clientActor, models.CreateBookingInput{
		RequestID:      "req-1",
		ResponseID:     "resp-1",
		ProviderUserID: providerActor.UserID,
		StartAt:        slots[0].StartAt,
		DurationMin:    30,
	})
	require.NoError(t, err)
	assert.Equal(t, slots[0].StartAt, b.StartAt)
}

func TestListSlots_ZoneOverrideSelectsViewerDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Kiritimati is UTC+14: 09:00 and 09:30 UTC fall on its June 1, the rest on June 2.
	q := mondayQuery()
	q.TimeZone = "Pacific/Kiritimati"
	june1, err := f.engine.ListSlots(ctx, q)
	require.NoError(t, err)
	require.Len(t, june1, 2)
	assert.Equal(t, at("09:00"), june1[0].StartAt)
	assert.Equal(t, at("09:30"), june1[1].StartAt)

	q.From, q.To = "2026-06-02", "2026-06-02"
	june2, err := f.engine.ListSlots(ctx, q)
	require.NoError(t, err)
	require.Len(t, june2, 4)
	assert.Equal(t, at("10:00"), june2[0].StartAt)
}

func TestListSlots_CacheIsServedUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.engine.ListSlots(ctx, mondayQuery())
	require.NoError(t, err)
	require.Len(t, first, 6)
	assert.Equal(t, 1, f.cache.stores)

	seeded := models.Booking{ID: "direct", ProviderUserID: providerActor.UserID, Status: models.BookingStatusConfirmed}
	seeded.SetInterval(at("09:00"), 30)
	f.bookings.Put(seeded)

	stale, err := f.engine.ListSlots(ctx, mondayQuery())
	require.NoError(t, err)
	assert.Len(t, stale, 6, "listing is advisory and may be stale")

	f.book(t, "11:00")
	fresh, err := f.engine.ListSlots(ctx, mondayQuery())
	require.NoError(t, err)
	assert.Len(t, fresh, 4)
}

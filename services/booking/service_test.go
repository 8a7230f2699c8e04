package booking

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	availabilityRepo "slotwise/database/repository/availability"
	schedulerRepo "slotwise/database/repository/scheduler"
	"slotwise/models"
	"slotwise/utils"

	"github.com/stretchr/testify/require"
)

var (
	clientActor   = models.Actor{UserID: "client-1", Role: models.RoleClient}
	otherClient   = models.Actor{UserID: "client-2", Role: models.RoleClient}
	providerActor = models.Actor{UserID: "provider-1", Role: models.RoleProvider}
	adminActor    = models.Actor{UserID: "admin-1", Role: models.RoleAdmin}
)

// monday is 2026-06-01, a Monday.
func at(clock string) time.Time {
	t, err := time.Parse(time.RFC3339, "2026-06-01T"+clock+":00Z")
	if err != nil {
		panic(err)
	}
	return t
}

type fakeCache struct {
	mu       sync.Mutex
	version  int
	listings map[string][]models.Slot
	stores   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{listings: map[string][]models.Slot{}}
}

func (c *fakeCache) k(providerID, version, key string) string {
	return providerID + "|" + version + "|" + key
}

func (c *fakeCache) Lookup(_ context.Context, providerID, key string) ([]models.Slot, string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ver := strconv.Itoa(c.version)
	slots, ok := c.listings[c.k(providerID, ver, key)]
	return slots, ver, ok, nil
}

func (c *fakeCache) Store(_ context.Context, providerID, version, key string, slots []models.Slot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores++
	c.listings[c.k(providerID, version, key)] = slots
	return nil
}

func (c *fakeCache) Invalidate(context.Context, string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	return nil
}

type fakeReminders struct {
	mu        sync.Mutex
	scheduled []string
}

func (r *fakeReminders) ScheduleReminder(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, b.ID)
	return nil
}

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (func(), error) {
	return nil, utils.ErrLockHeld
}

type fixture struct {
	engine    *DefaultSchedulingEngine
	bookings  *schedulerRepo.MemorySchedulerRepo
	avail     *availabilityRepo.MemoryAvailabilityRepo
	cache     *fakeCache
	reminders *fakeReminders
	now       time.Time
}

// newFixture gives provider-1 Monday 09:00-12:00 UTC in 30 minute slots and
// freezes the clock the day before.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bookings:  schedulerRepo.NewMemorySchedulerRepo(),
		avail:     availabilityRepo.NewMemoryAvailabilityRepo(),
		cache:     newFakeCache(),
		reminders: &fakeReminders{},
		now:       time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC),
	}
	_, err := f.avail.UpsertWeekly(context.Background(), &models.WeeklyAvailability{
		ID:              "wa-1",
		ProviderUserID:  providerActor.UserID,
		TimeZone:        "UTC",
		SlotDurationMin: 30,
		IsActive:        true,
		Weekly: []models.DaySchedule{
			{DayOfWeek: 1, Ranges: []models.TimeRange{{Start: "09:00", End: "12:00"}}},
		},
	})
	require.NoError(t, err)

	f.engine = &DefaultSchedulingEngine{
		Repo:         f.bookings,
		Availability: f.avail,
		Cache:        f.cache,
		Reminders:    f.reminders,
		Now:          func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) book(t *testing.T, clock string) *models.Booking {
	t.Helper()
	b, err := f.engine.CreateBooking(context.Background(), clientActor, models.CreateBookingInput{
		RequestID:      "req-1",
		ResponseID:     "resp-1",
		ProviderUserID: providerActor.UserID,
		StartAt:        at(clock),
		DurationMin:    30,
	})
	require.NoError(t, err)
	return b
}

func requireKind(t *testing.T, err error, kind utils.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, utils.KindOf(err), "error: %v", err)
}

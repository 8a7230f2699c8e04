package provider

import (
	"context"
	"testing"
	"time"

	availabilityRepo "slotwise/database/repository/availability"
	"slotwise/models"
	"slotwise/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = models.Actor{UserID: "provider-1", Role: models.RoleProvider}
	stranger = models.Actor{UserID: "provider-2", Role: models.RoleProvider}
	admin    = models.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	client   = models.Actor{UserID: "provider-1", Role: models.RoleClient}
)

type countingCache struct{ calls map[string]int }

func (c *countingCache) Invalidate(_ context.Context, providerID string) error {
	c.calls[providerID]++
	return nil
}

func newService(t *testing.T) (*DefaultProviderService, *countingCache) {
	t.Helper()
	cache := &countingCache{calls: map[string]int{}}
	svc, err := NewDefaultProviderService(availabilityRepo.NewMemoryAvailabilityRepo(), cache, nil)
	require.NoError(t, err)
	svc.Now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc, cache
}

func validInput() models.WeeklyAvailabilityInput {
	return models.WeeklyAvailabilityInput{
		TimeZone:        "Europe/Berlin",
		SlotDurationMin: 30,
		BufferMin:       10,
		Weekly: []models.DaySchedule{
			{DayOfWeek: 1, Ranges: []models.TimeRange{{Start: "13:00", End: "17:00"}, {Start: "09:00", End: "12:00"}}},
			{DayOfWeek: 0, Ranges: []models.TimeRange{{Start: "20:00", End: "24:00"}}},
		},
	}
}

func TestNewDefaultProviderService_RequiresRepo(t *testing.T) {
	_, err := NewDefaultProviderService(nil, nil, nil)
	assert.Error(t, err)
}

func TestSetWeeklyAvailability_NormalizesAndInvalidates(t *testing.T) {
	svc, cache := newService(t)

	saved, err := svc.SetWeeklyAvailability(context.Background(), owner, owner.UserID, validInput())
	require.NoError(t, err)
	assert.True(t, saved.IsActive)
	require.Len(t, saved.Weekly, 2)
	assert.Equal(t, 0, saved.Weekly[0].DayOfWeek)
	assert.Equal(t, "09:00", saved.Weekly[1].Ranges[0].Start)
	assert.Equal(t, 1, cache.calls[owner.UserID])

	got, err := svc.GetWeeklyAvailability(context.Background(), owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
}

func TestSetWeeklyAvailability_KeepsIdentityAcrossUpdates(t *testing.T) {
	svc, _ := newService(t)
	first, err := svc.SetWeeklyAvailability(context.Background(), owner, owner.UserID, validInput())
	require.NoError(t, err)

	in := validInput()
	in.SlotDurationMin = 60
	second, err := svc.SetWeeklyAvailability(context.Background(), admin, owner.UserID, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 60, second.SlotDurationMin)
}

func TestSetWeeklyAvailability_Validation(t *testing.T) {
	svc, _ := newService(t)
	mutate := map[string]func(*models.WeeklyAvailabilityInput){
		"zone":          func(in *models.WeeklyAvailabilityInput) { in.TimeZone = "Nowhere/Land" },
		"short slot":    func(in *models.WeeklyAvailabilityInput) { in.SlotDurationMin = 10 },
		"long slot":     func(in *models.WeeklyAvailabilityInput) { in.SlotDurationMin = 300 },
		"buffer":        func(in *models.WeeklyAvailabilityInput) { in.BufferMin = 121 },
		"day":           func(in *models.WeeklyAvailabilityInput) { in.Weekly[0].DayOfWeek = 7 },
		"clock":         func(in *models.WeeklyAvailabilityInput) { in.Weekly[0].Ranges[0].Start = "9am" },
		"inverted":      func(in *models.WeeklyAvailabilityInput) { in.Weekly[0].Ranges[0] = models.TimeRange{Start: "17:00", End: "13:00"} },
		"overlap":       func(in *models.WeeklyAvailabilityInput) { in.Weekly[0].Ranges[0].Start = "11:00" },
		"start at 24h":  func(in *models.WeeklyAvailabilityInput) { in.Weekly[1].Ranges[0] = models.TimeRange{Start: "24:00", End: "24:00"} },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			fn(&in)
			_, err := svc.SetWeeklyAvailability(context.Background(), owner, owner.UserID, in)
			require.Error(t, err)
			assert.Equal(t, utils.KindValidation, utils.KindOf(err))
		})
	}
}

func TestSetWeeklyAvailability_Forbidden(t *testing.T) {
	svc, _ := newService(t)
	for _, actor := range []models.Actor{stranger, client} {
		_, err := svc.SetWeeklyAvailability(context.Background(), actor, owner.UserID, validInput())
		assert.True(t, utils.IsKind(err, utils.KindForbidden))
	}
}

func TestDeactivateWeeklyAvailability(t *testing.T) {
	svc, _ := newService(t)
	err := svc.DeactivateWeeklyAvailability(context.Background(), owner, owner.UserID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, err = svc.SetWeeklyAvailability(context.Background(), owner, owner.UserID, validInput())
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateWeeklyAvailability(context.Background(), owner, owner.UserID))

	got, err := svc.GetWeeklyAvailability(context.Background(), owner.UserID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func blackoutAt(startHour, endHour int) models.BlackoutInput {
	day := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	return models.BlackoutInput{
		StartAt: day.Add(time.Duration(startHour) * time.Hour),
		EndAt:   day.Add(time.Duration(endHour) * time.Hour),
		Reason:  "dentist",
	}
}

func TestCreateBlackout(t *testing.T) {
	svc, cache := newService(t)
	ctx := context.Background()

	b, err := svc.CreateBlackout(ctx, owner, owner.UserID, blackoutAt(9, 11))
	require.NoError(t, err)
	assert.True(t, b.IsActive)
	assert.Equal(t, 1, cache.calls[owner.UserID])

	_, err = svc.CreateBlackout(ctx, owner, owner.UserID, blackoutAt(10, 12))
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	_, err = svc.CreateBlackout(ctx, owner, owner.UserID, blackoutAt(11, 12))
	assert.NoError(t, err, "adjacent blackouts do not overlap")

	_, err = svc.CreateBlackout(ctx, owner, owner.UserID, blackoutAt(12, 12))
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = svc.CreateBlackout(ctx, stranger, owner.UserID, blackoutAt(14, 15))
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
}

func TestRemoveBlackout(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	b, err := svc.CreateBlackout(ctx, owner, owner.UserID, blackoutAt(9, 11))
	require.NoError(t, err)

	err = svc.RemoveBlackout(ctx, stranger, b.ID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound), "not owned reads as not found")

	require.NoError(t, svc.RemoveBlackout(ctx, owner, b.ID))

	all, err := svc.ListBlackouts(ctx, owner, owner.UserID, blackoutAt(0, 24).StartAt, blackoutAt(0, 24).EndAt)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive, "removal is logical")

	_, err = svc.CreateBlackout(ctx, owner, owner.UserID, blackoutAt(9, 11))
	assert.NoError(t, err, "removed blackout no longer conflicts")

	err = svc.RemoveBlackout(ctx, admin, "missing")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

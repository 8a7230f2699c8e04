package booking

import (
	"context"
	"time"

	availabilityRepo "slotwise/database/repository/availability"
	schedulerRepo "slotwise/database/repository/scheduler"
	"slotwise/models"

	"go.uber.org/zap"
)

// DefaultSchedulingEngine implements SchedulingService. Cache, Locker and
// Reminders are optional.
type DefaultSchedulingEngine struct {
	Repo         schedulerRepo.SchedulerRepository
	Availability availabilityRepo.AvailabilityRepository
	Cache        SlotCache
	Locker       ProviderLocker
	Reminders    ReminderScheduler
	Logger       *zap.Logger
	Now          func() time.Time
	Options      Options
}

func (se *DefaultSchedulingEngine) now() time.Time {
	if se.Now != nil {
		return se.Now().UTC()
	}
	return time.Now().UTC()
}

func (se *DefaultSchedulingEngine) log() *zap.Logger {
	if se.Logger == nil {
		return zap.NewNop()
	}
	return se.Logger
}

// lockProvider takes the provider lock if a locker is configured.
func (se *DefaultSchedulingEngine) lockProvider(ctx context.Context, providerID string) (func(), error) {
	if se.Locker == nil {
		return func() {}, nil
	}
	release, err := se.Locker.Acquire(ctx, providerID)
	if err != nil {
		return nil, translateLockErr(err, providerID)
	}
	return release, nil
}

// afterWrite runs the best-effort side effects of a committed booking write.
func (se *DefaultSchedulingEngine) afterWrite(ctx context.Context, providerID string, scheduled *models.Booking) {
	if se.Cache != nil {
		if err := se.Cache.Invalidate(ctx, providerID); err != nil {
			se.log().Warn("Failed to invalidate slot cache",
				zap.String("providerUserId", providerID), zap.Error(err))
		}
	}
	if scheduled != nil && se.Reminders != nil {
		if err := se.Reminders.ScheduleReminder(ctx, scheduled); err != nil {
			se.log().Warn("Failed to schedule booking reminder",
				zap.String("bookingID", scheduled.ID), zap.Error(err))
		}
	}
}

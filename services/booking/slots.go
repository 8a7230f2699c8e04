package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "slotwise/database/repository/availability"
	"slotwise/models"
	"slotwise/services/availability"
	"slotwise/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// scheduleInputs is the persisted state slot generation reads for one provider.
type scheduleInputs struct {
	weekly    *models.WeeklyAvailability
	blackouts []models.Blackout
	bookings  []models.Booking
}

// loadBounds widens a civil date range to UTC instants that cover it in any zone.
func loadBounds(from, to time.Time) (time.Time, time.Time) {
	return from.AddDate(0, 0, -1), to.AddDate(0, 0, 2)
}

// loadInputs fetches availability, blackouts and bookings concurrently. A
// missing or inactive template yields nil weekly.
func (se *DefaultSchedulingEngine) loadInputs(ctx context.Context, providerID string, from, to time.Time) (*scheduleInputs, error) {
	start, end := loadBounds(from, to)
	in := &scheduleInputs{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		weekly, err := se.Availability.GetWeekly(gctx, providerID)
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load weekly availability: %w", err)
		}
		if weekly.IsActive {
			in.weekly = weekly
		}
		return nil
	})
	g.Go(func() error {
		blackouts, err := se.Availability.FindActiveBlackouts(gctx, providerID, start, end)
		if err != nil {
			return fmt.Errorf("load blackouts: %w", err)
		}
		in.blackouts = blackouts
		return nil
	})
	g.Go(func() error {
		bookings, err := se.Repo.FindOverlapping(gctx, providerID, start, end)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		in.bookings = bookings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, utils.WrapInternal(err, "failed to load provider schedule")
	}
	return in, nil
}

// generate runs slot generation over the civil dates [from, to], reading the
// weekly template in the provider's own zone.
func generate(in *scheduleInputs, from, to time.Time) ([]models.Slot, error) {
	if in.weekly == nil {
		return []models.Slot{}, nil
	}
	loc, err := time.LoadLocation(in.weekly.TimeZone)
	if err != nil {
		return nil, utils.WrapInternal(err, "stored time zone is invalid")
	}
	slots, err := availability.GenerateSlots(availability.SlotInput{
		Availability: *in.weekly,
		Blackouts:    in.blackouts,
		Bookings:     in.bookings,
		From:         from,
		To:           to,
		Location:     loc,
	})
	if err != nil {
		return nil, utils.WrapInternal(err, "stored weekly availability is invalid")
	}
	return slots, nil
}

// onDates keeps the slots whose start falls on a civil date in [from, to] as
// seen from loc.
func onDates(slots []models.Slot, loc *time.Location, from, to time.Time) []models.Slot {
	out := make([]models.Slot, 0, len(slots))
	for _, s := range slots {
		local := s.StartAt.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		if !day.Before(from) && !day.After(to) {
			out = append(out, s)
		}
	}
	return out
}

func upcoming(slots []models.Slot, now time.Time) []models.Slot {
	out := make([]models.Slot, 0, len(slots))
	for _, s := range slots {
		if !s.StartAt.Before(now) {
			out = append(out, s)
		}
	}
	return out
}

// ListSlots returns the provider's free slots for the inclusive local date
// range. With a TimeZone set, the dates are read in that zone while the slots
// themselves still follow the provider's working hours.
func (se *DefaultSchedulingEngine) ListSlots(ctx context.Context, query models.SlotQuery) ([]models.Slot, error) {
	if query.ProviderUserID == "" {
		return nil, utils.NewValidationError("providerUserId is required")
	}
	from, err := availability.ParseDate(query.From)
	if err != nil {
		return nil, utils.NewValidationError("from: %v", err)
	}
	to, err := availability.ParseDate(query.To)
	if err != nil {
		return nil, utils.NewValidationError("to: %v", err)
	}
	if to.Before(from) {
		return nil, utils.NewValidationError("from must not be after to")
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > se.Options.maxRangeDays() {
		return nil, utils.NewValidationError("range spans %d days, at most %d allowed", days, se.Options.maxRangeDays())
	}
	var view *time.Location
	if query.TimeZone != "" {
		if view, err = time.LoadLocation(query.TimeZone); err != nil {
			return nil, utils.NewValidationError("unknown time zone %q", query.TimeZone)
		}
	}

	key := fmt.Sprintf("%s:%s:%s", query.From, query.To, query.TimeZone)
	var version string
	if se.Cache != nil {
		cached, ver, hit, err := se.Cache.Lookup(ctx, query.ProviderUserID, key)
		switch {
		case err != nil:
			se.log().Warn("Slot cache lookup failed",
				zap.String("providerUserId", query.ProviderUserID), zap.Error(err))
		case hit:
			return upcoming(cached, se.now()), nil
		default:
			version = ver
		}
	}

	// a viewer's date can start up to a day either side of the provider's.
	genFrom, genTo := from, to
	if view != nil {
		genFrom, genTo = from.AddDate(0, 0, -1), to.AddDate(0, 0, 1)
	}
	in, err := se.loadInputs(ctx, query.ProviderUserID, genFrom, genTo)
	if err != nil {
		return nil, err
	}
	slots, err := generate(in, genFrom, genTo)
	if err != nil {
		return nil, err
	}
	if view != nil {
		slots = onDates(slots, view, from, to)
	}

	if se.Cache != nil && version != "" {
		if err := se.Cache.Store(ctx, query.ProviderUserID, version, key, slots); err != nil {
			se.log().Warn("Slot cache store failed",
				zap.String("providerUserId", query.ProviderUserID), zap.Error(err))
		}
	}
	return upcoming(slots, se.now()), nil
}

// requireFreeSlot recomputes the provider's slots around start and fails with
// Conflict unless [start, start+duration) is exactly one upcoming free slot.
// Bookings with id excludeID are treated as absent.
func (se *DefaultSchedulingEngine) requireFreeSlot(ctx context.Context, providerID string, start time.Time, durationMin int, excludeID string) error {
	// the provider-local date of start is within a day of its UTC date.
	utc := start.UTC()
	day := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	from, to := day.AddDate(0, 0, -1), day.AddDate(0, 0, 1)

	in, err := se.loadInputs(ctx, providerID, from, to)
	if err != nil {
		return err
	}
	if in.weekly == nil {
		return utils.NewConflictError("provider %s is not accepting bookings", providerID)
	}
	if excludeID != "" {
		kept := in.bookings[:0]
		for _, b := range in.bookings {
			if b.ID != excludeID {
				kept = append(kept, b)
			}
		}
		in.bookings = kept
	}

	slots, err := generate(in, from, to)
	if err != nil {
		return err
	}
	end := utc.Add(time.Duration(durationMin) * time.Minute)
	if !availability.ContainsSlot(upcoming(slots, se.now()), utc, end) {
		return utils.NewConflictError("requested time %s is not a free slot", utc.Format(time.RFC3339))
	}
	return nil
}

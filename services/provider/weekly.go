// File: services/provider/weekly.go
package provider

import (
	"context"
	"errors"
	"sort"
	"time"

	availabilityRepo "slotwise/database/repository/availability"
	"slotwise/models"
	"slotwise/services/availability"
	"slotwise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type parsedRange struct {
	start, end int
	raw        models.TimeRange
}

// normalizeWeekly validates the template and returns one entry per weekday,
// ordered by day, with ranges sorted by start.
func normalizeWeekly(days []models.DaySchedule) ([]models.DaySchedule, error) {
	byDay := map[int][]parsedRange{}
	for _, day := range days {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return nil, utils.NewValidationError("dayOfWeek must be 0-6, got %d", day.DayOfWeek)
		}
		for _, r := range day.Ranges {
			start, err := availability.ParseClock(r.Start)
			if err != nil {
				return nil, utils.NewValidationError("day %d: %v", day.DayOfWeek, err)
			}
			end, err := availability.ParseClock(r.End)
			if err != nil {
				return nil, utils.NewValidationError("day %d: %v", day.DayOfWeek, err)
			}
			if start >= end {
				return nil, utils.NewValidationError("day %d: range %s-%s must start before it ends", day.DayOfWeek, r.Start, r.End)
			}
			byDay[day.DayOfWeek] = append(byDay[day.DayOfWeek], parsedRange{start: start, end: end, raw: r})
		}
	}

	out := make([]models.DaySchedule, 0, len(byDay))
	for dow, ranges := range byDay {
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
		sched := models.DaySchedule{DayOfWeek: dow, Ranges: make([]models.TimeRange, 0, len(ranges))}
		for i, r := range ranges {
			if i > 0 && r.start < ranges[i-1].end {
				return nil, utils.NewValidationError("day %d: ranges %s-%s and %s-%s overlap",
					dow, ranges[i-1].raw.Start, ranges[i-1].raw.End, r.raw.Start, r.raw.End)
			}
			sched.Ranges = append(sched.Ranges, r.raw)
		}
		out = append(out, sched)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func validateWeeklyInput(input models.WeeklyAvailabilityInput) error {
	if input.TimeZone == "" {
		return utils.NewValidationError("timeZone is required")
	}
	if _, err := time.LoadLocation(input.TimeZone); err != nil {
		return utils.NewValidationError("unknown time zone %q", input.TimeZone)
	}
	if input.SlotDurationMin < models.MinSlotDurationMin || input.SlotDurationMin > models.MaxSlotDurationMin {
		return utils.NewValidationError("slotDurationMin must be between %d and %d", models.MinSlotDurationMin, models.MaxSlotDurationMin)
	}
	if input.BufferMin < 0 || input.BufferMin > models.MaxBufferMin {
		return utils.NewValidationError("bufferMin must be between 0 and %d", models.MaxBufferMin)
	}
	return nil
}

// SetWeeklyAvailability replaces the provider's weekly template.
func (s *DefaultProviderService) SetWeeklyAvailability(ctx context.Context, actor models.Actor, providerUserID string, input models.WeeklyAvailabilityInput) (*models.WeeklyAvailability, error) {
	if err := validateWeeklyInput(input); err != nil {
		return nil, err
	}
	weekly, err := normalizeWeekly(input.Weekly)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, providerUserID); err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	now := s.now()
	saved, err := s.Repo.UpsertWeekly(ctx, &models.WeeklyAvailability{
		ID:              uuid.New().String(),
		ProviderUserID:  providerUserID,
		TimeZone:        input.TimeZone,
		SlotDurationMin: input.SlotDurationMin,
		BufferMin:       input.BufferMin,
		IsActive:        active,
		Weekly:          weekly,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to save weekly availability")
	}
	s.Logger.Info("Weekly availability saved",
		zap.String("providerUserId", providerUserID), zap.Bool("isActive", active))

	s.invalidate(ctx, providerUserID)
	return saved, nil
}

func (s *DefaultProviderService) GetWeeklyAvailability(ctx context.Context, providerUserID string) (*models.WeeklyAvailability, error) {
	weekly, err := s.Repo.GetWeekly(ctx, providerUserID)
	if errors.Is(err, availabilityRepo.ErrNotFound) {
		return nil, utils.NewNotFoundError("provider %s has no weekly availability", providerUserID)
	}
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to load weekly availability")
	}
	return weekly, nil
}

// DeactivateWeeklyAvailability stops slot generation without deleting the template.
func (s *DefaultProviderService) DeactivateWeeklyAvailability(ctx context.Context, actor models.Actor, providerUserID string) error {
	if err := requireOwner(actor, providerUserID); err != nil {
		return err
	}
	err := s.Repo.SetWeeklyActive(ctx, providerUserID, false, s.now())
	if errors.Is(err, availabilityRepo.ErrNotFound) {
		return utils.NewNotFoundError("provider %s has no weekly availability", providerUserID)
	}
	if err != nil {
		return utils.WrapInternal(err, "failed to deactivate weekly availability")
	}
	s.invalidate(ctx, providerUserID)
	return nil
}

// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"errors"
	"time"

	"slotwise/models"
)

// ErrNotFound is returned when no weekly availability or blackout matches.
var ErrNotFound = errors.New("availability record not found")

type AvailabilityRepository interface {
	GetWeekly(ctx context.Context, providerUserID string) (*models.WeeklyAvailability, error)
	// UpsertWeekly replaces the provider's weekly template, keeping its id and createdAt.
	UpsertWeekly(ctx context.Context, weekly *models.WeeklyAvailability) (*models.WeeklyAvailability, error)
	SetWeeklyActive(ctx context.Context, providerUserID string, active bool, now time.Time) error

	CreateBlackout(ctx context.Context, blackout *models.Blackout) error
	GetBlackoutByID(ctx context.Context, blackoutID string) (*models.Blackout, error)
	DeactivateBlackout(ctx context.Context, blackoutID string) error
	// FindActiveBlackouts returns active blackouts of the provider overlapping [start, end).
	FindActiveBlackouts(ctx context.Context, providerUserID string, start, end time.Time) ([]models.Blackout, error)
	// ListBlackouts returns all blackouts of the provider overlapping [start, end), inactive ones included.
	ListBlackouts(ctx context.Context, providerUserID string, start, end time.Time) ([]models.Blackout, error)
}

package provider

import (
	"context"
	"fmt"
	"time"

	availabilityRepo "slotwise/database/repository/availability"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

// AvailabilityService manages a provider's weekly template and blackouts.
type AvailabilityService interface {
	SetWeeklyAvailability(ctx context.Context, actor models.Actor, providerUserID string, input models.WeeklyAvailabilityInput) (*models.WeeklyAvailability, error)
	GetWeeklyAvailability(ctx context.Context, providerUserID string) (*models.WeeklyAvailability, error)
	DeactivateWeeklyAvailability(ctx context.Context, actor models.Actor, providerUserID string) error
	CreateBlackout(ctx context.Context, actor models.Actor, providerUserID string, input models.BlackoutInput) (*models.Blackout, error)
	RemoveBlackout(ctx context.Context, actor models.Actor, blackoutID string) error
	ListBlackouts(ctx context.Context, actor models.Actor, providerUserID string, from, to time.Time) ([]models.Blackout, error)
}

// CacheInvalidator drops cached slot listings for a provider.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, providerID string) error
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo   availabilityRepo.AvailabilityRepository
	Cache  CacheInvalidator
	Logger *zap.Logger
	Now    func() time.Time
}

func NewDefaultProviderService(
	repo availabilityRepo.AvailabilityRepository,
	cache CacheInvalidator,
	logger *zap.Logger,
) (*DefaultProviderService, error) {
	if repo == nil {
		return nil, fmt.Errorf("provider service initialization error: availability repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultProviderService{Repo: repo, Cache: cache, Logger: logger, Now: time.Now}, nil
}

var _ AvailabilityService = (*DefaultProviderService)(nil)

func (s *DefaultProviderService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultProviderService) invalidate(ctx context.Context, providerUserID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, providerUserID); err != nil {
		s.Logger.Warn("Failed to invalidate slot cache",
			zap.String("providerUserId", providerUserID), zap.Error(err))
	}
}

// requireOwner allows the provider itself or an admin.
func requireOwner(actor models.Actor, providerUserID string) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == models.RoleProvider && actor.UserID != "" && actor.UserID == providerUserID {
		return nil
	}
	return utils.NewForbiddenError("only provider %s or an admin may manage this availability", providerUserID)
}

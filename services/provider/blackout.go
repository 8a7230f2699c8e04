// File: services/provider/blackout.go
package provider

import (
	"context"
	"errors"
	"time"

	availabilityRepo "slotwise/database/repository/availability"
	"slotwise/models"
	"slotwise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBlackout blocks [startAt, endAt) for the provider. Overlapping another
// active blackout is a conflict.
func (s *DefaultProviderService) CreateBlackout(ctx context.Context, actor models.Actor, providerUserID string, input models.BlackoutInput) (*models.Blackout, error) {
	if input.StartAt.IsZero() || input.EndAt.IsZero() {
		return nil, utils.NewValidationError("startAt and endAt are required")
	}
	if !input.StartAt.Before(input.EndAt) {
		return nil, utils.NewValidationError("startAt must be before endAt")
	}
	if err := requireOwner(actor, providerUserID); err != nil {
		return nil, err
	}

	existing, err := s.Repo.FindActiveBlackouts(ctx, providerUserID, input.StartAt, input.EndAt)
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to check blackouts")
	}
	if len(existing) > 0 {
		return nil, utils.NewConflictError("blackout overlaps existing blackout %s", existing[0].ID)
	}

	blackout := &models.Blackout{
		ID:             uuid.New().String(),
		ProviderUserID: providerUserID,
		StartAt:        input.StartAt.UTC(),
		EndAt:          input.EndAt.UTC(),
		Reason:         input.Reason,
		IsActive:       true,
		CreatedAt:      s.now(),
	}
	if err := s.Repo.CreateBlackout(ctx, blackout); err != nil {
		return nil, utils.WrapInternal(err, "failed to save blackout")
	}
	s.Logger.Info("Blackout created",
		zap.String("blackoutID", blackout.ID),
		zap.String("providerUserId", providerUserID),
		zap.Time("startAt", blackout.StartAt),
		zap.Time("endAt", blackout.EndAt))

	s.invalidate(ctx, providerUserID)
	return blackout, nil
}

// RemoveBlackout deactivates a blackout. Unknown ids and blackouts of other
// providers are both reported as not found.
func (s *DefaultProviderService) RemoveBlackout(ctx context.Context, actor models.Actor, blackoutID string) error {
	blackout, err := s.Repo.GetBlackoutByID(ctx, blackoutID)
	if errors.Is(err, availabilityRepo.ErrNotFound) {
		return utils.NewNotFoundError("blackout %s not found", blackoutID)
	}
	if err != nil {
		return utils.WrapInternal(err, "failed to load blackout")
	}
	if requireOwner(actor, blackout.ProviderUserID) != nil {
		return utils.NewNotFoundError("blackout %s not found", blackoutID)
	}
	if !blackout.IsActive {
		return nil
	}

	if err := s.Repo.DeactivateBlackout(ctx, blackoutID); err != nil {
		return utils.WrapInternal(err, "failed to remove blackout")
	}
	s.invalidate(ctx, blackout.ProviderUserID)
	return nil
}

func (s *DefaultProviderService) ListBlackouts(ctx context.Context, actor models.Actor, providerUserID string, from, to time.Time) ([]models.Blackout, error) {
	if err := requireOwner(actor, providerUserID); err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, utils.NewValidationError("from must be before to")
	}
	blackouts, err := s.Repo.ListBlackouts(ctx, providerUserID, from, to)
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to list blackouts")
	}
	return blackouts, nil
}

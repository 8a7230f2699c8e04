package booking

import (
	"errors"

	schedulerRepo "slotwise/database/repository/scheduler"
	"slotwise/utils"
)

// translateRepoErr maps persistence sentinels onto service error kinds.
func translateRepoErr(err error, bookingID string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, schedulerRepo.ErrNotFound):
		return utils.NewNotFoundError("booking %s not found", bookingID)
	case errors.Is(err, schedulerRepo.ErrOverlap):
		return utils.NewConflictError("requested time is no longer free")
	case errors.Is(err, schedulerRepo.ErrWriteConflict):
		return utils.NewConflictError("booking was modified concurrently, retry")
	case errors.Is(err, schedulerRepo.ErrStatusMismatch):
		return utils.NewConflictError("booking %s is no longer confirmed", bookingID)
	default:
		return utils.WrapInternal(err, "booking storage failure")
	}
}

func translateLockErr(err error, providerID string) error {
	if errors.Is(err, utils.ErrLockHeld) {
		return utils.NewConflictError("another booking for provider %s is in progress, retry", providerID)
	}
	return utils.WrapInternal(err, "failed to acquire provider lock")
}

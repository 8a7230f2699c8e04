package booking

import (
	"context"
	"strings"

	schedulerRepo "slotwise/database/repository/scheduler"
	"slotwise/models"
	"slotwise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validateCreate(input models.CreateBookingInput) error {
	var missing []string
	if strings.TrimSpace(input.RequestID) == "" {
		missing = append(missing, "requestId")
	}
	if strings.TrimSpace(input.ResponseID) == "" {
		missing = append(missing, "responseId")
	}
	if strings.TrimSpace(input.ProviderUserID) == "" {
		missing = append(missing, "providerUserId")
	}
	if input.StartAt.IsZero() {
		missing = append(missing, "startAt")
	}
	if len(missing) > 0 {
		return utils.NewValidationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	if input.DurationMin < models.MinSlotDurationMin || input.DurationMin > models.MaxSlotDurationMin {
		return utils.NewValidationError("durationMin must be between %d and %d", models.MinSlotDurationMin, models.MaxSlotDurationMin)
	}
	return nil
}

// CreateBooking books [startAt, startAt+durationMin) for the calling client if
// it exactly matches a free slot. The client defaults to the actor.
func (se *DefaultSchedulingEngine) CreateBooking(ctx context.Context, actor models.Actor, input models.CreateBookingInput) (*models.Booking, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	if input.ClientID == "" && actor.Role == models.RoleClient {
		input.ClientID = actor.UserID
	}
	if !allowed(opCreate, capabilitiesOf(actor, input.ClientID, input.ProviderUserID)) {
		return nil, utils.NewForbiddenError("only the booking client may create a booking")
	}

	release, err := se.lockProvider(ctx, input.ProviderUserID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := se.requireFreeSlot(ctx, input.ProviderUserID, input.StartAt, input.DurationMin, ""); err != nil {
		return nil, err
	}

	now := se.now()
	booking := &models.Booking{
		ID:             uuid.New().String(),
		RequestID:      input.RequestID,
		ResponseID:     input.ResponseID,
		ProviderUserID: input.ProviderUserID,
		ClientID:       input.ClientID,
		Status:         models.BookingStatusConfirmed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	booking.SetInterval(input.StartAt, input.DurationMin)

	if err := se.Repo.InsertIfNoOverlap(ctx, booking); err != nil {
		return nil, translateRepoErr(err, booking.ID)
	}
	se.log().Info("Booking created",
		zap.String("bookingID", booking.ID),
		zap.String("providerUserId", booking.ProviderUserID),
		zap.Time("startAt", booking.StartAt))

	se.afterWrite(ctx, booking.ProviderUserID, booking)
	return booking, nil
}

// loadAuthorized fetches the booking and checks op against the permission table.
func (se *DefaultSchedulingEngine) loadAuthorized(ctx context.Context, op operation, actor models.Actor, bookingID string) (*models.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, utils.NewValidationError("booking id is required")
	}
	booking, err := se.Repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, translateRepoErr(err, bookingID)
	}
	if err := authorize(op, actor, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking moves a confirmed booking to cancelled on behalf of a party or admin.
func (se *DefaultSchedulingEngine) CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error) {
	booking, err := se.loadAuthorized(ctx, opCancel, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsTerminal() {
		return nil, utils.NewConflictError("booking %s is already %s", bookingID, booking.Status)
	}

	now := se.now()
	updated, err := se.Repo.UpdateStatus(ctx, bookingID, models.BookingStatusConfirmed, models.BookingPatch{
		Status:       models.BookingStatusCancelled,
		CancelledAt:  &now,
		CancelledBy:  actor.Role,
		CancelReason: reason,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, translateRepoErr(err, bookingID)
	}
	se.log().Info("Booking cancelled",
		zap.String("bookingID", bookingID), zap.String("cancelledBy", actor.Role))

	se.afterWrite(ctx, updated.ProviderUserID, nil)
	return updated, nil
}

// CompleteBooking marks a confirmed booking completed. Provider owner or admin only.
func (se *DefaultSchedulingEngine) CompleteBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	booking, err := se.loadAuthorized(ctx, opComplete, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, utils.NewConflictError("booking %s is %s, not confirmed", bookingID, booking.Status)
	}

	updated, err := se.Repo.UpdateStatus(ctx, bookingID, models.BookingStatusConfirmed, models.BookingPatch{
		Status:    models.BookingStatusCompleted,
		UpdatedAt: se.now(),
	})
	if err != nil {
		return nil, translateRepoErr(err, bookingID)
	}
	se.log().Info("Booking completed", zap.String("bookingID", bookingID))
	return updated, nil
}

// RescheduleBooking replaces a confirmed booking with a new one at newStartAt.
// The new booking is inserted and the old one superseded in a single unit.
func (se *DefaultSchedulingEngine) RescheduleBooking(ctx context.Context, actor models.Actor, bookingID string, input models.RescheduleInput) (*models.RescheduleResult, error) {
	if input.NewStartAt.IsZero() {
		return nil, utils.NewValidationError("newStartAt is required")
	}
	if d := input.NewDurationMin; d != nil && (*d < models.MinSlotDurationMin || *d > models.MaxSlotDurationMin) {
		return nil, utils.NewValidationError("newDurationMin must be between %d and %d", models.MinSlotDurationMin, models.MaxSlotDurationMin)
	}

	old, err := se.loadAuthorized(ctx, opReschedule, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if old.Status != models.BookingStatusConfirmed {
		return nil, utils.NewConflictError("booking %s is %s, only confirmed bookings can be rescheduled", bookingID, old.Status)
	}

	durationMin := old.DurationMin
	if input.NewDurationMin != nil {
		durationMin = *input.NewDurationMin
	}

	release, err := se.lockProvider(ctx, old.ProviderUserID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := se.requireFreeSlot(ctx, old.ProviderUserID, input.NewStartAt, durationMin, old.ID); err != nil {
		return nil, err
	}

	now := se.now()
	next := &models.Booking{
		ID:                uuid.New().String(),
		RequestID:         old.RequestID,
		ResponseID:        old.ResponseID,
		ProviderUserID:    old.ProviderUserID,
		ClientID:          old.ClientID,
		Status:            models.BookingStatusConfirmed,
		RescheduledFromID: old.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	next.SetInterval(input.NewStartAt, durationMin)

	patch := models.BookingPatch{
		Status:           models.BookingStatusCancelled,
		RescheduledToID:  next.ID,
		RescheduledAt:    &now,
		RescheduleReason: input.Reason,
		UpdatedAt:        now,
	}
	superseded, err := se.Repo.Reschedule(ctx, old.ID, patch, next)
	if err != nil {
		return nil, translateRepoErr(err, old.ID)
	}
	se.log().Info("Booking rescheduled",
		zap.String("fromBookingID", superseded.ID),
		zap.String("toBookingID", next.ID),
		zap.Time("startAt", next.StartAt))

	se.afterWrite(ctx, next.ProviderUserID, next)
	return &models.RescheduleResult{Old: superseded, New: next}, nil
}

// GetBooking returns a booking visible to the actor.
func (se *DefaultSchedulingEngine) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return se.loadAuthorized(ctx, opView, actor, bookingID)
}

// ListBookings lists the actor's own bookings, newest first. Admins must name a provider.
func (se *DefaultSchedulingEngine) ListBookings(ctx context.Context, actor models.Actor, query ListQuery) ([]models.Booking, error) {
	switch query.Status {
	case "", models.BookingStatusConfirmed, models.BookingStatusCancelled, models.BookingStatusCompleted:
	default:
		return nil, utils.NewValidationError("unknown status %q", query.Status)
	}

	filter := schedulerRepo.ListFilter{Status: query.Status, Limit: query.Limit}
	switch actor.Role {
	case models.RoleClient:
		filter.ClientID = actor.UserID
	case models.RoleProvider:
		filter.ProviderUserID = actor.UserID
	case models.RoleAdmin:
		if query.ProviderUserID == "" {
			return nil, utils.NewValidationError("providerUserId is required for admins")
		}
		filter.ProviderUserID = query.ProviderUserID
	default:
		return nil, utils.NewForbiddenError("unknown role %q", actor.Role)
	}

	bookings, err := se.Repo.ListBookings(ctx, filter)
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to list bookings")
	}
	return bookings, nil
}

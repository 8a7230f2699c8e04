package booking

import (
	"context"
	"errors"

	schedulerRepo "slotwise/database/repository/scheduler"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

// chainWalker resolves reschedule links by id, remembering what it has loaded.
type chainWalker struct {
	repo     schedulerRepo.SchedulerRepository
	loaded   map[string]*models.Booking
	maxDepth int
}

func (w *chainWalker) get(ctx context.Context, id, linkedFrom string) (*models.Booking, error) {
	if b, ok := w.loaded[id]; ok {
		return b, nil
	}
	b, err := w.repo.GetBookingByID(ctx, id)
	if errors.Is(err, schedulerRepo.ErrNotFound) {
		return nil, utils.NewChainCorruptionError("booking %s links to missing booking %s", linkedFrom, id)
	}
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to load reschedule chain")
	}
	w.loaded[id] = b
	return b, nil
}

// root follows rescheduledFromId back to the booking with no incoming link.
func (w *chainWalker) root(ctx context.Context, start *models.Booking) (*models.Booking, error) {
	seen := map[string]bool{start.ID: true}
	cur := start
	for steps := 0; cur.RescheduledFromID != ""; steps++ {
		if steps >= w.maxDepth {
			return nil, utils.NewChainCorruptionError("reschedule chain of %s exceeds %d links", start.ID, w.maxDepth)
		}
		prev, err := w.get(ctx, cur.RescheduledFromID, cur.ID)
		if err != nil {
			return nil, err
		}
		if seen[prev.ID] {
			return nil, utils.NewChainCorruptionError("reschedule chain of %s loops at %s", start.ID, prev.ID)
		}
		seen[prev.ID] = true
		cur = prev
	}
	return cur, nil
}

// forward collects root and its rescheduledToId successors, oldest first.
func (w *chainWalker) forward(ctx context.Context, root *models.Booking) ([]models.Booking, error) {
	seen := map[string]bool{root.ID: true}
	items := []models.Booking{*root}
	cur := root
	for cur.RescheduledToID != "" {
		if len(items) > w.maxDepth {
			return nil, utils.NewChainCorruptionError("reschedule chain from %s exceeds %d links", root.ID, w.maxDepth)
		}
		next, err := w.get(ctx, cur.RescheduledToID, cur.ID)
		if err != nil {
			return nil, err
		}
		if seen[next.ID] {
			return nil, utils.NewChainCorruptionError("reschedule chain from %s loops at %s", root.ID, next.ID)
		}
		seen[next.ID] = true
		items = append(items, *next)
		cur = next
	}
	return items, nil
}

// GetHistory returns the full reschedule chain containing bookingID.
func (se *DefaultSchedulingEngine) GetHistory(ctx context.Context, actor models.Actor, bookingID string) (*models.BookingHistory, error) {
	requested, err := se.loadAuthorized(ctx, opView, actor, bookingID)
	if err != nil {
		return nil, err
	}

	w := &chainWalker{
		repo:     se.Repo,
		loaded:   map[string]*models.Booking{requested.ID: requested},
		maxDepth: se.Options.maxHistoryDepth(),
	}
	root, err := w.root(ctx, requested)
	if err != nil {
		return nil, se.chainFailure(bookingID, err)
	}
	items, err := w.forward(ctx, root)
	if err != nil {
		return nil, se.chainFailure(bookingID, err)
	}
	return buildHistory(requested.ID, items), nil
}

func (se *DefaultSchedulingEngine) chainFailure(bookingID string, err error) error {
	if utils.IsKind(err, utils.KindChainCorruption) {
		se.log().Error("Reschedule chain is corrupted",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
	return err
}

func buildHistory(requestedID string, items []models.Booking) *models.BookingHistory {
	current := -1
	for i := range items {
		if items[i].ID == requestedID {
			current = i
			break
		}
	}
	return &models.BookingHistory{
		RootID:       items[0].ID,
		RequestedID:  requestedID,
		LatestID:     items[len(items)-1].ID,
		CurrentIndex: current,
		Items:        items,
	}
}

package availabilityRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"slotwise/models"
)

// MemoryAvailabilityRepo is a process-local AvailabilityRepository.
type MemoryAvailabilityRepo struct {
	mu        sync.RWMutex
	weekly    map[string]models.WeeklyAvailability
	blackouts map[string]models.Blackout
}

func NewMemoryAvailabilityRepo() *MemoryAvailabilityRepo {
	return &MemoryAvailabilityRepo{
		weekly:    make(map[string]models.WeeklyAvailability),
		blackouts: make(map[string]models.Blackout),
	}
}

func (r *MemoryAvailabilityRepo) GetWeekly(_ context.Context, providerUserID string) (*models.WeeklyAvailability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.weekly[providerUserID]
	if !ok {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (r *MemoryAvailabilityRepo) UpsertWeekly(_ context.Context, weekly *models.WeeklyAvailability) (*models.WeeklyAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *weekly
	if existing, ok := r.weekly[weekly.ProviderUserID]; ok {
		saved.ID = existing.ID
		saved.CreatedAt = existing.CreatedAt
	}
	r.weekly[weekly.ProviderUserID] = saved
	return &saved, nil
}

func (r *MemoryAvailabilityRepo) SetWeeklyActive(_ context.Context, providerUserID string, active bool, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.weekly[providerUserID]
	if !ok {
		return ErrNotFound
	}
	w.IsActive = active
	w.UpdatedAt = now
	r.weekly[providerUserID] = w
	return nil
}

func (r *MemoryAvailabilityRepo) CreateBlackout(_ context.Context, blackout *models.Blackout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blackouts[blackout.ID] = *blackout
	return nil
}

func (r *MemoryAvailabilityRepo) GetBlackoutByID(_ context.Context, blackoutID string) (*models.Blackout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blackouts[blackoutID]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryAvailabilityRepo) DeactivateBlackout(_ context.Context, blackoutID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blackouts[blackoutID]
	if !ok {
		return ErrNotFound
	}
	b.IsActive = false
	r.blackouts[blackoutID] = b
	return nil
}

func (r *MemoryAvailabilityRepo) collect(providerUserID string, start, end time.Time, activeOnly bool) []models.Blackout {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Blackout{}
	for _, b := range r.blackouts {
		if b.ProviderUserID != providerUserID || (activeOnly && !b.IsActive) {
			continue
		}
		if b.StartAt.Before(end) && start.Before(b.EndAt) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out
}

func (r *MemoryAvailabilityRepo) FindActiveBlackouts(_ context.Context, providerUserID string, start, end time.Time) ([]models.Blackout, error) {
	return r.collect(providerUserID, start, end, true), nil
}

func (r *MemoryAvailabilityRepo) ListBlackouts(_ context.Context, providerUserID string, start, end time.Time) ([]models.Blackout, error) {
	return r.collect(providerUserID, start, end, false), nil
}

package availability

import (
	"fmt"
	"sort"
	"time"

	"slotwise/models"
)

// SlotInput is everything slot generation depends on. Generation is pure: equal
// inputs always produce equal output.
type SlotInput struct {
	Availability models.WeeklyAvailability
	Blackouts    []models.Blackout
	Bookings     []models.Booking
	From         time.Time // civil date, see ParseDate
	To           time.Time // civil date, inclusive
	Location     *time.Location
}

// GenerateSlots cuts the working intervals into slotDurationMin slots separated
// by bufferMin and drops every slot that overlaps an active blackout or a
// non-cancelled booking. Overlapping slots are removed whole, never truncated.
func GenerateSlots(in SlotInput) ([]models.Slot, error) {
	av := in.Availability
	if av.SlotDurationMin <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", av.SlotDurationMin)
	}
	if av.BufferMin < 0 {
		return nil, fmt.Errorf("buffer must not be negative, got %d", av.BufferMin)
	}

	working, err := WorkingIntervals(av.Weekly, in.Location, in.From, in.To)
	if err != nil {
		return nil, err
	}

	busy := BusySet(in.Blackouts, in.Bookings)
	duration := time.Duration(av.SlotDurationMin) * time.Minute
	step := duration + time.Duration(av.BufferMin)*time.Minute

	slots := make([]models.Slot, 0)
	for _, w := range working {
		for start := w.Start; !start.Add(duration).After(w.End); start = start.Add(step) {
			candidate := Interval{Start: start, End: start.Add(duration)}
			if busy.OverlapsAny(candidate) {
				continue
			}
			slots = append(slots, models.Slot{StartAt: candidate.Start.UTC(), EndAt: candidate.End.UTC()})
		}
	}

	// keep the listing strictly ordered and free of duplicates.
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartAt.Before(slots[j].StartAt)
	})
	return dedupeSlots(slots), nil
}

// BusySet builds the interval set of active blackouts and non-cancelled bookings.
func BusySet(blackouts []models.Blackout, bookings []models.Booking) Set {
	busy := make([]Interval, 0, len(blackouts)+len(bookings))
	for _, b := range blackouts {
		if b.IsActive {
			busy = append(busy, Interval{Start: b.StartAt, End: b.EndAt})
		}
	}
	for _, b := range bookings {
		if b.Status != models.BookingStatusCancelled {
			busy = append(busy, Interval{Start: b.StartAt, End: b.EndAt})
		}
	}
	return NewSet(busy)
}

func dedupeSlots(slots []models.Slot) []models.Slot {
	if len(slots) < 2 {
		return slots
	}
	out := slots[:1]
	for _, s := range slots[1:] {
		last := out[len(out)-1]
		if s.StartAt.Equal(last.StartAt) && s.EndAt.Equal(last.EndAt) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ContainsSlot reports whether slots has an entry exactly matching [start, end).
func ContainsSlot(slots []models.Slot, start, end time.Time) bool {
	i := sort.Search(len(slots), func(i int) bool {
		return !slots[i].StartAt.Before(start)
	})
	for ; i < len(slots) && slots[i].StartAt.Equal(start); i++ {
		if slots[i].EndAt.Equal(end) {
			return true
		}
	}
	return false
}

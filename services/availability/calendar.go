package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"slotwise/models"
)

const dateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" calendar date as UTC midnight. The result
// names a civil date only; it is never used as an instant.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseClock parses "HH:MM" into minutes after midnight. "24:00" is accepted
// so a window can run to the end of the day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}

// ResolveLocal maps a wall-clock time on a civil date in loc to a UTC instant.
//
// A wall time inside a spring-forward gap has no mapping and ok is false. A
// wall time repeated by a fall-back transition resolves to the later instant,
// which is the one observed under the standard offset. time.Date's own
// normalization is not relied upon for either case.
func ResolveLocal(date time.Time, minutes int, loc *time.Location) (instant time.Time, ok bool) {
	wall := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(minutes) * time.Minute)

	var offsets []int
	for _, probe := range []time.Duration{-24 * time.Hour, -12 * time.Hour, 0, 12 * time.Hour, 24 * time.Hour} {
		_, off := wall.Add(probe).In(loc).Zone()
		if !containsInt(offsets, off) {
			offsets = append(offsets, off)
		}
	}

	for _, off := range offsets {
		candidate := wall.Add(-time.Duration(off) * time.Second)
		if _, actual := candidate.In(loc).Zone(); actual != off {
			continue
		}
		if !ok || candidate.After(instant) {
			instant = candidate
			ok = true
		}
	}
	return instant, ok
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// WorkingIntervals expands the weekly template over the inclusive civil date
// range [from, to] in loc. One interval is produced per configured range per
// matching date; an occurrence whose start or end falls into a DST gap is
// skipped for that date only. Output is sorted by start.
func WorkingIntervals(weekly []models.DaySchedule, loc *time.Location, from, to time.Time) ([]Interval, error) {
	if loc == nil {
		return nil, fmt.Errorf("time zone is required")
	}

	byDay := make(map[int][]models.TimeRange, len(weekly))
	for _, day := range weekly {
		byDay[day.DayOfWeek] = append(byDay[day.DayOfWeek], day.Ranges...)
	}

	var out []Interval
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		for _, r := range byDay[int(d.Weekday())] {
			startMin, err := ParseClock(r.Start)
			if err != nil {
				return nil, err
			}
			endMin, err := ParseClock(r.End)
			if err != nil {
				return nil, err
			}
			if startMin >= endMin {
				return nil, fmt.Errorf("range %s-%s: start must be before end", r.Start, r.End)
			}

			start, ok := ResolveLocal(d, startMin, loc)
			if !ok {
				continue
			}
			end, ok := ResolveLocal(d, endMin, loc)
			if !ok || !start.Before(end) {
				continue
			}
			out = append(out, Interval{Start: start, End: end})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

package availability

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) span of instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the interval contains no instant.
func (iv Interval) Empty() bool {
	return !iv.Start.Before(iv.End)
}

// Overlaps is the half-open overlap test.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Normalize sorts intervals by start and merges overlapping or adjacent ones.
// Empty intervals are dropped. The input slice is not modified.
func Normalize(list []Interval) []Interval {
	sorted := make([]Interval, 0, len(list))
	for _, iv := range list {
		if !iv.Empty() {
			sorted = append(sorted, iv)
		}
	}
	if len(sorted) == 0 {
		return []Interval{}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Subtract returns base minus every removal, splitting partially covered
// intervals. The result is normalized.
func Subtract(base, removals []Interval) []Interval {
	b := Normalize(base)
	r := Normalize(removals)
	out := make([]Interval, 0, len(b))

	j := 0
	for _, iv := range b {
		cur := iv
		for j < len(r) && !r[j].End.After(cur.Start) {
			j++
		}
		k := j
		for k < len(r) && r[k].Start.Before(cur.End) {
			if r[k].Start.After(cur.Start) {
				out = append(out, Interval{Start: cur.Start, End: r[k].Start})
			}
			if r[k].End.After(cur.Start) {
				cur.Start = r[k].End
			}
			if cur.Empty() {
				break
			}
			k++
		}
		if !cur.Empty() {
			out = append(out, cur)
		}
	}
	return out
}

// Set is a normalized interval list supporting fast overlap queries.
type Set struct {
	items []Interval
}

func NewSet(list []Interval) Set {
	return Set{items: Normalize(list)}
}

func (s Set) Intervals() []Interval {
	return s.items
}

// OverlapsAny reports whether iv overlaps any member of the set.
func (s Set) OverlapsAny(iv Interval) bool {
	if iv.Empty() {
		return false
	}
	// First member whose end is after iv.Start; members are disjoint and sorted.
	i := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].End.After(iv.Start)
	})
	return i < len(s.items) && s.items[i].Start.Before(iv.End)
}

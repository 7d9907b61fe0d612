// Package schedule computes free appointment slots within a working-day
// window by subtracting busy intervals reported by the calendar.
package schedule

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share any instant:
// [a,b) and [c,d) overlap iff max(a,c) < min(b,d).
func (iv Interval) Overlaps(other Interval) bool {
	return laterOf(iv.Start, other.Start).Before(earlierOf(iv.End, other.End))
}

// Normalize returns busy intervals sorted by start with overlapping or
// touching intervals merged. Empty and inverted intervals are dropped.
// The sweep in FreeSlots is order independent once its input has been
// normalized.
func Normalize(busy []Interval) []Interval {
	cleaned := make([]Interval, 0, len(busy))
	for _, iv := range busy {
		if iv.Start.Before(iv.End) {
			cleaned = append(cleaned, iv)
		}
	}
	sort.Slice(cleaned, func(i, j int) bool {
		return cleaned[i].Start.Before(cleaned[j].Start)
	})

	var merged []Interval
	for _, iv := range cleaned {
		if n := len(merged); n > 0 && !iv.Start.After(merged[n-1].End) {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Window is the span of a single working day within which appointment
// slots may be offered.
type Window struct {
	Start time.Time
	End   time.Time
}

// FreeSlots returns the start time of every duration-long slot that lies
// entirely inside the window and does not overlap any busy interval.
//
// The cursor sweeps forward from the window start in steps of the
// duration. When a candidate slot hits a busy interval the cursor jumps
// to that interval's end instead of the next step, so a known-busy region
// is never re-tested, and the overlap scan restarts there. Busy intervals
// are compared as-is; nothing is clipped to the window first. A slot that
// would run past the window end is never emitted.
func (w Window) FreeSlots(duration time.Duration, busy []Interval) []time.Time {
	if duration <= 0 {
		return nil
	}

	var slots []time.Time
	cursor := w.Start
	for !cursor.Add(duration).After(w.End) {
		candidate := Interval{Start: cursor, End: cursor.Add(duration)}
		free := true
		for _, b := range busy {
			if candidate.Overlaps(b) {
				// Overlap guarantees b.End is after the cursor, so the
				// sweep always moves forward.
				cursor = b.End
				free = false
				break
			}
		}
		if free {
			slots = append(slots, cursor)
			cursor = cursor.Add(duration)
		}
	}
	return slots
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

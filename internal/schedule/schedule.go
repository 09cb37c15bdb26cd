// Package schedule finds open meeting slots between busy calendar intervals.
package schedule

import (
	"sort"
	"time"
)

// MaxSuggestions caps how many candidate slots a single sweep returns.
const MaxSuggestions = 5

// Interval is a busy period on a calendar.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Slot is a suggested meeting time. End is always Start plus the requested
// duration; AvailableDuration reports how many minutes the surrounding gap
// actually offers.
type Slot struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	AvailableDuration float64   `json:"availableDuration"`
}

// SuggestSlots returns up to MaxSuggestions free slots of at least duration
// within [windowStart, windowEnd], earliest first.
//
// Only intervals whose start falls inside the window count as busy. An
// interval that starts before the window but ends inside it is ignored, so
// its tail does not block the gap it overlaps. Callers that want stricter
// behavior must clamp their inputs first.
//
// Overlapping intervals need no explicit merge: the cursor only ever moves
// forward, so a busy period swallowed by an earlier one contributes nothing.
func SuggestSlots(busy []Interval, windowStart, windowEnd time.Time, duration time.Duration) []Slot {
	filtered := make([]Interval, 0, len(busy))
	for _, iv := range busy {
		if !iv.Start.Before(windowStart) && !iv.Start.After(windowEnd) {
			filtered = append(filtered, iv)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Start.Before(filtered[j].Start)
	})

	suggestions := make([]Slot, 0, MaxSuggestions)
	cursor := windowStart

	emit := func(gapEnd time.Time) {
		gap := gapEnd.Sub(cursor)
		if gap >= duration && len(suggestions) < MaxSuggestions {
			suggestions = append(suggestions, Slot{
				Start:             cursor,
				End:               cursor.Add(duration),
				AvailableDuration: gap.Minutes(),
			})
		}
	}

	for _, iv := range filtered {
		if iv.Start.After(cursor) {
			emit(iv.Start)
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}

	// Residual gap between the last busy period and the window end.
	if windowEnd.After(cursor) {
		emit(windowEnd)
	}

	return suggestions
}

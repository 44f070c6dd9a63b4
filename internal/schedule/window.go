package schedule

import (
	"fmt"
	"time"
)

// Chronological returns a reversed copy of weeks. Historical windows are
// queried newest-first and must be flipped before positional labeling.
func Chronological(weeks []WeekEnding) []WeekEnding {
	out := make([]WeekEnding, len(weeks))
	for i, w := range weeks {
		out[len(weeks)-1-i] = w
	}
	return out
}

// Labeled assigns positional labels W1..Wk to an already chronological window.
func Labeled(weeks []WeekEnding) []LabeledWeek {
	out := make([]LabeledWeek, len(weeks))
	for i, w := range weeks {
		out[i] = LabeledWeek{ID: w.ID, Date: w.Date, Label: fmt.Sprintf("W%d", i+1)}
	}
	return out
}

// DateLabel renders the date-suffixed variant of the positional label,
// e.g. "Week 1 (Jan 7)". Same index rule as Labeled, different presentation.
func DateLabel(i int, date time.Time) string {
	return fmt.Sprintf("Week %d (%s)", i+1, date.Format("Jan 2"))
}

// IDs extracts the week ending ids preserving order.
func IDs(weeks []WeekEnding) []int64 {
	ids := make([]int64, len(weeks))
	for i, w := range weeks {
		ids[i] = w.ID
	}
	return ids
}

package schedule

import "time"

// WeekEnding marks the closing date of a work week. It is the universal
// time axis: every forecast and actual hour total is keyed by its id.
type WeekEnding struct {
	ID   int64
	Date time.Time
}

// LabeledWeek pairs a week ending with its positional chart label.
type LabeledWeek struct {
	ID    int64     `json:"id"`
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

package timesheet

import "time"

// Timesheet statuses as stored in the timesheets table.
const (
	StatusDraft     = "Draft"
	StatusSubmitted = "Submitted"
)

// Entry is one logged block of actual hours with its billability and project
// already resolved through the bill code chain (bill_code -> work_item ->
// code -> project). Billability of actuals comes from this chain, never from
// a forecast category; the asymmetry is part of the data model. When any hop
// of the chain is missing the entry keeps ProjectID nil: it still counts
// toward totals, just not toward any per-project bucket.
type Entry struct {
	ID          int64
	TimesheetID int64
	UserID      int64
	WeekID      int64
	Hours       float64
	WorkDate    time.Time
	Billable    bool
	ProjectID   *int64
	ProjectName string
}

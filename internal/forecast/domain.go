package forecast

import "time"

// Category assignment types as stored in the categories table.
const (
	AssignmentProductive    = "Productive"
	AssignmentNonProductive = "Non-Productive"
)

// BillableCategoryName is the category name that marks forecast hours as
// billable. Billability of forecast entries is decided by exact string
// equality on the category name; the data model encodes it in free text,
// so this must not be widened to a case-insensitive or enum comparison.
const BillableCategoryName = "Billable"

// IsBillableCategory reports whether a category name marks billable work.
// The single call site for the string comparison.
func IsBillableCategory(name string) bool {
	return name == BillableCategoryName
}

// Plan is a versioned set of planned assignments owned by one user. A nil
// SubmittedAt means draft; drafts are never aggregated.
type Plan struct {
	ID          int64
	UserID      int64
	CreatedAt   time.Time
	SubmittedAt *time.Time
	Entries     []Entry
}

// Entry is one planned assignment inside a plan.
type Entry struct {
	ID                 int64
	PlanID             int64
	CategoryID         int64
	CategoryName       string
	ProjectID          *int64
	ProjectName        string
	FromDate           time.Time
	ToDate             time.Time
	HoursPerWeek       float64
	PotentialExtension *time.Time
	Breakdowns         []WeeklyBreakdown
}

// WeeklyBreakdown is the finest-grained forecast fact: hours for one entry
// in one week.
type WeeklyBreakdown struct {
	WeekEndingID int64
	Hours        float64
}

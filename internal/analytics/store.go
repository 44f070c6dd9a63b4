package analytics

import (
	"context"
	"time"

	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/timesheet"
	"github.com/crewplan/crewplan/internal/users"
)

// SQLStore satisfies Store by composing the per-domain repositories.
type SQLStore struct {
	users      *users.Repository
	schedule   *schedule.Repository
	forecasts  *forecast.Repository
	timesheets *timesheet.Repository
}

// NewSQLStore wires the repositories into one analytics read surface.
func NewSQLStore(u *users.Repository, s *schedule.Repository, f *forecast.Repository, t *timesheet.Repository) *SQLStore {
	return &SQLStore{users: u, schedule: s, forecasts: f, timesheets: t}
}

func (s *SQLStore) ManagedUserIDs(ctx context.Context, managerID int64) ([]int64, error) {
	return s.users.ManagedUserIDs(ctx, managerID)
}

func (s *SQLStore) IsManagerOf(ctx context.Context, managerID, userID int64) (bool, error) {
	return s.users.IsManagerOf(ctx, userID, managerID)
}

func (s *SQLStore) UserProfile(ctx context.Context, userID int64) (users.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *SQLStore) UserProfiles(ctx context.Context, userIDs []int64) (map[int64]users.User, error) {
	return s.users.GetMany(ctx, userIDs)
}

func (s *SQLStore) FutureWeeks(ctx context.Context, from time.Time, n int) ([]schedule.WeekEnding, error) {
	return s.schedule.FutureWeeks(ctx, from, n)
}

func (s *SQLStore) HistoricalWeeks(ctx context.Context, until time.Time, n int) ([]schedule.WeekEnding, error) {
	return s.schedule.HistoricalWeeks(ctx, until, n)
}

func (s *SQLStore) SubmittedPlans(ctx context.Context, userIDs, weekIDs []int64) ([]forecast.Plan, error) {
	return s.forecasts.SubmittedPlans(ctx, userIDs, weekIDs)
}

func (s *SQLStore) TimesheetEntries(ctx context.Context, userIDs, weekIDs []int64) ([]timesheet.Entry, error) {
	return s.timesheets.Entries(ctx, userIDs, weekIDs)
}

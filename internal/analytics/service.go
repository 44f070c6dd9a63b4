package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/timesheet"
	"github.com/crewplan/crewplan/internal/users"
)

const (
	// DefaultWeeks is the window length used when the caller does not ask
	// for a specific one.
	DefaultWeeks = 12
	// MaxWeeks caps the window length a single request may load.
	MaxWeeks = 52
)

// Store is the read surface the analytics assemblers depend on.
type Store interface {
	ManagedUserIDs(ctx context.Context, managerID int64) ([]int64, error)
	IsManagerOf(ctx context.Context, managerID, userID int64) (bool, error)
	UserProfile(ctx context.Context, userID int64) (users.User, error)
	UserProfiles(ctx context.Context, userIDs []int64) (map[int64]users.User, error)
	FutureWeeks(ctx context.Context, from time.Time, n int) ([]schedule.WeekEnding, error)
	HistoricalWeeks(ctx context.Context, until time.Time, n int) ([]schedule.WeekEnding, error)
	SubmittedPlans(ctx context.Context, userIDs []int64, weekIDs []int64) ([]forecast.Plan, error)
	TimesheetEntries(ctx context.Context, userIDs []int64, weekIDs []int64) ([]timesheet.Entry, error)
}

// Service assembles the analytics views from forecast and timesheet data.
// Every public method degrades to an empty result on storage failure so a
// partial dashboard still renders.
type Service struct {
	store  Store
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the Store with the cache helper.
func NewService(store Store, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, logger: logger, now: time.Now}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// ClampWeeks normalizes a requested window length into the allowed range.
func ClampWeeks(weeks int) int {
	if weeks <= 0 {
		return DefaultWeeks
	}
	if weeks > MaxWeeks {
		return MaxWeeks
	}
	return weeks
}

// fail logs a storage error and signals the caller to fall back to the
// neutral result for its view.
func (s *Service) fail(op string, managerID int64, err error) {
	s.logger.Error("analytics query degraded", "op", op, "manager_id", managerID, "error", err)
}

// futureWindow loads the next n week endings starting from today.
func (s *Service) futureWindow(ctx context.Context, n int) ([]schedule.WeekEnding, error) {
	return s.store.FutureWeeks(ctx, s.now(), n)
}

// historicalWindow loads the last n completed week endings in chronological
// order.
func (s *Service) historicalWindow(ctx context.Context, n int) ([]schedule.WeekEnding, error) {
	weeks, err := s.store.HistoricalWeeks(ctx, s.now(), n)
	if err != nil {
		return nil, err
	}
	return schedule.Chronological(weeks), nil
}

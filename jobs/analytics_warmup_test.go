package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crewplan/crewplan/internal/analytics"
	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/timesheet"
	"github.com/crewplan/crewplan/internal/users"
)

type warmupStore struct {
	managedCalls int
	planCalls    int
}

func (s *warmupStore) ManagedUserIDs(ctx context.Context, managerID int64) ([]int64, error) {
	s.managedCalls++
	return []int64{1}, nil
}

func (s *warmupStore) IsManagerOf(ctx context.Context, managerID, userID int64) (bool, error) {
	return false, nil
}

func (s *warmupStore) UserProfile(ctx context.Context, userID int64) (users.User, error) {
	return users.User{ID: userID}, nil
}

func (s *warmupStore) UserProfiles(ctx context.Context, userIDs []int64) (map[int64]users.User, error) {
	return map[int64]users.User{}, nil
}

func (s *warmupStore) FutureWeeks(ctx context.Context, from time.Time, n int) ([]schedule.WeekEnding, error) {
	return []schedule.WeekEnding{{ID: 101, Date: from}}, nil
}

func (s *warmupStore) HistoricalWeeks(ctx context.Context, until time.Time, n int) ([]schedule.WeekEnding, error) {
	return []schedule.WeekEnding{{ID: 90, Date: until}}, nil
}

func (s *warmupStore) SubmittedPlans(ctx context.Context, userIDs, weekIDs []int64) ([]forecast.Plan, error) {
	s.planCalls++
	return nil, nil
}

func (s *warmupStore) TimesheetEntries(ctx context.Context, userIDs, weekIDs []int64) ([]timesheet.Entry, error) {
	return nil, nil
}

type stubManagers struct {
	ids   []int64
	calls int
}

func (s *stubManagers) ManagerIDs(ctx context.Context) ([]int64, error) {
	s.calls++
	return s.ids, nil
}

func TestAnalyticsWarmupWarmsEveryManager(t *testing.T) {
	store := &warmupStore{}
	svc := analytics.NewService(store, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	managers := &stubManagers{ids: []int64{7, 8}}
	job := NewAnalyticsWarmupJob(svc, managers, nil, nil)

	task, err := NewAnalyticsWarmupTask(4)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if managers.calls != 1 {
		t.Fatalf("manager lookups = %d, want 1", managers.calls)
	}
	// Each manager triggers the five dashboard views.
	if store.managedCalls != 10 {
		t.Fatalf("managed user reads = %d, want 10", store.managedCalls)
	}
}

func TestAnalyticsWarmupSkipsMalformedPayload(t *testing.T) {
	job := NewAnalyticsWarmupJob(nil, &stubManagers{}, nil, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskAnalyticsWarmup, []byte("{")))
	if err != asynq.SkipRetry {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

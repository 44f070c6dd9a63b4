package analytics

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/timesheet"
)

// ProjectAnalyticsList compares forecast hours over the upcoming window
// against actual hours over the completed one, per project, for one
// manager's team. Projects are ordered by forecast hours descending.
func (s *Service) ProjectAnalyticsList(ctx context.Context, managerID int64, weeks int) []ProjectAnalytics {
	weeks = ClampWeeks(weeks)
	key, err := s.cache.BuildKey(ctx, keyProjects(managerID, weeks))
	if err != nil {
		s.fail("projects", managerID, err)
		return []ProjectAnalytics{}
	}
	var result []ProjectAnalytics
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		return s.loadProjects(ctx, managerID, weeks)
	})
	if err != nil {
		s.fail("projects", managerID, err)
		return []ProjectAnalytics{}
	}
	if result == nil {
		result = []ProjectAnalytics{}
	}
	return result
}

func (s *Service) loadProjects(ctx context.Context, managerID int64, weeks int) ([]ProjectAnalytics, error) {
	userIDs, err := s.store.ManagedUserIDs(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []ProjectAnalytics{}, nil
	}

	var (
		plans   []forecast.Plan
		futIDs  []int64
		entries []timesheet.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		window, err := s.futureWindow(gctx, weeks)
		if err != nil {
			return err
		}
		futIDs = schedule.IDs(window)
		plans, err = s.store.SubmittedPlans(gctx, userIDs, futIDs)
		return err
	})
	g.Go(func() error {
		window, err := s.historicalWindow(gctx, weeks)
		if err != nil {
			return err
		}
		entries, err = s.store.TimesheetEntries(gctx, userIDs, schedule.IDs(window))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	forecastByProject := forecast.PerProject(forecast.Collect(plans, futIDs))
	actualByProject := timesheet.PerProject(entries)

	actualIndex := make(map[int64]timesheet.ProjectTotal, len(actualByProject))
	for _, pt := range actualByProject {
		actualIndex[pt.ProjectID] = pt
	}
	seen := make(map[int64]struct{}, len(forecastByProject))

	result := make([]ProjectAnalytics, 0, len(forecastByProject)+len(actualByProject))
	for _, ft := range forecastByProject {
		seen[ft.ProjectID] = struct{}{}
		at := actualIndex[ft.ProjectID]
		result = append(result, buildProject(ft, at))
	}
	for _, at := range actualByProject {
		if _, ok := seen[at.ProjectID]; ok {
			continue
		}
		result = append(result, buildProject(forecast.ProjectTotal{
			ProjectID:   at.ProjectID,
			ProjectName: at.ProjectName,
		}, at))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ForecastHours > result[j].ForecastHours
	})
	return result, nil
}

func buildProject(ft forecast.ProjectTotal, at timesheet.ProjectTotal) ProjectAnalytics {
	name := ft.ProjectName
	if name == "" {
		name = at.ProjectName
	}
	contributors := make(map[int64]struct{}, len(ft.Contributors)+len(at.Contributors))
	for userID := range ft.Contributors {
		contributors[userID] = struct{}{}
	}
	for userID := range at.Contributors {
		contributors[userID] = struct{}{}
	}
	return ProjectAnalytics{
		ProjectID:        ft.ProjectID,
		ProjectName:      name,
		ForecastHours:    Round1(ft.ForecastHours),
		ActualHours:      Round1(at.ActualHours),
		Variance:         Round1(Variance(at.ActualHours, ft.ForecastHours)),
		BillableHours:    Round1(ft.BillableHours),
		NonBillableHours: Round1(ft.NonBillableHours),
		UtilizationRate:  Round1(UtilizationRate(ft.BillableHours, ft.ForecastHours)),
		TeamMemberCount:  len(contributors),
	}
}

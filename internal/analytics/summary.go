package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/timesheet"
)

// Summary builds the dashboard card: team utilization over the upcoming
// window, billable actual hours and overall compliance over the completed
// one, and the count of active forecast assignments.
func (s *Service) Summary(ctx context.Context, managerID int64, weeks int) AnalyticsMetrics {
	weeks = ClampWeeks(weeks)
	key, err := s.cache.BuildKey(ctx, keySummary(managerID, weeks))
	if err != nil {
		s.fail("summary", managerID, err)
		return AnalyticsMetrics{}
	}
	var result AnalyticsMetrics
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		return s.loadSummary(ctx, managerID, weeks)
	})
	if err != nil {
		s.fail("summary", managerID, err)
		return AnalyticsMetrics{}
	}
	return result
}

func (s *Service) loadSummary(ctx context.Context, managerID int64, weeks int) (AnalyticsMetrics, error) {
	userIDs, err := s.store.ManagedUserIDs(ctx, managerID)
	if err != nil {
		return AnalyticsMetrics{}, err
	}
	if len(userIDs) == 0 {
		return AnalyticsMetrics{}, nil
	}

	var (
		futureFacts     []forecast.Fact
		futureWeekCount int
		historicalPlans []forecast.Plan
		historicalIDs   []int64
		entries         []timesheet.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		window, err := s.futureWindow(gctx, weeks)
		if err != nil {
			return err
		}
		plans, err := s.store.SubmittedPlans(gctx, userIDs, schedule.IDs(window))
		if err != nil {
			return err
		}
		futureWeekCount = len(window)
		futureFacts = forecast.Collect(plans, schedule.IDs(window))
		return nil
	})
	g.Go(func() error {
		window, err := s.historicalWindow(gctx, weeks)
		if err != nil {
			return err
		}
		ids := schedule.IDs(window)
		var innerG errgroup.Group
		innerG.Go(func() error {
			var err error
			historicalPlans, err = s.store.SubmittedPlans(gctx, userIDs, ids)
			return err
		})
		innerG.Go(func() error {
			var err error
			entries, err = s.store.TimesheetEntries(gctx, userIDs, ids)
			return err
		})
		if err := innerG.Wait(); err != nil {
			return err
		}
		historicalIDs = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return AnalyticsMetrics{}, err
	}

	futureTotal := 0.0
	assignments := make(map[[2]int64]struct{})
	for _, fact := range futureFacts {
		futureTotal += fact.Hours
		if fact.ProjectID != nil {
			assignments[[2]int64{fact.UserID, *fact.ProjectID}] = struct{}{}
		}
	}
	historicalForecast := 0.0
	for _, fact := range forecast.Collect(historicalPlans, historicalIDs) {
		historicalForecast += fact.Hours
	}
	actualTotal, billableTotal := timesheet.Totals(entries)

	teamUtilization := 0.0
	if capacity := float64(len(userIDs)) * float64(futureWeekCount) * StandardWeekHours; capacity > 0 {
		teamUtilization = futureTotal / capacity * 100
	}
	return AnalyticsMetrics{
		TeamUtilization:    Round1(teamUtilization),
		TotalBillableHours: Round1(billableTotal),
		ActiveAssignments:  len(assignments),
		ForecastCompliance: Round1(ForecastCompliance(actualTotal, historicalForecast)),
	}, nil
}

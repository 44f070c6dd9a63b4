package analytics

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/timesheet"
	"github.com/crewplan/crewplan/internal/users"
)

// Individual builds the drill-down view for one managed user: forecast over
// the upcoming window, actuals over the completed one, and per-project
// assignment totals. Returns nil when the caller does not manage the user.
func (s *Service) Individual(ctx context.Context, managerID, userID int64, weeks int) *IndividualAnalytics {
	weeks = ClampWeeks(weeks)
	managed, err := s.store.IsManagerOf(ctx, managerID, userID)
	if err != nil {
		s.fail("individual", managerID, err)
		return nil
	}
	if !managed {
		return nil
	}
	key, err := s.cache.BuildKey(ctx, keyIndividual(managerID, userID, weeks))
	if err != nil {
		s.fail("individual", managerID, err)
		return nil
	}
	var result IndividualAnalytics
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		return s.loadIndividual(ctx, userID, weeks)
	})
	if err != nil {
		s.fail("individual", managerID, err)
		return nil
	}
	if result.ProjectAssignments == nil {
		result.ProjectAssignments = []ProjectAssignment{}
	}
	return &result
}

func (s *Service) loadIndividual(ctx context.Context, userID int64, weeks int) (IndividualAnalytics, error) {
	var (
		profile    users.User
		future     []schedule.WeekEnding
		historical []schedule.WeekEnding
		entries    []timesheet.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.store.UserProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		future, err = s.futureWindow(gctx, weeks)
		return err
	})
	g.Go(func() error {
		w, err := s.historicalWindow(gctx, weeks)
		if err != nil {
			return err
		}
		entries, err = s.store.TimesheetEntries(gctx, []int64{userID}, schedule.IDs(w))
		if err != nil {
			return err
		}
		historical = w
		return nil
	})
	if err := g.Wait(); err != nil {
		return IndividualAnalytics{}, err
	}

	futureIDs := schedule.IDs(future)
	historicalIDs := schedule.IDs(historical)

	// One read covers both windows; the plan's weekly breakdowns carry the
	// forecast for past weeks too, which compliance compares against.
	plans, err := s.store.SubmittedPlans(ctx, []int64{userID}, append(append([]int64{}, futureIDs...), historicalIDs...))
	if err != nil {
		return IndividualAnalytics{}, err
	}
	futureFacts := forecast.Collect(plans, futureIDs)
	historicalFacts := forecast.Collect(plans, historicalIDs)

	forecastWeekly := forecast.PerUserWeekly(futureFacts, []int64{userID}, futureIDs)[userID]
	actualWeekly := timesheet.PerUserWeekly(entries, []int64{userID}, historicalIDs)[userID]

	forecastSeries := make([]WeekHours, 0, len(future))
	forecastTotal := 0.0
	for _, week := range schedule.Labeled(future) {
		forecastTotal += forecastWeekly[week.ID]
		forecastSeries = append(forecastSeries, WeekHours{Week: week, Hours: Round1(forecastWeekly[week.ID])})
	}
	actualSeries := make([]WeekHours, 0, len(historical))
	for _, week := range schedule.Labeled(historical) {
		actualSeries = append(actualSeries, WeekHours{Week: week, Hours: Round1(actualWeekly[week.ID])})
	}

	actualTotal, billableTotal := timesheet.Totals(entries)
	historicalForecast := 0.0
	for _, fact := range historicalFacts {
		historicalForecast += fact.Hours
	}

	return IndividualAnalytics{
		User: profile,
		Summary: IndividualSummary{
			ForecastHours:      Round1(forecastTotal),
			ActualHours:        Round1(actualTotal),
			BillableHours:      Round1(billableTotal),
			AvgUtilization:     Round1(Utilization(forecastTotal, len(future))),
			ForecastCompliance: Round1(ForecastCompliance(actualTotal, historicalForecast)),
			UtilizationRate:    Round1(UtilizationRate(billableTotal, historicalForecast)),
		},
		WeeklyData: IndividualWeeklyData{
			ForecastWeeks: forecastSeries,
			ActualWeeks:   actualSeries,
		},
		ProjectAssignments: assignmentRows(forecast.PerProject(futureFacts), timesheet.PerProject(entries)),
	}, nil
}

func assignmentRows(forecastTotals []forecast.ProjectTotal, actualTotals []timesheet.ProjectTotal) []ProjectAssignment {
	actualIndex := make(map[int64]timesheet.ProjectTotal, len(actualTotals))
	for _, pt := range actualTotals {
		actualIndex[pt.ProjectID] = pt
	}
	seen := make(map[int64]struct{}, len(forecastTotals))
	rows := make([]ProjectAssignment, 0, len(forecastTotals)+len(actualTotals))
	for _, ft := range forecastTotals {
		seen[ft.ProjectID] = struct{}{}
		at := actualIndex[ft.ProjectID]
		rows = append(rows, ProjectAssignment{
			ProjectID:     ft.ProjectID,
			ProjectName:   ft.ProjectName,
			ForecastHours: Round1(ft.ForecastHours),
			ActualHours:   Round1(at.ActualHours),
			Variance:      Round1(Variance(at.ActualHours, ft.ForecastHours)),
		})
	}
	for _, at := range actualTotals {
		if _, ok := seen[at.ProjectID]; ok {
			continue
		}
		rows = append(rows, ProjectAssignment{
			ProjectID:   at.ProjectID,
			ProjectName: at.ProjectName,
			ActualHours: Round1(at.ActualHours),
			Variance:    Round1(at.ActualHours),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ForecastHours > rows[j].ForecastHours
	})
	return rows
}

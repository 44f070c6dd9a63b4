package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/timesheet"
)

// ForecastVsActuals builds three positionally aligned weekly series over
// the completed window: what the team forecast, what it logged, and the
// difference.
func (s *Service) ForecastVsActuals(ctx context.Context, managerID int64, weeks int) ForecastVsActualsData {
	weeks = ClampWeeks(weeks)
	key, err := s.cache.BuildKey(ctx, keyForecastActuals(managerID, weeks))
	if err != nil {
		s.fail("forecast_actuals", managerID, err)
		return EmptyForecastVsActuals()
	}
	var result ForecastVsActualsData
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		return s.loadForecastVsActuals(ctx, managerID, weeks)
	})
	if err != nil {
		s.fail("forecast_actuals", managerID, err)
		return EmptyForecastVsActuals()
	}
	if result.WeekEndings == nil {
		return EmptyForecastVsActuals()
	}
	return result
}

func (s *Service) loadForecastVsActuals(ctx context.Context, managerID int64, weeks int) (ForecastVsActualsData, error) {
	userIDs, err := s.store.ManagedUserIDs(ctx, managerID)
	if err != nil {
		return ForecastVsActualsData{}, err
	}
	if len(userIDs) == 0 {
		return EmptyForecastVsActuals(), nil
	}
	window, err := s.historicalWindow(ctx, weeks)
	if err != nil {
		return ForecastVsActualsData{}, err
	}
	weekIDs := schedule.IDs(window)

	var (
		plans   []forecast.Plan
		entries []timesheet.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plans, err = s.store.SubmittedPlans(gctx, userIDs, weekIDs)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.store.TimesheetEntries(gctx, userIDs, weekIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return ForecastVsActualsData{}, err
	}

	forecastWeekly := forecast.TeamWeekly(forecast.Collect(plans, weekIDs), weekIDs)
	actualWeekly := timesheet.TeamWeekly(entries, weekIDs)

	data := ForecastVsActualsData{
		WeekEndings:   schedule.Labeled(window),
		ForecastHours: make([]float64, 0, len(weekIDs)),
		ActualHours:   make([]float64, 0, len(weekIDs)),
		Variance:      make([]float64, 0, len(weekIDs)),
	}
	for _, weekID := range weekIDs {
		f := forecastWeekly[weekID]
		a := actualWeekly[weekID]
		data.ForecastHours = append(data.ForecastHours, Round1(f))
		data.ActualHours = append(data.ActualHours, Round1(a))
		data.Variance = append(data.Variance, Round1(Variance(a, f)))
	}
	return data, nil
}

// EmptyForecastVsActuals is the neutral trend shape with all four arrays
// present and empty.
func EmptyForecastVsActuals() ForecastVsActualsData {
	return ForecastVsActualsData{
		WeekEndings:   []schedule.LabeledWeek{},
		ForecastHours: []float64{},
		ActualHours:   []float64{},
		Variance:      []float64{},
	}
}

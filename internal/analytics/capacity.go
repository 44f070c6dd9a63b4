package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/users"
)

// TeamCapacity reports the forecast hours of every managed user over the
// upcoming window, keyed by week ending.
func (s *Service) TeamCapacity(ctx context.Context, managerID int64, weeks int) TeamUtilizationResult {
	weeks = ClampWeeks(weeks)
	key, err := s.cache.BuildKey(ctx, keyTeamCapacity(managerID, weeks))
	if err != nil {
		s.fail("team_capacity", managerID, err)
		return EmptyTeamCapacity()
	}
	var result TeamUtilizationResult
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		return s.loadTeamCapacity(ctx, managerID, weeks)
	})
	if err != nil {
		s.fail("team_capacity", managerID, err)
		return EmptyTeamCapacity()
	}
	if result.TeamMembers == nil {
		result.TeamMembers = []TeamMemberCapacity{}
	}
	if result.WeekEndings == nil {
		result.WeekEndings = []schedule.LabeledWeek{}
	}
	return result
}

func (s *Service) loadTeamCapacity(ctx context.Context, managerID int64, weeks int) (TeamUtilizationResult, error) {
	userIDs, err := s.store.ManagedUserIDs(ctx, managerID)
	if err != nil {
		return TeamUtilizationResult{}, err
	}
	if len(userIDs) == 0 {
		return EmptyTeamCapacity(), nil
	}

	var (
		window   []schedule.WeekEnding
		plans    []forecast.Plan
		profiles map[int64]users.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.futureWindow(gctx, weeks)
		if err != nil {
			return err
		}
		p, err := s.store.SubmittedPlans(gctx, userIDs, schedule.IDs(w))
		if err != nil {
			return err
		}
		window, plans = w, p
		return nil
	})
	g.Go(func() error {
		p, err := s.store.UserProfiles(gctx, userIDs)
		if err != nil {
			return err
		}
		profiles = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return TeamUtilizationResult{}, err
	}

	weekIDs := schedule.IDs(window)
	facts := forecast.Collect(plans, weekIDs)
	perUser := forecast.PerUserWeekly(facts, userIDs, weekIDs)

	members := make([]TeamMemberCapacity, 0, len(userIDs))
	for _, userID := range userIDs {
		weekly := perUser[userID]
		total := 0.0
		rounded := make(map[int64]float64, len(weekIDs))
		for _, weekID := range weekIDs {
			total += weekly[weekID]
			rounded[weekID] = Round1(weekly[weekID])
		}
		profile := profiles[userID]
		members = append(members, TeamMemberCapacity{
			UserID:         userID,
			Name:           profile.Name,
			Email:          profile.Email,
			WeeklyHours:    rounded,
			TotalHours:     Round1(total),
			AvgUtilization: Round1(Utilization(total, len(window))),
		})
	}
	return TeamUtilizationResult{
		TeamMembers: members,
		WeekEndings: schedule.Labeled(window),
	}, nil
}

// TeamUtilizationTrend reports the team-wide utilization percentage per week
// over the upcoming window. A week's utilization is the team's forecast hours
// divided by the team's standard capacity for that week.
func (s *Service) TeamUtilizationTrend(ctx context.Context, managerID int64, weeks int) []UtilizationTrendPoint {
	weeks = ClampWeeks(weeks)
	key, err := s.cache.BuildKey(ctx, keyTeamTrend(managerID, weeks))
	if err != nil {
		s.fail("team_trend", managerID, err)
		return []UtilizationTrendPoint{}
	}
	var points []UtilizationTrendPoint
	err = s.cache.FetchJSON(ctx, key, &points, func(ctx context.Context) (interface{}, error) {
		return s.loadTeamTrend(ctx, managerID, weeks)
	})
	if err != nil {
		s.fail("team_trend", managerID, err)
		return []UtilizationTrendPoint{}
	}
	if points == nil {
		points = []UtilizationTrendPoint{}
	}
	return points
}

func (s *Service) loadTeamTrend(ctx context.Context, managerID int64, weeks int) ([]UtilizationTrendPoint, error) {
	userIDs, err := s.store.ManagedUserIDs(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []UtilizationTrendPoint{}, nil
	}
	window, err := s.futureWindow(ctx, weeks)
	if err != nil {
		return nil, err
	}
	weekIDs := schedule.IDs(window)
	plans, err := s.store.SubmittedPlans(ctx, userIDs, weekIDs)
	if err != nil {
		return nil, err
	}
	facts := forecast.Collect(plans, weekIDs)
	// Sum the same per-member rounded hours the capacity view reports so
	// the two views stay numerically consistent week by week.
	perUser := forecast.PerUserWeekly(facts, userIDs, weekIDs)
	capacity := float64(len(userIDs)) * StandardWeekHours

	labeled := schedule.Labeled(window)
	points := make([]UtilizationTrendPoint, 0, len(labeled))
	for i, week := range labeled {
		teamHours := 0.0
		for _, userID := range userIDs {
			teamHours += Round1(perUser[userID][weekIDs[i]])
		}
		utilization := 0.0
		if capacity > 0 {
			utilization = teamHours / capacity * 100
		}
		points = append(points, UtilizationTrendPoint{
			Week:        week,
			Utilization: Round1(utilization),
		})
	}
	return points, nil
}

// EmptyTeamCapacity is the neutral team capacity shape: empty arrays, never
// nil, so callers and serializers cannot tell a degraded read from an empty
// team.
func EmptyTeamCapacity() TeamUtilizationResult {
	return TeamUtilizationResult{
		TeamMembers: []TeamMemberCapacity{},
		WeekEndings: []schedule.LabeledWeek{},
	}
}

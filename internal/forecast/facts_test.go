package forecast

import (
	"testing"
)

func pid(v int64) *int64 { return &v }

func submittedPlan(id, userID int64, entries ...Entry) Plan {
	return Plan{ID: id, UserID: userID, SubmittedAt: ts("2026-08-01T10:00:00Z"), Entries: entries}
}

func TestCollectFiltersToRequestedWeeks(t *testing.T) {
	plans := []Plan{submittedPlan(1, 7, Entry{
		ID: 10, PlanID: 1, CategoryName: "Development",
		Breakdowns: []WeeklyBreakdown{
			{WeekEndingID: 100, Hours: 20},
			{WeekEndingID: 999, Hours: 40}, // outside the queried window
		},
	})}
	facts := Collect(plans, []int64{100, 101})
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(facts))
	}
	if facts[0].WeekID != 100 || facts[0].Hours != 20 {
		t.Fatalf("unexpected fact: %+v", facts[0])
	}
}

func TestCollectSumsDuplicateWeekRows(t *testing.T) {
	// Two entries both covering week 100: contributions sum, never dedupe.
	plans := []Plan{submittedPlan(1, 7,
		Entry{ID: 10, PlanID: 1, Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 16}}},
		Entry{ID: 11, PlanID: 1, Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 24}}},
	)}
	weekly := PerUserWeekly(Collect(plans, []int64{100}), []int64{7}, []int64{100})
	if weekly[7][100] != 40 {
		t.Fatalf("expected 40h summed, got %.1f", weekly[7][100])
	}
}

func TestPerUserWeeklyZeroFillsUsersWithoutPlans(t *testing.T) {
	plans := []Plan{submittedPlan(1, 7, Entry{
		ID: 10, PlanID: 1,
		Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 30}},
	})}
	weekly := PerUserWeekly(Collect(plans, []int64{100, 101}), []int64{7, 8}, []int64{100, 101})
	if len(weekly) != 2 {
		t.Fatalf("expected 2 users, got %d", len(weekly))
	}
	if weekly[8][100] != 0 || weekly[8][101] != 0 {
		t.Fatalf("user without plan must be zero-filled, got %+v", weekly[8])
	}
	if weekly[7][101] != 0 {
		t.Fatalf("week without hours must be present with 0, got %+v", weekly[7])
	}
}

func TestPerProjectSplitsBillability(t *testing.T) {
	plans := []Plan{submittedPlan(1, 7,
		Entry{ID: 10, PlanID: 1, CategoryName: "Billable", ProjectID: pid(1), ProjectName: "Apollo",
			Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 30}}},
		Entry{ID: 11, PlanID: 1, CategoryName: "billable", ProjectID: pid(1), ProjectName: "Apollo",
			Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 10}}},
	)}
	totals := PerProject(Collect(plans, []int64{100}))
	if len(totals) != 1 {
		t.Fatalf("expected 1 project, got %d", len(totals))
	}
	apollo := totals[0]
	if apollo.ForecastHours != 40 {
		t.Fatalf("expected 40h total, got %.1f", apollo.ForecastHours)
	}
	// Exact string match only: "billable" is not "Billable".
	if apollo.BillableHours != 30 || apollo.NonBillableHours != 10 {
		t.Fatalf("unexpected split: %+v", apollo)
	}
}

func TestPerProjectSkipsNonProjectTime(t *testing.T) {
	plans := []Plan{submittedPlan(1, 7,
		Entry{ID: 10, PlanID: 1, CategoryName: "Holiday",
			Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 8}}},
		Entry{ID: 11, PlanID: 1, CategoryName: "Billable", ProjectID: pid(2), ProjectName: "Borealis",
			Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 32}}},
	)}
	facts := Collect(plans, []int64{100})
	totals := PerProject(facts)
	if len(totals) != 1 || totals[0].ProjectName != "Borealis" {
		t.Fatalf("expected only Borealis, got %+v", totals)
	}
	// Holiday hours still count in the team-wide series.
	team := TeamWeekly(facts, []int64{100})
	if team[100] != 40 {
		t.Fatalf("expected 40h team total, got %.1f", team[100])
	}
}

// No hours may be lost or duplicated across projections: the sum of the
// per-project totals plus non-project facts equals the team-wide total.
func TestProjectionConservation(t *testing.T) {
	plans := []Plan{
		submittedPlan(1, 7,
			Entry{ID: 10, PlanID: 1, CategoryName: "Billable", ProjectID: pid(1), ProjectName: "Apollo",
				Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 12.5}, {WeekEndingID: 101, Hours: 37.5}}},
			Entry{ID: 11, PlanID: 1, CategoryName: "Holiday",
				Breakdowns: []WeeklyBreakdown{{WeekEndingID: 101, Hours: 8}}},
		),
		submittedPlan(2, 8,
			Entry{ID: 20, PlanID: 2, CategoryName: "Development", ProjectID: pid(1), ProjectName: "Apollo",
				Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 40}}},
		),
	}
	weekIDs := []int64{100, 101}
	facts := Collect(plans, weekIDs)

	var projectSum, nonProject float64
	for _, pt := range PerProject(facts) {
		projectSum += pt.ForecastHours
	}
	for _, f := range facts {
		if f.ProjectID == nil {
			nonProject += f.Hours
		}
	}
	var teamSum float64
	for _, v := range TeamWeekly(facts, weekIDs) {
		teamSum += v
	}
	if projectSum+nonProject != teamSum {
		t.Fatalf("hours not conserved: projects %.1f + other %.1f != team %.1f", projectSum, nonProject, teamSum)
	}
	if teamSum != 98 {
		t.Fatalf("expected 98h, got %.1f", teamSum)
	}
}

func TestPerProjectTracksContributors(t *testing.T) {
	plans := []Plan{
		submittedPlan(1, 7, Entry{ID: 10, PlanID: 1, CategoryName: "Billable", ProjectID: pid(5), ProjectName: "Apollo",
			Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 20}}}),
		submittedPlan(2, 8, Entry{ID: 20, PlanID: 2, CategoryName: "Billable", ProjectID: pid(5), ProjectName: "Apollo",
			Breakdowns: []WeeklyBreakdown{{WeekEndingID: 100, Hours: 10}}}),
	}
	totals := PerProject(Collect(plans, []int64{100}))
	if len(totals) != 1 || len(totals[0].Contributors) != 2 {
		t.Fatalf("expected 2 contributors, got %+v", totals)
	}
}

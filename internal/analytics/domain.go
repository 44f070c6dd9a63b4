package analytics

import (
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/users"
)

// TeamMemberCapacity is one managed user's forecast capacity over the
// requested future window.
type TeamMemberCapacity struct {
	UserID         int64             `json:"user_id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	WeeklyHours    map[int64]float64 `json:"weekly_hours"`
	TotalHours     float64           `json:"total_hours"`
	AvgUtilization float64           `json:"avg_utilization"`
}

// TeamUtilizationResult is the team capacity view: per-member weekly hours
// plus the labeled week axis it is keyed on.
type TeamUtilizationResult struct {
	TeamMembers []TeamMemberCapacity   `json:"team_members"`
	WeekEndings []schedule.LabeledWeek `json:"week_endings"`
}

// UtilizationTrendPoint is one team-wide utilization percentage for a week.
type UtilizationTrendPoint struct {
	Week        schedule.LabeledWeek `json:"week"`
	Utilization float64              `json:"utilization"`
}

// ProjectAnalytics compares forecast and actual hours for one project
// across the manager's team.
type ProjectAnalytics struct {
	ProjectID        int64   `json:"project_id"`
	ProjectName      string  `json:"project_name"`
	ForecastHours    float64 `json:"forecast_hours"`
	ActualHours      float64 `json:"actual_hours"`
	Variance         float64 `json:"variance"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
	UtilizationRate  float64 `json:"utilization_rate"`
	TeamMemberCount  int     `json:"team_member_count"`
}

// WeekHours is one labeled week with its hour total.
type WeekHours struct {
	Week  schedule.LabeledWeek `json:"week"`
	Hours float64              `json:"hours"`
}

// IndividualWeeklyData carries the two per-week series for one user: the
// forecast over the future window and the actuals over the historical one.
type IndividualWeeklyData struct {
	ForecastWeeks []WeekHours `json:"forecast_weeks"`
	ActualWeeks   []WeekHours `json:"actual_weeks"`
}

// IndividualSummary is the metric roll-up for one user.
type IndividualSummary struct {
	ForecastHours      float64 `json:"forecast_hours"`
	ActualHours        float64 `json:"actual_hours"`
	BillableHours      float64 `json:"billable_hours"`
	AvgUtilization     float64 `json:"avg_utilization"`
	ForecastCompliance float64 `json:"forecast_compliance"`
	UtilizationRate    float64 `json:"utilization_rate"`
}

// ProjectAssignment is one user's forecast/actual totals on a project.
type ProjectAssignment struct {
	ProjectID     int64   `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	ForecastHours float64 `json:"forecast_hours"`
	ActualHours   float64 `json:"actual_hours"`
	Variance      float64 `json:"variance"`
}

// IndividualAnalytics is the manager's drill-down view for one report.
// Returned only when the caller manages the target user.
type IndividualAnalytics struct {
	User               users.User           `json:"user"`
	Summary            IndividualSummary    `json:"summary"`
	WeeklyData         IndividualWeeklyData `json:"weekly_data"`
	ProjectAssignments []ProjectAssignment  `json:"project_assignments"`
}

// ForecastVsActualsData carries three positionally aligned series over the
// chronological historical window. All slices share the week count length.
type ForecastVsActualsData struct {
	WeekEndings   []schedule.LabeledWeek `json:"week_endings"`
	ForecastHours []float64              `json:"forecast_hours"`
	ActualHours   []float64              `json:"actual_hours"`
	Variance      []float64              `json:"variance"`
}

// AnalyticsMetrics is the dashboard summary card.
type AnalyticsMetrics struct {
	TeamUtilization    float64 `json:"team_utilization"`
	TotalBillableHours float64 `json:"total_billable_hours"`
	ActiveAssignments  int     `json:"active_assignments"`
	ForecastCompliance float64 `json:"forecast_compliance"`
}

package export

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/crewplan/crewplan/internal/analytics"
	"github.com/crewplan/crewplan/internal/schedule"
)

var printer = message.NewPrinter(language.English)

func formatFloat(v float64) string {
	return printer.Sprintf("%.1f", v)
}

// TeamRows flattens the team capacity view into tabular rows, one per team
// member. The per-week columns are generated from the requested window, so
// the column set varies with the week count.
func TeamRows(result analytics.TeamUtilizationResult) ([]string, []map[string]string) {
	headers := []string{"Team Member", "Email"}
	weekColumns := make([]string, 0, len(result.WeekEndings))
	for i, week := range result.WeekEndings {
		col := schedule.DateLabel(i, week.Date)
		weekColumns = append(weekColumns, col)
		headers = append(headers, col)
	}
	headers = append(headers, "Total Hours", "Avg Utilization %")

	rows := make([]map[string]string, 0, len(result.TeamMembers))
	for _, member := range result.TeamMembers {
		row := map[string]string{
			"Team Member":       member.Name,
			"Email":             member.Email,
			"Total Hours":       formatFloat(member.TotalHours),
			"Avg Utilization %": formatFloat(member.AvgUtilization),
		}
		for i, col := range weekColumns {
			row[col] = formatFloat(member.WeeklyHours[result.WeekEndings[i].ID])
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// ProjectRows flattens the project comparison into tabular rows, one per
// project, preserving the forecast-descending order of the input.
func ProjectRows(projects []analytics.ProjectAnalytics) ([]string, []map[string]string) {
	headers := []string{
		"Project", "Forecast Hours", "Actual Hours", "Variance",
		"Billable Hours", "Non-Billable Hours", "Utilization Rate %", "Team Members",
	}
	rows := make([]map[string]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, map[string]string{
			"Project":            p.ProjectName,
			"Forecast Hours":     formatFloat(p.ForecastHours),
			"Actual Hours":       formatFloat(p.ActualHours),
			"Variance":           formatFloat(p.Variance),
			"Billable Hours":     formatFloat(p.BillableHours),
			"Non-Billable Hours": formatFloat(p.NonBillableHours),
			"Utilization Rate %": formatFloat(p.UtilizationRate),
			"Team Members":       printer.Sprintf("%d", p.TeamMemberCount),
		})
	}
	return headers, rows
}

// ForecastActualsRows flattens the trend series into one row per week. The
// three input arrays are positionally aligned with the week list.
func ForecastActualsRows(data analytics.ForecastVsActualsData) ([]string, []map[string]string) {
	headers := []string{"Week", "Week Ending", "Forecast Hours", "Actual Hours", "Variance"}
	rows := make([]map[string]string, 0, len(data.WeekEndings))
	for i, week := range data.WeekEndings {
		rows = append(rows, map[string]string{
			"Week":           week.Label,
			"Week Ending":    week.Date.Format("2006-01-02"),
			"Forecast Hours": formatFloat(data.ForecastHours[i]),
			"Actual Hours":   formatFloat(data.ActualHours[i]),
			"Variance":       formatFloat(data.Variance[i]),
		})
	}
	return headers, rows
}

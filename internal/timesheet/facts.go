package timesheet

// ProjectTotal aggregates actual hours for one project. Contributors holds
// the distinct user ids that logged any hours on the project.
type ProjectTotal struct {
	ProjectID     int64
	ProjectName   string
	ActualHours   float64
	BillableHours float64
	Contributors  map[int64]struct{}
}

// PerUserWeekly folds entries into a per-user weekly hours map, zero-filled
// for every requested user and week.
func PerUserWeekly(entries []Entry, userIDs, weekIDs []int64) map[int64]map[int64]float64 {
	out := make(map[int64]map[int64]float64, len(userIDs))
	for _, uid := range userIDs {
		weekly := make(map[int64]float64, len(weekIDs))
		for _, wid := range weekIDs {
			weekly[wid] = 0
		}
		out[uid] = weekly
	}
	for _, e := range entries {
		weekly, ok := out[e.UserID]
		if !ok {
			continue
		}
		if _, ok := weekly[e.WeekID]; !ok {
			continue
		}
		weekly[e.WeekID] += e.Hours
	}
	return out
}

// PerProject folds entries into per-project actual totals in first-seen
// order. Entries with an unresolved project chain are skipped here but still
// count in the weekly and team projections.
func PerProject(entries []Entry) []ProjectTotal {
	index := make(map[int64]int)
	totals := make([]ProjectTotal, 0)
	for _, e := range entries {
		if e.ProjectID == nil {
			continue
		}
		pid := *e.ProjectID
		i, ok := index[pid]
		if !ok {
			i = len(totals)
			index[pid] = i
			totals = append(totals, ProjectTotal{
				ProjectID:    pid,
				ProjectName:  e.ProjectName,
				Contributors: make(map[int64]struct{}),
			})
		}
		totals[i].ActualHours += e.Hours
		if e.Billable {
			totals[i].BillableHours += e.Hours
		}
		totals[i].Contributors[e.UserID] = struct{}{}
	}
	return totals
}

// TeamWeekly folds entries into a flat per-week total across all users,
// zero-filled for every requested week.
func TeamWeekly(entries []Entry, weekIDs []int64) map[int64]float64 {
	out := make(map[int64]float64, len(weekIDs))
	for _, wid := range weekIDs {
		out[wid] = 0
	}
	for _, e := range entries {
		if _, ok := out[e.WeekID]; !ok {
			continue
		}
		out[e.WeekID] += e.Hours
	}
	return out
}

// Totals sums hours and billable hours over all entries.
func Totals(entries []Entry) (total, billable float64) {
	for _, e := range entries {
		total += e.Hours
		if e.Billable {
			billable += e.Hours
		}
	}
	return total, billable
}

package forecast

// Fact is one row of the normalized forecast fact table: the contribution of
// a single weekly breakdown, annotated with every dimension the view
// assemblers project on. All grouping views derive from this one fold so the
// percentage formulas downstream cannot drift apart.
type Fact struct {
	UserID      int64
	WeekID      int64
	ProjectID   *int64
	ProjectName string
	Category    string
	Hours       float64
}

// ProjectTotal aggregates forecast hours for one project. Contributors holds
// the distinct user ids that forecast any hours on the project.
type ProjectTotal struct {
	ProjectID        int64
	ProjectName      string
	ForecastHours    float64
	BillableHours    float64
	NonBillableHours float64
	Contributors     map[int64]struct{}
}

// Collect folds a set of users' plan histories into the fact table. Per user
// only the latest submitted plan contributes; breakdown rows are kept only
// when their week ending id is in weekIDs regardless of the entry's date
// range. Duplicate breakdown rows for the same week are emitted as separate
// facts and summed by the projections, never deduplicated.
func Collect(plans []Plan, weekIDs []int64) []Fact {
	inWindow := make(map[int64]bool, len(weekIDs))
	for _, id := range weekIDs {
		inWindow[id] = true
	}

	var facts []Fact
	for _, userPlans := range ordered(groupByUser(plans), plans) {
		plan := SelectLatestSubmittedPlan(userPlans)
		if plan == nil {
			continue
		}
		for _, entry := range plan.Entries {
			for _, bd := range entry.Breakdowns {
				if !inWindow[bd.WeekEndingID] {
					continue
				}
				facts = append(facts, Fact{
					UserID:      plan.UserID,
					WeekID:      bd.WeekEndingID,
					ProjectID:   entry.ProjectID,
					ProjectName: entry.ProjectName,
					Category:    entry.CategoryName,
					Hours:       bd.Hours,
				})
			}
		}
	}
	return facts
}

// ordered yields each user's plans in first-seen order of the input slice so
// the fact table, and every insertion-ordered projection of it, is stable.
func ordered(grouped map[int64][]Plan, plans []Plan) [][]Plan {
	seen := make(map[int64]bool, len(grouped))
	out := make([][]Plan, 0, len(grouped))
	for _, p := range plans {
		if seen[p.UserID] {
			continue
		}
		seen[p.UserID] = true
		out = append(out, grouped[p.UserID])
	}
	return out
}

// PerUserWeekly projects the facts into a per-user weekly hours map. Every
// requested user and week appears, zero-filled: a user with no submitted
// plan contributes zero across all weeks rather than being absent.
func PerUserWeekly(facts []Fact, userIDs, weekIDs []int64) map[int64]map[int64]float64 {
	out := make(map[int64]map[int64]float64, len(userIDs))
	for _, uid := range userIDs {
		weekly := make(map[int64]float64, len(weekIDs))
		for _, wid := range weekIDs {
			weekly[wid] = 0
		}
		out[uid] = weekly
	}
	for _, f := range facts {
		weekly, ok := out[f.UserID]
		if !ok {
			continue
		}
		weekly[f.WeekID] += f.Hours
	}
	return out
}

// PerProject projects the facts into per-project totals with the
// billable/non-billable split, in first-seen order. Facts without a project
// (non-project time such as holiday) are skipped here; they still count in
// the weekly and team projections.
func PerProject(facts []Fact) []ProjectTotal {
	index := make(map[int64]int)
	totals := make([]ProjectTotal, 0)
	for _, f := range facts {
		if f.ProjectID == nil {
			continue
		}
		pid := *f.ProjectID
		i, ok := index[pid]
		if !ok {
			i = len(totals)
			index[pid] = i
			totals = append(totals, ProjectTotal{
				ProjectID:    pid,
				ProjectName:  f.ProjectName,
				Contributors: make(map[int64]struct{}),
			})
		}
		totals[i].ForecastHours += f.Hours
		if IsBillableCategory(f.Category) {
			totals[i].BillableHours += f.Hours
		} else {
			totals[i].NonBillableHours += f.Hours
		}
		totals[i].Contributors[f.UserID] = struct{}{}
	}
	return totals
}

// TeamWeekly projects the facts into a flat per-week total summed across all
// users, zero-filled for every requested week.
func TeamWeekly(facts []Fact, weekIDs []int64) map[int64]float64 {
	out := make(map[int64]float64, len(weekIDs))
	for _, wid := range weekIDs {
		out[wid] = 0
	}
	for _, f := range facts {
		if _, ok := out[f.WeekID]; !ok {
			continue
		}
		out[f.WeekID] += f.Hours
	}
	return out
}

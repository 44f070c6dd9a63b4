package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads submitted forecast plans for aggregation.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a forecast repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SubmittedPlans fetches every submitted plan for the given users, each with
// its entries and the weekly breakdown rows pre-filtered to weekIDs. Drafts
// are excluded in SQL; picking the single authoritative plan per user stays
// in SelectLatestSubmittedPlan so the rule is testable without a database.
func (r *Repository) SubmittedPlans(ctx context.Context, userIDs, weekIDs []int64) ([]Plan, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("forecast repo not initialised")
	}
	if len(userIDs) == 0 {
		return []Plan{}, nil
	}
	const query = `
SELECT p.id, p.user_id, p.created_at, p.submitted_at,
       e.id, e.category_id, c.name, e.project_id, pr.name,
       e.from_date, e.to_date, e.hours_per_week, e.potential_extension,
       b.week_ending_id, b.hours
FROM forecast_plans p
LEFT JOIN forecast_entries e ON e.plan_id = p.id
LEFT JOIN categories c ON c.id = e.category_id
LEFT JOIN projects pr ON pr.id = e.project_id
LEFT JOIN forecast_weekly_breakdowns b
       ON b.entry_id = e.id AND b.week_ending_id = ANY($2)
WHERE p.user_id = ANY($1) AND p.submitted_at IS NOT NULL
ORDER BY p.user_id, p.id, e.id, b.week_ending_id`
	rows, err := r.pool.Query(ctx, query, userIDs, weekIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]Plan, 0)
	planIndex := make(map[int64]int)
	entryIndex := make(map[int64]int)

	for rows.Next() {
		var (
			planID, userID   int64
			createdAt        time.Time
			submittedAt      pgtype.Timestamptz
			entryID          pgtype.Int8
			categoryID       pgtype.Int8
			categoryName     pgtype.Text
			projectID        pgtype.Int8
			projectName      pgtype.Text
			fromDate, toDate pgtype.Date
			hoursPerWeek     pgtype.Float8
			extension        pgtype.Date
			breakdownWeek    pgtype.Int8
			breakdownHours   pgtype.Float8
		)
		if err := rows.Scan(
			&planID, &userID, &createdAt, &submittedAt,
			&entryID, &categoryID, &categoryName, &projectID, &projectName,
			&fromDate, &toDate, &hoursPerWeek, &extension,
			&breakdownWeek, &breakdownHours,
		); err != nil {
			return nil, err
		}

		pi, ok := planIndex[planID]
		if !ok {
			pi = len(plans)
			planIndex[planID] = pi
			plan := Plan{ID: planID, UserID: userID, CreatedAt: createdAt}
			if submittedAt.Valid {
				at := submittedAt.Time
				plan.SubmittedAt = &at
			}
			plans = append(plans, plan)
		}

		// A submitted plan may hold no entries at all; it still must reach
		// the latest-wins selection so it can zero out older plans.
		if !entryID.Valid {
			continue
		}

		ei, ok := entryIndex[entryID.Int64]
		if !ok {
			entry := Entry{
				ID:           entryID.Int64,
				PlanID:       planID,
				CategoryID:   categoryID.Int64,
				FromDate:     fromDate.Time,
				ToDate:       toDate.Time,
				HoursPerWeek: hoursPerWeek.Float64,
			}
			if categoryName.Valid {
				entry.CategoryName = categoryName.String
			}
			if projectID.Valid {
				id := projectID.Int64
				entry.ProjectID = &id
			}
			if projectName.Valid {
				entry.ProjectName = projectName.String
			}
			if extension.Valid {
				ext := extension.Time
				entry.PotentialExtension = &ext
			}
			ei = len(plans[pi].Entries)
			entryIndex[entryID.Int64] = ei
			plans[pi].Entries = append(plans[pi].Entries, entry)
		}

		if breakdownWeek.Valid {
			plans[pi].Entries[ei].Breakdowns = append(plans[pi].Entries[ei].Breakdowns, WeeklyBreakdown{
				WeekEndingID: breakdownWeek.Int64,
				Hours:        breakdownHours.Float64,
			})
		}
	}
	return plans, rows.Err()
}

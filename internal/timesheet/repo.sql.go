package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads timesheet entries for aggregation.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a timesheet repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Entries fetches every timesheet entry for the given users and weeks,
// resolving billability and project attribution through the bill code chain
// in SQL. LEFT JOINs keep entries with a broken chain in the result set.
func (r *Repository) Entries(ctx context.Context, userIDs, weekIDs []int64) ([]Entry, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("timesheet repo not initialised")
	}
	if len(userIDs) == 0 || len(weekIDs) == 0 {
		return []Entry{}, nil
	}
	const query = `
SELECT te.id, te.timesheet_id, t.user_id, t.week_ending_id,
       te.hours, te.work_date,
       COALESCE(bc.is_billable, FALSE),
       pr.id, pr.name
FROM timesheet_entries te
JOIN timesheets t ON t.id = te.timesheet_id
LEFT JOIN bill_codes bc ON bc.id = te.bill_code_id
LEFT JOIN work_items wi ON wi.id = bc.work_item_id
LEFT JOIN codes co ON co.id = wi.code_id
LEFT JOIN projects pr ON pr.id = co.project_id
WHERE t.user_id = ANY($1) AND t.week_ending_id = ANY($2)
ORDER BY t.user_id, t.week_ending_id, te.id`
	rows, err := r.pool.Query(ctx, query, userIDs, weekIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e           Entry
			workDate    time.Time
			projectID   pgtype.Int8
			projectName pgtype.Text
		)
		if err := rows.Scan(
			&e.ID, &e.TimesheetID, &e.UserID, &e.WeekID,
			&e.Hours, &workDate,
			&e.Billable,
			&projectID, &projectName,
		); err != nil {
			return nil, err
		}
		e.WorkDate = workDate
		if projectID.Valid {
			id := projectID.Int64
			e.ProjectID = &id
			e.ProjectName = projectName.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

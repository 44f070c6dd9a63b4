package forecast

// SelectLatestSubmittedPlan picks the authoritative plan from a user's plan
// history: the one with the most recent non-nil SubmittedAt. Drafts never
// qualify. Returns nil when no plan has been submitted.
func SelectLatestSubmittedPlan(plans []Plan) *Plan {
	var latest *Plan
	for i := range plans {
		p := &plans[i]
		if p.SubmittedAt == nil {
			continue
		}
		if latest == nil || p.SubmittedAt.After(*latest.SubmittedAt) {
			latest = p
		}
	}
	return latest
}

// groupByUser partitions plans by owning user preserving slice order.
func groupByUser(plans []Plan) map[int64][]Plan {
	grouped := make(map[int64][]Plan)
	for _, p := range plans {
		grouped[p.UserID] = append(grouped[p.UserID], p)
	}
	return grouped
}

package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup pre-populates the analytics caches per manager.
	TaskAnalyticsWarmup = "analytics:warmup"
)

// AnalyticsWarmupPayload configures a warmup run.
type AnalyticsWarmupPayload struct {
	Weeks int `json:"weeks"`
}

// NewAnalyticsWarmupTask constructs an Asynq task for cache warmup.
func NewAnalyticsWarmupTask(weeks int) (*asynq.Task, error) {
	data, err := json.Marshal(AnalyticsWarmupPayload{Weeks: weeks})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, data), nil
}

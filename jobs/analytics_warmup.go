package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crewplan/crewplan/internal/analytics"
	jobmetrics "github.com/crewplan/crewplan/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ManagerSource lists the users whose dashboards are worth pre-warming.
type ManagerSource interface {
	ManagerIDs(ctx context.Context) ([]int64, error)
}

// AnalyticsWarmupJob pre-populates the analytics caches for every manager so
// the first dashboard load of the day is served warm.
type AnalyticsWarmupJob struct {
	Analytics *analytics.Service
	Managers  ManagerSource
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(analyticsSvc *analytics.Service, managers ManagerSource, logger *slog.Logger, metrics *jobmetrics.Metrics) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{
		Analytics: analyticsSvc,
		Managers:  managers,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes analytics warmup tasks.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload AnalyticsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	weeks := analytics.ClampWeeks(payload.Weeks)

	tracker := j.metrics().Track(TaskAnalyticsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("weeks", weeks))
	logger.Info("starting analytics warmup")

	if j.Managers == nil {
		resultErr = errors.New("analytics warmup: manager source not configured")
		return resultErr
	}
	managerIDs, err := j.Managers.ManagerIDs(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load managers", slog.Any("error", err))
		return resultErr
	}
	if len(managerIDs) == 0 {
		logger.Info("no managers discovered for warmup")
		return resultErr
	}

	started := j.now()
	for _, managerID := range managerIDs {
		j.warmManager(ctx, managerID, weeks)
	}
	logger.Info("completed analytics warmup",
		slog.Int("managers", len(managerIDs)),
		slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *AnalyticsWarmupJob) warmManager(ctx context.Context, managerID int64, weeks int) {
	if j.Analytics == nil {
		return
	}
	// Tighten each manager's warmup with a timeout to avoid long-running jobs.
	managerCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	_ = j.Analytics.TeamCapacity(managerCtx, managerID, weeks)
	_ = j.Analytics.TeamUtilizationTrend(managerCtx, managerID, weeks)
	_ = j.Analytics.ProjectAnalyticsList(managerCtx, managerID, weeks)
	_ = j.Analytics.ForecastVsActuals(managerCtx, managerID, weeks)
	_ = j.Analytics.Summary(managerCtx, managerID, weeks)
}

func (j *AnalyticsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAnalyticsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskAnalyticsWarmup))
}

func (j *AnalyticsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *AnalyticsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

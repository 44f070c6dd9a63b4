package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/crewplan/crewplan/internal/analytics"
	"github.com/crewplan/crewplan/internal/app"
	"github.com/crewplan/crewplan/internal/forecast"
	"github.com/crewplan/crewplan/internal/platform/cache"
	"github.com/crewplan/crewplan/internal/platform/db"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/timesheet"
	"github.com/crewplan/crewplan/internal/users"
	"github.com/crewplan/crewplan/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	usersRepo := users.NewRepository(pool)
	store := analytics.NewSQLStore(
		usersRepo,
		schedule.NewRepository(pool),
		forecast.NewRepository(pool),
		timesheet.NewRepository(pool),
	)
	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	analyticsService := analytics.NewService(store, analyticsCache, logger)

	warmupJob := jobs.NewAnalyticsWarmupJob(analyticsService, usersRepo, logger, nil)
	warmupTask, err := jobs.NewAnalyticsWarmupTask(analytics.DefaultWeeks)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAnalyticsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	// Warm the caches right away instead of waiting for the first cron tick.
	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Warn("build jobs client", slog.Any("error", err))
	} else {
		if _, err := client.EnqueueAnalyticsWarmup(ctx, analytics.DefaultWeeks); err != nil {
			logger.Warn("enqueue initial warmup", slog.Any("error", err))
		}
		if err := client.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

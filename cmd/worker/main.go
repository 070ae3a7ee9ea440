package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/config"
	"github.com/voltmart/storefront-gateway/internal/dashboard"
)

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	cancel()

	api := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout)
	orch := dashboard.New(api, dashboard.NewCache(rdb, cfg.SnapshotTTL), logger)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	srv := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 2})
	mux := asynq.NewServeMux()
	mux.Handle(dashboard.TaskWarmup, &dashboard.WarmupHandler{Orch: orch, Logger: logger})

	if len(cfg.WarmupScopes) == 0 {
		logger.Warn("WARMUP_SCOPES unset: warmup will run with nothing to do")
	}
	scopes := make([]dashboard.WarmupScope, 0, len(cfg.WarmupScopes))
	for _, s := range cfg.WarmupScopes {
		scopes = append(scopes, dashboard.WarmupScope{UserID: s.UserID, Token: s.Token})
	}
	task, err := dashboard.NewWarmupTask(scopes, cfg.WarmupPeriods)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register(cfg.WarmupCron, task); err != nil {
		logger.Error("register warmup schedule", slog.Any("error", err))
		os.Exit(1)
	}

	errCh := make(chan error, 2)
	go func() { errCh <- scheduler.Run() }()
	go func() { errCh <- srv.Run(mux) }()

	logger.Info("worker started", slog.String("cron", cfg.WarmupCron))
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("worker exit", slog.Any("error", err))
		}
	}
	scheduler.Shutdown()
	srv.Shutdown()
}

package cron

import (
	"context"
	"fmt"
	"time"

	"beautybook/config"
	"beautybook/services/notification"
	"beautybook/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the Redis connection of the reminder queue, shared by the
// enqueuing client and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewReminderMux routes reminder tasks to the notifier.
func NewReminderMux(notifier notification.Notifier, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, tasks.HandleReminderTask(notifier, logger))
	return mux
}

// RunReminderWorker processes reminder tasks until ctx is done.
func RunReminderWorker(ctx context.Context, notifier notification.Notifier, logger *zap.Logger) error {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	mux := NewReminderMux(notifier, logger)

	go monitorRedisConnection(ctx, logger)

	logger.Info("Starting reminder worker")
	const maxAttempts = 5
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = srv.Start(mux); err == nil {
			break
		}
		logger.Warn("Failed to start reminder worker",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*2) * time.Second):
		}
	}
	if err != nil {
		return fmt.Errorf("reminder worker did not start after %d attempts: %w", maxAttempts, err)
	}

	<-ctx.Done()
	logger.Info("Stopping reminder worker")
	srv.Shutdown()
	return nil
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	opt := QueueRedisOpt()
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Reminder queue Redis connection lost", zap.Error(err))
			}
		}
	}
}

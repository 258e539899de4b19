package cron

import (
	"context"
	"fmt"
	"time"

	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper evicts idle booking sessions.
type Sweeper interface {
	Sweep(ctx context.Context, maxIdle time.Duration) int
}

// SweepJob runs one eviction pass.
func SweepJob(s Sweeper, maxIdle time.Duration, logger *zap.Logger) func() {
	return func() {
		if n := s.Sweep(context.Background(), maxIdle); n > 0 {
			logger.Info("Evicted idle booking sessions", zap.Int("count", n), zap.Duration("maxIdle", maxIdle))
		}
	}
}

// StartSessionSweeper schedules SweepJob with a cron spec such as
// "@every 5m". The caller stops the returned scheduler.
func StartSessionSweeper(s Sweeper, spec string, maxIdle time.Duration, logger *zap.Logger) (*robfig.Cron, error) {
	c := robfig.New()
	if _, err := c.AddFunc(spec, SweepJob(s, maxIdle, logger)); err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", spec, err)
	}
	c.Start()
	logger.Info("Session sweeper started", zap.String("schedule", spec), zap.Duration("maxIdle", maxIdle))
	return c, nil
}

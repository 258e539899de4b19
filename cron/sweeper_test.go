package cron_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"beautybook/cron"

	"go.uber.org/zap"
)

type countingSweeper struct {
	calls   atomic.Int32
	maxIdle atomic.Int64
}

func (s *countingSweeper) Sweep(ctx context.Context, maxIdle time.Duration) int {
	s.calls.Add(1)
	s.maxIdle.Store(int64(maxIdle))
	return 1
}

func TestSweepJob(t *testing.T) {
	s := &countingSweeper{}
	cron.SweepJob(s, 30*time.Minute, zap.NewNop())()
	if s.calls.Load() != 1 || time.Duration(s.maxIdle.Load()) != 30*time.Minute {
		t.Fatalf("calls=%d maxIdle=%v", s.calls.Load(), time.Duration(s.maxIdle.Load()))
	}
}

func TestStartSessionSweeper_RejectsBadSchedule(t *testing.T) {
	if _, err := cron.StartSessionSweeper(&countingSweeper{}, "every now and then", time.Minute, zap.NewNop()); err == nil {
		t.Fatal("expected error for bad schedule")
	}
}

func TestStartSessionSweeper_Runs(t *testing.T) {
	s := &countingSweeper{}
	c, err := cron.StartSessionSweeper(s, "@every 1s", time.Minute, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for s.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper never ran")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

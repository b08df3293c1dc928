package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls   atomic.Int32
	removed int
}

func (c *countingSweeper) CleanupStale(finishedTTL, idleTTL time.Duration) int {
	c.calls.Add(1)
	return c.removed
}

func TestRunOnceSumsSweepers(t *testing.T) {
	a := &countingSweeper{removed: 2}
	b := &countingSweeper{removed: 3}
	w := NewWorker(time.Minute, time.Hour, 24*time.Hour, a, b)

	if n := w.RunOnce(); n != 5 {
		t.Fatalf("removed %d, want 5", n)
	}
}

func TestStartStopsWithContext(t *testing.T) {
	s := &countingSweeper{}
	w := NewWorker(10*time.Millisecond, time.Hour, time.Hour, s)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for s.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("worker ran %d times", s.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	time.Sleep(50 * time.Millisecond)
	after := s.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if s.calls.Load() != after {
		t.Fatalf("worker kept running after cancel")
	}
}

func TestNonPositiveIntervalFallsBack(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		w := NewWorker(interval, time.Hour, time.Hour)
		if w.Interval != DefaultInterval {
			t.Fatalf("NewWorker(%v).Interval = %v", interval, w.Interval)
		}
	}

	s := &countingSweeper{}
	w := &Worker{Sweepers: []Sweeper{s}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx) // a zero ticker interval would panic

	deadline := time.Now().Add(2 * time.Second)
	for s.calls.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("first sweep never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

package cleanup

import (
	"context"
	"log"
	"time"
)

// DefaultInterval replaces a zero or negative sweep interval.
const DefaultInterval = 15 * time.Minute

// Sweeper is an in-memory store that can drop stale games.
type Sweeper interface {
	CleanupStale(finishedTTL, idleTTL time.Duration) int
}

type Worker struct {
	Sweepers    []Sweeper
	Interval    time.Duration
	FinishedTTL time.Duration
	IdleTTL     time.Duration
}

func NewWorker(interval, finishedTTL, idleTTL time.Duration, sweepers ...Sweeper) *Worker {
	if interval <= 0 {
		log.Printf("[CLEANUP] Invalid interval %v, using %v", interval, DefaultInterval)
		interval = DefaultInterval
	}
	return &Worker{
		Sweepers:    sweepers,
		Interval:    interval,
		FinishedTTL: finishedTTL,
		IdleTTL:     idleTTL,
	}
}

// Start runs one pass now and then one per interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	go func() {
		w.RunOnce()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.RunOnce()
			}
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

// RunOnce sweeps every store and returns the total removed.
func (w *Worker) RunOnce() int {
	total := 0
	for _, s := range w.Sweepers {
		total += s.CleanupStale(w.FinishedTTL, w.IdleTTL)
	}
	if total > 0 {
		log.Printf("[CLEANUP] Removed %d stale games", total)
	}
	return total
}

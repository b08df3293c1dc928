package client

import (
	"context"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

// PollInterval matches the refresh rate of the web client.
const PollInterval = 1500 * time.Millisecond

// Poll refreshes the attached game every interval and hands each snapshot to
// fn until ctx is cancelled. Failed refreshes are skipped.
func (s *Session) Poll(ctx context.Context, interval time.Duration, fn func(*domain.GameState)) {
	if interval <= 0 {
		interval = PollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state, err := s.Refresh(ctx)
			if err != nil {
				continue
			}
			if fn != nil {
				fn(state)
			}
		}
	}
}

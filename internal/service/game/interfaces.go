package game

import (
	"context"
	"log"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

// ResultRecorder keeps score and history of finished games.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result domain.GameResult) error
}

// UserDirectory answers whether a name belongs to a registered user.
type UserDirectory interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// Notifier receives every lobby snapshot after a change. A nil state means
// the lobby was destroyed.
type Notifier interface {
	Publish(code string, state *domain.GameState)
}

// recordAsync hands a finished game to the recorder off the request path.
func recordAsync(recorder ResultRecorder, result domain.GameResult) {
	if recorder == nil {
		return
	}

	go func() {
		if err := recorder.RecordResult(context.Background(), result); err != nil {
			log.Printf("[GAME] Error recording result of %s game %s: %v", result.Mode, result.GameID, err)
			return
		}
		log.Printf("[GAME] Result of %s game %s recorded", result.Mode, result.GameID)
	}()
}

// stale reports whether a game should be swept.
func stale(g *domain.GameState, finishedTTL, idleTTL time.Duration, now time.Time) bool {
	if g.IsFinished() && g.FinishedAt != nil {
		return now.Sub(*g.FinishedAt) > finishedTTL
	}
	return now.Sub(g.UpdatedAt) > idleTTL
}

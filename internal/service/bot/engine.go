package bot

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyHard Difficulty = "hard"
)

// ParseDifficulty falls back to easy for unknown names.
func ParseDifficulty(s string) Difficulty {
	if Difficulty(s) == DifficultyHard {
		return DifficultyHard
	}
	return DifficultyEasy
}

// Engine picks moves for the computer seat of an ai game.
// It is safe for concurrent use; the random source is guarded.
type Engine struct {
	difficulty Difficulty
	depth      int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine uses rng for tie-breaking. A nil rng is seeded from the clock.
func NewEngine(difficulty Difficulty, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		difficulty: difficulty,
		depth:      MinimaxDepth,
		rng:        rng,
	}
}

func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Choose returns the column the bot plays for self in state.
func (e *Engine) Choose(state *domain.GameState, self domain.PlayerID) (int, error) {
	opponent := getOpponent(self)
	connect := state.Config.Connect

	switch e.difficulty {
	case DifficultyHard:
		return PickColumnMinimax(state.Board, connect, self, opponent, e.depth)
	default:
		e.mu.Lock()
		defer e.mu.Unlock()
		return PickColumn(state.Board, connect, self, opponent, e.rng)
	}
}

func getOpponent(p domain.PlayerID) domain.PlayerID {
	if p == domain.Player1 {
		return domain.Player2
	}
	return domain.Player1
}

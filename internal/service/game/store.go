package game

import (
	"context"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type CreateGameRequest struct {
	ID      int64           `json:"id"`
	Players []domain.Player `json:"players"`
	Rows    int             `json:"rows"`
	Cols    int             `json:"cols"`
	Connect int             `json:"connect"`
	Mode    domain.Mode     `json:"mode,omitempty"`
	// Owner is the authenticated creator; only the owner's history records the result.
	Owner string `json:"-"`
}

type localGame struct {
	mu    sync.Mutex
	mode  domain.Mode
	owner string
	state *domain.GameState
}

// Store holds the local games, keyed by the id the client picked.
type Store struct {
	games    map[int64]*localGame
	mu       sync.RWMutex
	recorder ResultRecorder
	defaults domain.GameConfig
}

func NewStore(recorder ResultRecorder) *Store {
	return &Store{
		games:    make(map[int64]*localGame),
		recorder: recorder,
		defaults: domain.GameConfig{}.WithDefaults(),
	}
}

// SetDefaults replaces the board used when a request leaves sizes at zero.
func (s *Store) SetDefaults(cfg domain.GameConfig) {
	s.defaults = cfg.WithDefaults()
}

func (s *Store) Create(ctx context.Context, req CreateGameRequest) (*domain.GameState, error) {
	cfg := domain.GameConfig{Rows: req.Rows, Cols: req.Cols, Connect: req.Connect}.WithDefaultsFrom(s.defaults)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidatePlayers(req.Players); err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode != domain.ModeAI {
		mode = domain.ModeLocal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[req.ID]; exists {
		return nil, domain.ErrGameExists
	}

	state := domain.NewGameState(req.ID, req.Players, cfg)
	s.games[req.ID] = &localGame{mode: mode, owner: req.Owner, state: state}

	log.Printf("[GAME] Created %s game %d: %s vs %s (%dx%d, connect %d)",
		mode, req.ID, req.Players[0].Name, req.Players[1].Name, cfg.Rows, cfg.Cols, cfg.Connect)
	return state.Clone(), nil
}

// List returns snapshots ordered by id.
func (s *Store) List() []*domain.GameState {
	s.mu.RLock()
	games := make([]*localGame, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	s.mu.RUnlock()

	out := make([]*domain.GameState, 0, len(games))
	for _, g := range games {
		g.mu.Lock()
		out = append(out, g.state.Clone())
		g.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Get(id int64) (*domain.GameState, error) {
	g, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone(), nil
}

// Move plays column for player in game id and returns the new snapshot.
func (s *Store) Move(ctx context.Context, id int64, column int, player domain.PlayerID) (*domain.GameState, error) {
	g, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.state.ApplyMove(player, column); err != nil {
		return nil, err
	}

	if g.state.IsFinished() {
		log.Printf("[GAME] Game %d finished: %s after %d moves", id, g.state.Status, g.state.MoveCount)
		result := domain.ResultOf(g.state, strconv.FormatInt(id, 10), g.mode)
		result.Owner = g.owner
		recordAsync(s.recorder, result)
	}
	return g.state.Clone(), nil
}

func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return domain.ErrGameNotFound
	}
	delete(s.games, id)
	log.Printf("[GAME] Deleted game %d", id)
	return nil
}

// CleanupStale drops finished games older than finishedTTL and games
// untouched for idleTTL. It returns how many were removed.
func (s *Store) CleanupStale(finishedTTL, idleTTL time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for id, g := range s.games {
		g.mu.Lock()
		expired := stale(g.state, finishedTTL, idleTTL, now)
		g.mu.Unlock()
		if expired {
			delete(s.games, id)
			count++
		}
	}

	if count > 0 {
		log.Printf("[GAME] Memory cleanup: Removed %d stale local games", count)
	}
	return count
}

func (s *Store) lookup(id int64) (*localGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

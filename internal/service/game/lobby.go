package game

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type CreateLobbyRequest struct {
	Code       string `json:"gameCode"`
	PlayerName string `json:"playerName"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Connect    int    `json:"connect"`
	VerifyUser bool   `json:"verify_user"`
}

type LobbySummary struct {
	RoomID  string            `json:"room_id"`
	Players []string          `json:"players"`
	Status  domain.GameStatus `json:"status"`
}

// lobby publishes while mu is held so watchers see snapshots in order.
type lobby struct {
	mu     sync.Mutex
	state  *domain.GameState
	closed bool
}

// Lobbies holds the online games, keyed by their shareable code.
type Lobbies struct {
	lobbies  map[string]*lobby
	mu       sync.RWMutex
	users    UserDirectory
	recorder ResultRecorder
	notifier Notifier
	nextID   int64
	defaults domain.GameConfig
}

func NewLobbies(users UserDirectory, recorder ResultRecorder) *Lobbies {
	return &Lobbies{
		lobbies:  make(map[string]*lobby),
		users:    users,
		recorder: recorder,
		defaults: domain.GameConfig{}.WithDefaults(),
	}
}

// SetDefaults replaces the board used when a request leaves sizes at zero.
func (l *Lobbies) SetDefaults(cfg domain.GameConfig) {
	l.defaults = cfg.WithDefaults()
}

// SetNotifier attaches the subscriber fan-out. It must be called before serving.
func (l *Lobbies) SetNotifier(n Notifier) {
	l.notifier = n
}

func GenerateCode() string {
	return "room-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func (l *Lobbies) Create(ctx context.Context, req CreateLobbyRequest) (*domain.GameState, error) {
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		return nil, domain.ErrInvalidPlayers
	}
	cfg := domain.GameConfig{Rows: req.Rows, Cols: req.Cols, Connect: req.Connect}.WithDefaultsFrom(l.defaults)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if req.VerifyUser {
		if err := l.verify(ctx, name); err != nil {
			return nil, err
		}
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = GenerateCode()
	}

	l.mu.Lock()
	if _, exists := l.lobbies[code]; exists {
		l.mu.Unlock()
		return nil, domain.ErrGameExists
	}
	l.nextID++
	state := domain.NewGameState(l.nextID, []domain.Player{{ID: domain.Player1, Name: name}}, cfg)
	state.Code = code
	lb := &lobby{state: state}
	lb.mu.Lock()
	l.lobbies[code] = lb
	l.mu.Unlock()

	snapshot := state.Clone()
	l.publish(code, snapshot)
	lb.mu.Unlock()

	log.Printf("[LOBBY] %s created lobby %s (%dx%d, connect %d)", name, code, cfg.Rows, cfg.Cols, cfg.Connect)
	return snapshot, nil
}

// Join seats name as player 2.
func (l *Lobbies) Join(ctx context.Context, code, name string, verifyUser bool) (*domain.GameState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidPlayers
	}
	if verifyUser {
		if err := l.verify(ctx, name); err != nil {
			return nil, err
		}
	}

	lb, ok := l.lookup(code)
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.closed {
		return nil, domain.ErrGameNotFound
	}
	if len(lb.state.Players) >= 2 {
		return nil, domain.ErrLobbyFull
	}
	if _, taken := lb.state.PlayerByName(name); taken {
		return nil, domain.ErrNameTaken
	}
	lb.state.Players = append(lb.state.Players, domain.Player{ID: domain.Player2, Name: name})
	lb.state.Touch()
	snapshot := lb.state.Clone()
	l.publish(code, snapshot)

	log.Printf("[LOBBY] %s joined lobby %s", name, code)
	return snapshot, nil
}

// Lobbies lists every lobby ordered by code.
func (l *Lobbies) Lobbies() []LobbySummary {
	l.mu.RLock()
	codes := make([]string, 0, len(l.lobbies))
	all := make(map[string]*lobby, len(l.lobbies))
	for code, lb := range l.lobbies {
		codes = append(codes, code)
		all[code] = lb
	}
	l.mu.RUnlock()

	sort.Strings(codes)
	out := make([]LobbySummary, 0, len(codes))
	for _, code := range codes {
		lb := all[code]
		lb.mu.Lock()
		names := make([]string, 0, len(lb.state.Players))
		for _, p := range lb.state.Players {
			names = append(names, p.Name)
		}
		out = append(out, LobbySummary{RoomID: code, Players: names, Status: lb.state.Status})
		lb.mu.Unlock()
	}
	return out
}

func (l *Lobbies) State(code string) (*domain.GameState, error) {
	lb, ok := l.lookup(code)
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.closed {
		return nil, domain.ErrGameNotFound
	}
	return lb.state.Clone(), nil
}

func (l *Lobbies) Move(ctx context.Context, code string, column int, player domain.PlayerID) (*domain.GameState, error) {
	lb, ok := l.lookup(code)
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.closed {
		return nil, domain.ErrGameNotFound
	}
	if _, err := lb.state.ApplyMove(player, column); err != nil {
		return nil, err
	}
	snapshot := lb.state.Clone()
	l.publish(code, snapshot)

	if snapshot.IsFinished() {
		log.Printf("[LOBBY] Lobby %s finished: %s after %d moves", code, snapshot.Status, snapshot.MoveCount)
		recordAsync(l.recorder, domain.ResultOf(snapshot, code, domain.ModeOnline))
	}
	return snapshot, nil
}

// Reset starts a new round in the same lobby with the same seats.
func (l *Lobbies) Reset(code string) (*domain.GameState, error) {
	lb, ok := l.lookup(code)
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.closed {
		return nil, domain.ErrGameNotFound
	}
	lb.state.Reset()
	snapshot := lb.state.Clone()
	l.publish(code, snapshot)

	log.Printf("[LOBBY] Lobby %s reset", code)
	return snapshot, nil
}

func (l *Lobbies) Destroy(code string) error {
	l.mu.Lock()
	lb, ok := l.lobbies[code]
	if !ok {
		l.mu.Unlock()
		return domain.ErrGameNotFound
	}
	delete(l.lobbies, code)
	l.mu.Unlock()

	l.close(code, lb)
	log.Printf("[LOBBY] Lobby %s destroyed", code)
	return nil
}

// Exists is used by the websocket handler before upgrading.
func (l *Lobbies) Exists(code string) bool {
	_, ok := l.lookup(code)
	return ok
}

func (l *Lobbies) CleanupStale(finishedTTL, idleTTL time.Duration) int {
	l.mu.Lock()
	now := time.Now()
	removed := make(map[string]*lobby)
	for code, lb := range l.lobbies {
		lb.mu.Lock()
		expired := stale(lb.state, finishedTTL, idleTTL, now)
		lb.mu.Unlock()
		if expired {
			delete(l.lobbies, code)
			removed[code] = lb
		}
	}
	l.mu.Unlock()

	for code, lb := range removed {
		l.close(code, lb)
	}
	if len(removed) > 0 {
		log.Printf("[LOBBY] Memory cleanup: Removed %d stale lobbies", len(removed))
	}
	return len(removed)
}

func (l *Lobbies) verify(ctx context.Context, name string) error {
	if l.users == nil {
		return nil
	}
	ok, err := l.users.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to verify user %s: %w", name, err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

func (l *Lobbies) lookup(code string) (*lobby, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	lb, ok := l.lobbies[code]
	return lb, ok
}

// close marks a lobby removed from the map and tells its watchers. Calls
// that looked the lobby up before the removal then fail with not found.
func (l *Lobbies) close(code string, lb *lobby) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.closed = true
	l.publish(code, nil)
}

// publish must be called with the lobby's mutex held.
func (l *Lobbies) publish(code string, state *domain.GameState) {
	if l.notifier != nil {
		l.notifier.Publish(code, state)
	}
}

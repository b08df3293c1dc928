package client

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/internal/service/bot"
	"github.com/Slivix/Projet-AOS/internal/service/game"
)

const (
	ErrNoGame      domain.Error = "no game in progress"
	ErrNotAttached domain.Error = "no online game attached"
	ErrNotSeated   domain.Error = "join a lobby to play"
	ErrBotsTurn    domain.Error = "wait for the bot to play"

	// BotPlayer is the seat the AI opponent takes in ai mode.
	BotPlayer = domain.Player2
	BotName   = "BOT"
)

// Session is one player's view of the game being played: the mode, the
// last snapshot received and the seat the player occupies.
type Session struct {
	api *API
	bot *bot.Engine

	mu        sync.Mutex
	mode      domain.Mode
	state     *domain.GameState
	code      string
	self      domain.PlayerID
	userName  string
	simulated bool
	offline   bool
}

func NewSession(api *API, userName string, engine *bot.Engine) *Session {
	if engine == nil {
		engine = bot.NewEngine(bot.DifficultyEasy, nil)
	}
	return &Session{
		api:      api,
		bot:      engine,
		mode:     domain.ModeLocal,
		userName: userName,
	}
}

// View is a consistent copy of the session for rendering.
type View struct {
	Mode      domain.Mode
	State     *domain.GameState
	Code      string
	Self      domain.PlayerID
	UserName  string
	Simulated bool
	Offline   bool
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Mode:      s.mode,
		Code:      s.code,
		Self:      s.self,
		UserName:  s.userName,
		Simulated: s.simulated,
		Offline:   s.offline,
	}
	if s.state != nil {
		v.State = s.state.Clone()
	}
	return v
}

func (s *Session) SetUserName(name string) {
	s.mu.Lock()
	s.userName = name
	s.mu.Unlock()
}

// adopt replaces the snapshot with an authoritative one and returns a copy of
// what the session now holds. A snapshot older than the authoritative one
// already held, such as a push overtaken by a poll, is ignored; a simulated
// snapshot is always replaced.
func (s *Session) adopt(state *domain.GameState) *domain.GameState {
	s.offline = false
	if cur := s.state; cur != nil && !s.simulated && cur.ID == state.ID && cur.Code == state.Code && !state.Supersedes(cur) {
		return cur.Clone()
	}
	s.state = state
	s.simulated = false
	return state.Clone()
}

// NewLocalGame creates a hot-seat game, or a game against the bot when ai
// is set. The caller always sits in seat 1.
func (s *Session) NewLocalGame(ctx context.Context, opponent string, ai bool, cfg domain.GameConfig) (*domain.GameState, error) {
	s.mu.Lock()
	name := s.userName
	s.mu.Unlock()

	mode := domain.ModeLocal
	if ai {
		mode = domain.ModeAI
		opponent = BotName
	}
	if strings.TrimSpace(opponent) == "" {
		opponent = "Bob"
	}

	state, err := s.api.CreateGame(ctx, game.CreateGameRequest{
		ID: time.Now().UnixMilli(),
		Players: []domain.Player{
			{ID: domain.Player1, Name: name},
			{ID: domain.Player2, Name: opponent},
		},
		Rows:    cfg.Rows,
		Cols:    cfg.Cols,
		Connect: cfg.Connect,
		Mode:    mode,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.code = ""
	s.self = domain.Player1
	s.state = nil
	return s.adopt(state), nil
}

// CreateLobby opens an online game with the caller as player 1. An empty
// code lets the server pick one.
func (s *Session) CreateLobby(ctx context.Context, code string, cfg domain.GameConfig, verifyUser bool) (*domain.GameState, error) {
	s.mu.Lock()
	name := s.userName
	s.mu.Unlock()

	state, err := s.api.CreateLobby(ctx, game.CreateLobbyRequest{
		Code:       code,
		PlayerName: name,
		Rows:       cfg.Rows,
		Cols:       cfg.Cols,
		Connect:    cfg.Connect,
		VerifyUser: verifyUser,
	})
	if err != nil {
		return nil, err
	}
	s.attach(state, domain.Player1)
	return state.Clone(), nil
}

func (s *Session) JoinLobby(ctx context.Context, code string, verifyUser bool) (*domain.GameState, error) {
	s.mu.Lock()
	name := s.userName
	s.mu.Unlock()

	state, err := s.api.JoinLobby(ctx, code, name, verifyUser)
	if err != nil {
		return nil, err
	}

	self := domain.Empty
	if p, ok := state.PlayerByName(name); ok {
		self = p.ID
	}
	s.attach(state, self)
	return state.Clone(), nil
}

func (s *Session) attach(state *domain.GameState, self domain.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = domain.ModeOnline
	s.code = state.Code
	s.self = self
	s.state = nil
	s.adopt(state)
}

func (s *Session) ListLobbies(ctx context.Context) ([]game.LobbySummary, error) {
	return s.api.Lobbies(ctx)
}

// Leave detaches from the online game. The lobby itself stays on the server.
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = ""
	s.self = domain.Empty
	s.state = nil
	s.simulated = false
	s.offline = false
}

// Refresh pulls the lobby snapshot. When the server is unreachable the last
// snapshot is kept and returned.
func (s *Session) Refresh(ctx context.Context) (*domain.GameState, error) {
	s.mu.Lock()
	mode, code, id := s.mode, s.code, int64(0)
	if s.state != nil {
		id = s.state.ID
	}
	hasState := s.state != nil
	s.mu.Unlock()

	var (
		state *domain.GameState
		err   error
	)
	switch {
	case mode == domain.ModeOnline && code != "":
		state, err = s.api.LobbyState(ctx, code)
	case mode != domain.ModeOnline && hasState:
		state, err = s.api.Game(ctx, id)
	default:
		return nil, ErrNotAttached
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if IsUnreachable(err) && s.state != nil {
			s.offline = true
			return s.state.Clone(), nil
		}
		return nil, err
	}
	// the lobby may have been left while the request was in flight
	if mode == domain.ModeOnline && s.code != code {
		return nil, ErrNotAttached
	}
	return s.adopt(state), nil
}

// Play drops a piece for the caller. Online moves that cannot reach the
// server are applied to the last snapshot and flagged as simulated.
func (s *Session) Play(ctx context.Context, column int) (*domain.GameState, error) {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return nil, ErrNoGame
	}
	if s.state.Status != domain.StatusActive {
		s.mu.Unlock()
		return nil, domain.ErrGameOver
	}
	mode, code, self := s.mode, s.code, s.self
	id := s.state.ID
	current, _ := s.state.CurrentPlayer()

	switch mode {
	case domain.ModeOnline:
		switch {
		case code == "":
			s.mu.Unlock()
			return nil, ErrNotAttached
		case self == domain.Empty:
			s.mu.Unlock()
			return nil, ErrNotSeated
		case len(s.state.Players) < 2:
			s.mu.Unlock()
			return nil, domain.ErrWaitingForOpponent
		case current.ID != self:
			s.mu.Unlock()
			return nil, domain.ErrNotYourTurn
		}
	case domain.ModeAI:
		if current.ID == BotPlayer {
			s.mu.Unlock()
			return nil, ErrBotsTurn
		}
	}
	s.mu.Unlock()

	if mode != domain.ModeOnline {
		// hot seat: whoever is to move plays
		state, err := s.api.MoveGame(ctx, id, column, current.ID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		kept := s.adopt(state)
		s.mu.Unlock()
		return kept, nil
	}

	state, err := s.api.MoveLobby(ctx, code, column, self)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if IsUnreachable(err) && s.state != nil {
			log.Printf("[CLIENT] Server unreachable, simulating move in column %d: %v", column, err)
			s.state = s.state.Simulate(self, column)
			s.simulated = true
			s.offline = true
			return s.state.Clone(), nil
		}
		return nil, err
	}
	return s.adopt(state), nil
}

// BotTurn lets the bot move when it is its turn in ai mode. It reports
// whether a move was played.
func (s *Session) BotTurn(ctx context.Context) (*domain.GameState, bool, error) {
	s.mu.Lock()
	if s.mode != domain.ModeAI || s.state == nil || s.state.Status != domain.StatusActive {
		s.mu.Unlock()
		return nil, false, nil
	}
	current, _ := s.state.CurrentPlayer()
	if current.ID != BotPlayer {
		s.mu.Unlock()
		return nil, false, nil
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	column, err := s.bot.Choose(snapshot, BotPlayer)
	if err != nil {
		return nil, false, err
	}

	state, err := s.api.MoveGame(ctx, snapshot.ID, column, BotPlayer)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	kept := s.adopt(state)
	s.mu.Unlock()
	return kept, true, nil
}

// Update applies a pushed snapshot of the attached lobby. A nil state means
// the lobby was destroyed.
func (s *Session) Update(code string, state *domain.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != domain.ModeOnline || s.code != code {
		return
	}
	if state == nil {
		s.code = ""
		s.self = domain.Empty
		s.state = nil
		return
	}
	s.adopt(state)
}

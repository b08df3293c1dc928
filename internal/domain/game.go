package domain

import "time"

type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

type GameConfig struct {
	Rows    int `json:"rows"`
	Cols    int `json:"cols"`
	Connect int `json:"connect"`
}

// WithDefaults fills zero fields with the standard 6x7 connect-4 values.
func (c GameConfig) WithDefaults() GameConfig {
	return c.WithDefaultsFrom(GameConfig{Rows: DefaultRows, Cols: DefaultColumns, Connect: DefaultConnect})
}

// WithDefaultsFrom fills zero fields from base, then from the standard values.
func (c GameConfig) WithDefaultsFrom(base GameConfig) GameConfig {
	if c.Rows == 0 {
		c.Rows = base.Rows
	}
	if c.Cols == 0 {
		c.Cols = base.Cols
	}
	if c.Connect == 0 {
		c.Connect = base.Connect
	}
	if c.Rows == 0 {
		c.Rows = DefaultRows
	}
	if c.Cols == 0 {
		c.Cols = DefaultColumns
	}
	if c.Connect == 0 {
		c.Connect = DefaultConnect
	}
	return c
}

func (c GameConfig) Validate() error {
	if c.Rows < MinRows || c.Cols < MinColumns || c.Connect < MinConnect {
		return ErrInvalidConfig
	}
	return nil
}

// GameState is the authoritative snapshot of one game as served to clients.
type GameState struct {
	ID                 int64      `json:"id"`
	Code               string     `json:"code,omitempty"`
	Players            []Player   `json:"players"`
	Config             GameConfig `json:"config"`
	Board              Board      `json:"board"`
	CurrentPlayerIndex int        `json:"current_player_index"`
	Status             GameStatus `json:"status"`
	WinnerID           *PlayerID  `json:"winner_id"`
	MoveCount          int        `json:"move_count"`
	// Version grows with every change, resets included, so snapshots can be ordered.
	Version    int64      `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func NewGameState(id int64, players []Player, cfg GameConfig) *GameState {
	now := time.Now()
	return &GameState{
		ID:        id,
		Players:   append([]Player(nil), players...),
		Config:    cfg,
		Board:     NewBoard(cfg.Rows, cfg.Cols),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidatePlayers checks the two-player invariant of a full game.
func ValidatePlayers(players []Player) error {
	if len(players) != 2 {
		return ErrInvalidPlayers
	}
	if players[0].ID == Empty || players[1].ID == Empty || players[0].ID == players[1].ID {
		return ErrInvalidPlayers
	}
	return nil
}

func (g *GameState) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

func (g *GameState) CurrentPlayer() (Player, bool) {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return Player{}, false
	}
	return g.Players[g.CurrentPlayerIndex], true
}

func (g *GameState) PlayerByID(id PlayerID) (Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (g *GameState) PlayerByName(name string) (Player, bool) {
	for _, p := range g.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// Opponent returns the other seat of a two-player game.
func (g *GameState) Opponent(id PlayerID) (Player, bool) {
	for _, p := range g.Players {
		if p.ID != id {
			return p, true
		}
	}
	return Player{}, false
}

func (g *GameState) Winner() (Player, bool) {
	if g.WinnerID == nil {
		return Player{}, false
	}
	return g.PlayerByID(*g.WinnerID)
}

// ApplyMove is the guarded transition used by the authoritative services:
// the game must be active, seated by two players, and it must be player's turn.
func (g *GameState) ApplyMove(player PlayerID, column int) (int, error) {
	if g.Status != StatusActive {
		return NoLanding, ErrGameOver
	}
	if len(g.Players) < 2 {
		return NoLanding, ErrWaitingForOpponent
	}

	current, ok := g.CurrentPlayer()
	if !ok || current.ID != player {
		return NoLanding, ErrNotYourTurn
	}

	return g.apply(player, column)
}

// Simulate applies a move on a copy without the turn bookkeeping checks.
// Clients use it to stay consistent while the backend is unreachable.
// A finished game or an illegal column yields an unchanged copy.
func (g *GameState) Simulate(player PlayerID, column int) *GameState {
	next := g.Clone()
	if next.Status != StatusActive {
		return next
	}
	next.apply(player, column)
	return next
}

func (g *GameState) apply(player PlayerID, column int) (int, error) {
	row, outcome := Play(g.Board, column, player, g.Config.Connect)
	if outcome == OutcomeNoEffect {
		if column < 0 || column >= g.Board.Cols() {
			return NoLanding, ErrColumnOutOfRange
		}
		return NoLanding, ErrColumnFull
	}

	now := time.Now()
	g.MoveCount++
	g.Version++
	g.UpdatedAt = now

	switch outcome {
	case OutcomeWin:
		winner := player
		g.Status = StatusWon
		g.WinnerID = &winner
		g.FinishedAt = &now
	case OutcomeDraw:
		g.Status = StatusDraw
		g.FinishedAt = &now
	default:
		if len(g.Players) > 0 {
			g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
		}
	}
	return row, nil
}

// Touch records a change outside of a move, such as a player joining.
func (g *GameState) Touch() {
	g.Version++
	g.UpdatedAt = time.Now()
}

// Supersedes reports whether g may replace other: it is at least as recent.
func (g *GameState) Supersedes(other *GameState) bool {
	return other == nil || g.Version >= other.Version
}

// Reset starts a new round with the same players and configuration.
func (g *GameState) Reset() {
	now := time.Now()
	g.Board = NewBoard(g.Config.Rows, g.Config.Cols)
	g.Status = StatusActive
	g.WinnerID = nil
	g.CurrentPlayerIndex = 0
	g.MoveCount = 0
	g.Version++
	g.CreatedAt = now
	g.UpdatedAt = now
	g.FinishedAt = nil
}

// Clone creates a deep copy safe to hand out of a locked store.
func (g *GameState) Clone() *GameState {
	c := *g
	c.Players = append([]Player(nil), g.Players...)
	c.Board = g.Board.Clone()
	if g.WinnerID != nil {
		w := *g.WinnerID
		c.WinnerID = &w
	}
	if g.FinishedAt != nil {
		f := *g.FinishedAt
		c.FinishedAt = &f
	}
	return &c
}

// Duration is the wall time between creation and the end of the game (or now).
func (g *GameState) Duration() time.Duration {
	end := time.Now()
	if g.FinishedAt != nil {
		end = *g.FinishedAt
	}
	return end.Sub(g.CreatedAt)
}

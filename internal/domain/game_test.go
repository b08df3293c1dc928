package domain

import "testing"

func twoPlayers() []Player {
	return []Player{{ID: Player1, Name: "alice"}, {ID: Player2, Name: "bob"}}
}

func newTestGame(t *testing.T, cfg GameConfig) *GameState {
	t.Helper()
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config %+v: %v", cfg, err)
	}
	return NewGameState(1, twoPlayers(), cfg)
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  GameConfig
		ok   bool
	}{
		{"defaults", GameConfig{}.WithDefaults(), true},
		{"smallest board", GameConfig{Rows: 4, Cols: 4, Connect: 3}, true},
		{"too few rows", GameConfig{Rows: 3, Cols: 7, Connect: 4}, false},
		{"too few columns", GameConfig{Rows: 6, Cols: 3, Connect: 4}, false},
		{"connect two", GameConfig{Rows: 6, Cols: 7, Connect: 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err != ErrInvalidConfig {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidatePlayers(t *testing.T) {
	if err := ValidatePlayers(twoPlayers()); err != nil {
		t.Fatalf("two distinct players: %v", err)
	}
	bad := [][]Player{
		nil,
		{{ID: Player1, Name: "a"}},
		{{ID: Player1, Name: "a"}, {ID: Player1, Name: "b"}},
		{{ID: Empty, Name: "a"}, {ID: Player2, Name: "b"}},
	}
	for i, players := range bad {
		if err := ValidatePlayers(players); err != ErrInvalidPlayers {
			t.Fatalf("case %d: err = %v, want ErrInvalidPlayers", i, err)
		}
	}
}

func TestApplyMoveAlternatesTurns(t *testing.T) {
	g := newTestGame(t, GameConfig{})

	if _, err := g.ApplyMove(Player2, 0); err != ErrNotYourTurn {
		t.Fatalf("player 2 moving first: err = %v", err)
	}
	row, err := g.ApplyMove(Player1, 3)
	if err != nil || row != 5 {
		t.Fatalf("first move = row %d, err %v", row, err)
	}
	if g.CurrentPlayerIndex != 1 || g.MoveCount != 1 {
		t.Fatalf("after one move: index %d, moves %d", g.CurrentPlayerIndex, g.MoveCount)
	}
	if _, err := g.ApplyMove(Player1, 3); err != ErrNotYourTurn {
		t.Fatalf("player 1 moving twice: err = %v", err)
	}
	row, err = g.ApplyMove(Player2, 3)
	if err != nil || row != 4 {
		t.Fatalf("stacked move = row %d, err %v", row, err)
	}
	if g.CurrentPlayerIndex != 0 {
		t.Fatalf("turn should return to player 1")
	}
}

func TestApplyMoveRejectsIllegalColumns(t *testing.T) {
	g := newTestGame(t, GameConfig{Rows: 4, Cols: 4, Connect: 4})
	if _, err := g.ApplyMove(Player1, 9); err != ErrColumnOutOfRange {
		t.Fatalf("out of range: err = %v", err)
	}
	for i := 0; i < 4; i++ {
		p := g.Players[g.CurrentPlayerIndex].ID
		if _, err := g.ApplyMove(p, 0); err != nil {
			t.Fatalf("filling column: %v", err)
		}
	}
	before := g.MoveCount
	if _, err := g.ApplyMove(Player1, 0); err != ErrColumnFull {
		t.Fatalf("full column: err = %v", err)
	}
	if g.MoveCount != before || g.CurrentPlayerIndex != 0 {
		t.Fatalf("rejected move changed the state")
	}
}

func TestApplyMoveWaitsForOpponent(t *testing.T) {
	g := NewGameState(1, []Player{{ID: Player1, Name: "solo"}}, GameConfig{}.WithDefaults())
	if _, err := g.ApplyMove(Player1, 0); err != ErrWaitingForOpponent {
		t.Fatalf("err = %v, want ErrWaitingForOpponent", err)
	}
}

func TestWinEndsGame(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	moves := []int{0, 0, 1, 1, 2, 2, 3}
	for _, col := range moves {
		p := g.Players[g.CurrentPlayerIndex].ID
		if _, err := g.ApplyMove(p, col); err != nil {
			t.Fatalf("move %d: %v", col, err)
		}
	}
	if g.Status != StatusWon {
		t.Fatalf("status = %s, want won", g.Status)
	}
	w, ok := g.Winner()
	if !ok || w.Name != "alice" {
		t.Fatalf("winner = %+v, %v", w, ok)
	}
	if g.FinishedAt == nil {
		t.Fatalf("finished game needs FinishedAt")
	}
	if g.CurrentPlayerIndex != 0 {
		t.Fatalf("turn must not advance after a win")
	}
	if _, err := g.ApplyMove(Player2, 5); err != ErrGameOver {
		t.Fatalf("move after win: err = %v", err)
	}
}

func TestDrawEndsGame(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	g.Board = boardFrom([][]int{
		{1, 1, 2, 2, 1, 1, 0},
		{2, 2, 1, 1, 2, 2, 1},
		{1, 1, 2, 2, 1, 1, 2},
		{2, 2, 1, 1, 2, 2, 1},
		{1, 1, 2, 2, 1, 1, 2},
		{2, 2, 1, 1, 2, 2, 1},
	})
	g.CurrentPlayerIndex = 1
	g.MoveCount = 41

	if _, err := g.ApplyMove(Player2, 6); err != nil {
		t.Fatalf("last move: %v", err)
	}
	if g.Status != StatusDraw || g.WinnerID != nil {
		t.Fatalf("status = %s winner = %v, want draw without winner", g.Status, g.WinnerID)
	}
	if g.MoveCount != 42 {
		t.Fatalf("move count = %d", g.MoveCount)
	}
	if _, err := g.ApplyMove(Player1, 0); err != ErrGameOver {
		t.Fatalf("move after draw: err = %v", err)
	}
}

func TestWinOnLastCellIsNotDraw(t *testing.T) {
	g := newTestGame(t, GameConfig{Rows: 4, Cols: 4, Connect: 4})
	g.Board = boardFrom([][]int{
		{1, 1, 1, 0},
		{2, 2, 2, 1},
		{1, 2, 1, 2},
		{2, 1, 2, 1},
	})
	if _, err := g.ApplyMove(Player1, 3); err != nil {
		t.Fatalf("move: %v", err)
	}
	if g.Status != StatusWon {
		t.Fatalf("status = %s, want won", g.Status)
	}
}

func TestSimulateDoesNotTouchOriginal(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	next := g.Simulate(Player1, 2)

	if g.MoveCount != 0 || g.Board[5][2] != Empty {
		t.Fatalf("original game changed")
	}
	if next.MoveCount != 1 || next.Board[5][2] != Player1 || next.CurrentPlayerIndex != 1 {
		t.Fatalf("simulated game = moves %d cell %d index %d", next.MoveCount, next.Board[5][2], next.CurrentPlayerIndex)
	}

	illegal := g.Simulate(Player1, 42)
	if illegal.MoveCount != 0 {
		t.Fatalf("illegal simulated move should be a no-op")
	}
}

func TestSimulateOnFinishedGame(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	g.Status = StatusWon
	next := g.Simulate(Player1, 0)
	if next.MoveCount != 0 || next.Board[5][0] != Empty {
		t.Fatalf("finished game must not accept simulated moves")
	}
}

func TestResetKeepsPlayersAndConfig(t *testing.T) {
	g := newTestGame(t, GameConfig{Rows: 5, Cols: 6, Connect: 3})
	for _, col := range []int{0, 0, 1, 1, 2} {
		p := g.Players[g.CurrentPlayerIndex].ID
		g.ApplyMove(p, col)
	}
	if g.Status != StatusWon {
		t.Fatalf("setup should end with a connect-3 win")
	}

	g.Reset()
	if g.Status != StatusActive || g.WinnerID != nil || g.MoveCount != 0 || g.FinishedAt != nil {
		t.Fatalf("reset left state behind: %+v", g)
	}
	if g.Board.Rows() != 5 || g.Board.Cols() != 6 || len(g.Board.ValidMoves()) != 6 {
		t.Fatalf("reset board has wrong shape or content")
	}
	if len(g.Players) != 2 || g.Config.Connect != 3 {
		t.Fatalf("reset must keep players and config")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	g.ApplyMove(Player1, 0)
	c := g.Clone()
	c.ApplyMove(Player2, 0)
	c.Players[0].Name = "mallory"

	if g.MoveCount != 1 || g.Board[4][0] != Empty || g.Players[0].Name != "alice" {
		t.Fatalf("clone shares state with the original")
	}
}

func TestOpponentLookup(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	op, ok := g.Opponent(Player1)
	if !ok || op.ID != Player2 {
		t.Fatalf("opponent of 1 = %+v", op)
	}
	p, ok := g.PlayerByName("bob")
	if !ok || p.ID != Player2 {
		t.Fatalf("PlayerByName(bob) = %+v", p)
	}
}

func TestVersionOrdersSnapshots(t *testing.T) {
	g := newTestGame(t, GameConfig{})
	first := g.Clone()

	g.ApplyMove(Player1, 0)
	afterMove := g.Clone()
	if afterMove.Version != first.Version+1 {
		t.Fatalf("move version = %d, want %d", afterMove.Version, first.Version+1)
	}
	if _, err := g.ApplyMove(Player1, 0); err != ErrNotYourTurn {
		t.Fatalf("rejected move: %v", err)
	}
	if g.Version != afterMove.Version {
		t.Fatalf("rejected move must not bump the version")
	}

	g.Reset()
	if g.MoveCount != 0 || g.Version <= afterMove.Version {
		t.Fatalf("reset version = %d after %d", g.Version, afterMove.Version)
	}
	if !g.Supersedes(afterMove) || afterMove.Supersedes(g) {
		t.Fatalf("a reset board must supersede the move before it")
	}

	g.Touch()
	if !g.Supersedes(first) || !g.Supersedes(nil) || !g.Supersedes(g.Clone()) {
		t.Fatalf("Supersedes ordering broken")
	}
}

func TestWithDefaultsFrom(t *testing.T) {
	base := GameConfig{Rows: 8, Cols: 9, Connect: 5}
	got := GameConfig{Cols: 4}.WithDefaultsFrom(base)
	if got != (GameConfig{Rows: 8, Cols: 4, Connect: 5}) {
		t.Fatalf("WithDefaultsFrom = %+v", got)
	}
	if got := (GameConfig{}).WithDefaultsFrom(GameConfig{}); got != (GameConfig{}).WithDefaults() {
		t.Fatalf("empty base should fall back to the standard board, got %+v", got)
	}
}

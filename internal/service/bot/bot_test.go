package bot

import (
	"math/rand"
	"testing"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

func boardFrom(rows [][]int) domain.Board {
	b := domain.NewBoard(len(rows), len(rows[0]))
	for r := range rows {
		for c := range rows[r] {
			b[r][c] = domain.PlayerID(rows[r][c])
		}
	}
	return b
}

// bot 2 completes the bottom row in column 3
func winFixture() domain.Board {
	b := domain.NewBoard(6, 7)
	copy(b[5], []domain.PlayerID{2, 2, 2, 0, 1, 1, 0})
	b[4][0] = 1
	return b
}

// player 1 threatens the bottom row in column 3
func blockFixture() domain.Board {
	b := domain.NewBoard(6, 7)
	copy(b[5], []domain.PlayerID{1, 1, 1, 0, 2, 0, 0})
	b[4][0] = 2
	return b
}

func TestPickColumnTakesWinForEverySeed(t *testing.T) {
	board := winFixture()
	before := board.Clone()

	for seed := int64(0); seed < 50; seed++ {
		col, err := PickColumn(board, 4, domain.Player2, domain.Player1, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if col != 3 {
			t.Fatalf("seed %d: picked %d, want 3", seed, col)
		}
	}

	for r := range board {
		for c := range board[r] {
			if board[r][c] != before[r][c] {
				t.Fatalf("PickColumn mutated cell (%d,%d)", r, c)
			}
		}
	}
}

func TestPickColumnBlocks(t *testing.T) {
	board := blockFixture()
	for seed := int64(0); seed < 50; seed++ {
		col, err := PickColumn(board, 4, domain.Player2, domain.Player1, rand.New(rand.NewSource(seed)))
		if err != nil || col != 3 {
			t.Fatalf("seed %d: picked %d (%v), want 3", seed, col, err)
		}
	}
}

func TestPickColumnPrefersWinOverBlock(t *testing.T) {
	board := boardFrom([][]int{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 0, 2},
		{1, 0, 0, 0, 0, 0, 2},
		{1, 0, 0, 0, 0, 0, 2},
	})
	col, err := PickColumn(board, 4, domain.Player2, domain.Player1, rand.New(rand.NewSource(1)))
	if err != nil || col != 6 {
		t.Fatalf("picked %d (%v), want winning column 6", col, err)
	}
}

func TestPickColumnRandomOnlyLegal(t *testing.T) {
	board := domain.NewBoard(4, 4)
	// fill columns 0 and 2 without creating any threat
	for _, p := range []domain.PlayerID{1, 2, 1, 2} {
		board.Drop(0, p)
	}
	for _, p := range []domain.PlayerID{2, 1, 2, 1} {
		board.Drop(2, p)
	}

	seen := map[int]bool{}
	for seed := int64(0); seed < 100; seed++ {
		col, err := PickColumn(board, 4, domain.Player2, domain.Player1, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if col != 1 && col != 3 {
			t.Fatalf("seed %d: picked full or invalid column %d", seed, col)
		}
		seen[col] = true
	}
	if len(seen) != 2 {
		t.Fatalf("random tier never picked both legal columns: %v", seen)
	}
}

func TestPickColumnSameSeedSameMove(t *testing.T) {
	board := domain.NewBoard(6, 7)
	a, _ := PickColumn(board, 4, domain.Player2, domain.Player1, rand.New(rand.NewSource(99)))
	b, _ := PickColumn(board, 4, domain.Player2, domain.Player1, rand.New(rand.NewSource(99)))
	if a != b {
		t.Fatalf("same seed gave %d and %d", a, b)
	}
}

func TestPickColumnFullBoard(t *testing.T) {
	board := boardFrom([][]int{
		{1, 2, 1, 2},
		{1, 2, 1, 2},
		{2, 1, 2, 1},
		{2, 1, 2, 1},
	})
	col, err := PickColumn(board, 4, domain.Player2, domain.Player1, rand.New(rand.NewSource(1)))
	if err != domain.ErrNoMoveAvailable || col != domain.NoLanding {
		t.Fatalf("full board = %d, %v", col, err)
	}
	if _, err := PickColumnMinimax(board, 4, domain.Player2, domain.Player1, 3); err != domain.ErrNoMoveAvailable {
		t.Fatalf("minimax on full board: %v", err)
	}
}

func TestMinimaxTakesWinAndBlocks(t *testing.T) {
	col, err := PickColumnMinimax(winFixture(), 4, domain.Player2, domain.Player1, MinimaxDepth)
	if err != nil || col != 3 {
		t.Fatalf("win fixture: picked %d (%v), want 3", col, err)
	}
	col, err = PickColumnMinimax(blockFixture(), 4, domain.Player2, domain.Player1, MinimaxDepth)
	if err != nil || col != 3 {
		t.Fatalf("block fixture: picked %d (%v), want 3", col, err)
	}
}

func TestMinimaxSmallBoardConnectThree(t *testing.T) {
	board := domain.NewBoard(4, 5)
	col, err := PickColumnMinimax(board, 3, domain.Player1, domain.Player2, 4)
	if err != nil {
		t.Fatalf("minimax: %v", err)
	}
	if !board.IsValidMove(col) {
		t.Fatalf("minimax picked illegal column %d", col)
	}
	if len(board.ValidMoves()) != 5 {
		t.Fatalf("minimax mutated the board")
	}
}

func TestEngineChoose(t *testing.T) {
	state := domain.NewGameState(1, []domain.Player{
		{ID: domain.Player1, Name: "human"},
		{ID: domain.Player2, Name: "bot"},
	}, domain.GameConfig{}.WithDefaults())
	state.Board = blockFixture()

	for _, d := range []Difficulty{DifficultyEasy, DifficultyHard} {
		e := NewEngine(d, rand.New(rand.NewSource(3)))
		col, err := e.Choose(state, domain.Player2)
		if err != nil || col != 3 {
			t.Fatalf("%s engine picked %d (%v), want 3", d, col, err)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	if ParseDifficulty("hard") != DifficultyHard {
		t.Fatalf("hard not parsed")
	}
	if ParseDifficulty("medium") != DifficultyEasy || ParseDifficulty("") != DifficultyEasy {
		t.Fatalf("unknown difficulty should fall back to easy")
	}
}

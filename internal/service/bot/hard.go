package bot

import (
	"math"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

const (
	MinimaxDepth     = 5
	MinimaxWin       = 1000000
	MinimaxLoss      = -1000000
	PositionWeight   = 10
	TwoInRowWeight   = 50
	ThreeInRowWeight = 500
)

// PickColumnMinimax is the hard difficulty: minimax with alpha-beta pruning
// over depth plies. Immediate wins and forced blocks short-circuit the search.
func PickColumnMinimax(board domain.Board, connect int, self, opponent domain.PlayerID, depth int) (int, error) {
	validColumns := orderByCenter(board.ValidMoves(), board.Cols())
	if len(validColumns) == 0 {
		return domain.NoLanding, domain.ErrNoMoveAvailable
	}

	for _, col := range validColumns {
		if domain.WouldWin(board, col, self, connect) {
			return col, nil
		}
	}
	for _, col := range validColumns {
		if domain.WouldWin(board, col, opponent, connect) {
			return col, nil
		}
	}

	s := searcher{connect: connect, depth: depth, self: self, opponent: opponent}
	bestCol := validColumns[0]
	bestScore := math.MinInt32
	alpha := math.MinInt32
	beta := math.MaxInt32

	for _, col := range validColumns {
		testBoard, _, _ := board.Simulate(col, self)
		score := s.minimax(testBoard, depth-1, alpha, beta, false)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}

	return bestCol, nil
}

type searcher struct {
	connect  int
	depth    int
	self     domain.PlayerID
	opponent domain.PlayerID
}

func (s searcher) minimax(board domain.Board, depth int, alpha, beta int, maximizing bool) int {
	validColumns := orderByCenter(board.ValidMoves(), board.Cols())

	if depth <= 0 || len(validColumns) == 0 {
		return evaluateBoard(board, s.connect, s.self, s.opponent)
	}

	if maximizing {
		maxEval := math.MinInt32
		for _, col := range validColumns {
			testBoard, row, _ := board.Simulate(col, s.self)
			if domain.CheckWin(testBoard, row, col, s.self, s.connect) {
				// quicker wins score higher
				return MinimaxWin - (s.depth - depth)
			}

			eval := s.minimax(testBoard, depth-1, alpha, beta, false)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return maxEval
	}

	minEval := math.MaxInt32
	for _, col := range validColumns {
		testBoard, row, _ := board.Simulate(col, s.opponent)
		if domain.CheckWin(testBoard, row, col, s.opponent, s.connect) {
			return MinimaxLoss + (s.depth - depth)
		}

		eval := s.minimax(testBoard, depth-1, alpha, beta, true)
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return minEval
}

// orderByCenter sorts columns closest to the middle first so pruning kicks in earlier.
func orderByCenter(cols []int, width int) []int {
	center := (width - 1) / 2
	ordered := make([]int, 0, len(cols))
	ordered = append(ordered, cols...)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && distance(ordered[j], center) < distance(ordered[j-1], center); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

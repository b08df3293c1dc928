package bot

import (
	"math/rand"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

// PickColumn chooses a move for self: an immediate win first, then a block of
// the opponent's immediate win, otherwise a random legal column drawn from rng.
// Every look-ahead runs on a copy, board is never modified.
func PickColumn(board domain.Board, connect int, self, opponent domain.PlayerID, rng *rand.Rand) (int, error) {
	validColumns := board.ValidMoves()
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

	return validColumns[rng.Intn(len(validColumns))], nil
}

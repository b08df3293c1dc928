package bot

import (
	"github.com/Slivix/Projet-AOS/internal/domain"
)

var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// evaluateBoard is the static score of a position from self's point of view.
func evaluateBoard(board domain.Board, connect int, self, opponent domain.PlayerID) int {
	score := 0

	for row := 0; row < board.Rows(); row++ {
		for col := 0; col < board.Cols(); col++ {
			switch board[row][col] {
			case self:
				score += evaluatePosition(board, row, col, connect, self)
			case opponent:
				score -= evaluatePosition(board, row, col, connect, opponent)
			}
		}
	}

	centerCol := board.Cols() / 2
	for row := 0; row < board.Rows(); row++ {
		switch board[row][centerCol] {
		case self:
			score += PositionWeight * 2
		case opponent:
			score -= PositionWeight * 2
		}
	}

	return score
}

// evaluatePosition rewards open lines through one piece. A line one short of
// connect counts as a threat, anything shorter as a build-up.
func evaluatePosition(board domain.Board, row, col, connect int, player domain.PlayerID) int {
	score := PositionWeight

	for _, dir := range directions {
		dRow, dCol := dir[0], dir[1]

		posCount := board.CountInDirection(row, col, dRow, dCol, player)
		negCount := board.CountInDirection(row, col, -dRow, -dCol, player)
		line := 1 + posCount + negCount

		if !hasSpaceForExtension(board, row, col, dRow, dCol, posCount, negCount) {
			continue
		}
		switch {
		case line >= connect-1:
			score += ThreeInRowWeight
		case line >= 2:
			score += TwoInRowWeight
		}
	}

	return score
}

// hasSpaceForExtension reports whether either end of the line can be played next.
func hasSpaceForExtension(board domain.Board, row, col, dRow, dCol, posCount, negCount int) bool {
	posRow := row + dRow*(posCount+1)
	posCol := col + dCol*(posCount+1)
	if isPlayableSpace(board, posRow, posCol) {
		return true
	}

	negRow := row - dRow*(negCount+1)
	negCol := col - dCol*(negCount+1)
	return isPlayableSpace(board, negRow, negCol)
}

// isPlayableSpace is an empty in-bounds cell that respects gravity.
func isPlayableSpace(board domain.Board, row, col int) bool {
	if row < 0 || row >= board.Rows() || col < 0 || col >= board.Cols() {
		return false
	}
	if board[row][col] != domain.Empty {
		return false
	}
	if row == board.Rows()-1 {
		return true
	}
	return board[row+1][col] != domain.Empty
}

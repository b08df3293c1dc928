package domain

// the four axes through a cell; each is walked in both directions
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// CheckWin reports whether the piece at (row, column) completes a run of at
// least connect markers for player on any axis.
func CheckWin(board Board, row, column int, player PlayerID, connect int) bool {
	if !board.inBounds(row, column) {
		return false
	}

	for _, axis := range axes {
		dRow, dCol := axis[0], axis[1]
		line := 1 +
			board.CountInDirection(row, column, dRow, dCol, player) +
			board.CountInDirection(row, column, -dRow, -dCol, player)
		if line >= connect {
			return true
		}
	}
	return false
}

// IsDraw is only meaningful after CheckWin failed for the last move.
func IsDraw(board Board) bool {
	return board.IsFull()
}

// Play applies one move to board in place and classifies the result.
func Play(board Board, column int, player PlayerID, connect int) (int, Outcome) {
	row, err := board.Drop(column, player)
	if err != nil {
		return NoLanding, OutcomeNoEffect
	}

	if CheckWin(board, row, column, player, connect) {
		return row, OutcomeWin
	}
	if IsDraw(board) {
		return row, OutcomeDraw
	}
	return row, OutcomeContinue
}

// WouldWin tells whether player wins by dropping into column. The board is not modified.
func WouldWin(board Board, column int, player PlayerID, connect int) bool {
	testBoard, row, err := board.Simulate(column, player)
	if err != nil {
		return false
	}
	return CheckWin(testBoard, row, column, player, connect)
}

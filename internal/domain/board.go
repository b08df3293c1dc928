package domain

// Board is a rows x cols grid. Row 0 is the top, pieces fall toward the last row.
type Board [][]PlayerID

func NewBoard(rows, cols int) Board {
	board := make(Board, rows)
	for i := range board {
		board[i] = make([]PlayerID, cols)
	}
	return board
}

func (b Board) Rows() int {
	return len(b)
}

func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

func (b Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.Rows() && col >= 0 && col < b.Cols()
}

func (b Board) IsValidMove(column int) bool {
	if column < 0 || column >= b.Cols() {
		return false
	}

	// board[0] is the top row, so a column is full when its top cell is taken
	return b[0][column] == Empty
}

// Drop places player in the lowest empty cell of column and returns its row.
// The board is left untouched and NoLanding is returned when the column is
// out of range or already full.
func (b Board) Drop(column int, player PlayerID) (int, error) {
	if column < 0 || column >= b.Cols() {
		return NoLanding, ErrColumnOutOfRange
	}

	for row := b.Rows() - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			b[row][column] = player
			return row, nil
		}
	}

	return NoLanding, ErrColumnFull
}

// IsFull reports whether every cell is occupied.
func (b Board) IsFull() bool {
	for _, row := range b {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

// Clone creates a deep copy of the board.
func (b Board) Clone() Board {
	newBoard := make(Board, len(b))
	for i := range b {
		newBoard[i] = make([]PlayerID, len(b[i]))
		copy(newBoard[i], b[i])
	}
	return newBoard
}

// ValidMoves lists the playable columns in ascending order.
func (b Board) ValidMoves() []int {
	validMoves := []int{}
	for col := 0; col < b.Cols(); col++ {
		if b.IsValidMove(col) {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

// CountInDirection counts the player's consecutive pieces next to (row, col)
// walking by (deltaRow, deltaCol). The starting cell itself is not counted.
func (b Board) CountInDirection(row, col, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for b.inBounds(r, c) && b[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// Simulate drops a piece on a copy of the board and returns the copy.
func (b Board) Simulate(column int, player PlayerID) (Board, int, error) {
	newBoard := b.Clone()
	row, err := newBoard.Drop(column, player)
	if err != nil {
		return nil, NoLanding, err
	}
	return newBoard, row, nil
}

// Ints converts the board to plain ints for storage and wire formats.
func (b Board) Ints() [][]int {
	intBoard := make([][]int, len(b))
	for i := range b {
		intBoard[i] = make([]int, len(b[i]))
		for j := range b[i] {
			intBoard[i][j] = int(b[i][j])
		}
	}
	return intBoard
}

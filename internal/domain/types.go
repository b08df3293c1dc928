package domain

// PlayerID is the marker a player leaves on the board. Zero means empty.
type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// defaults used by both the services and the client when a field is omitted
const (
	DefaultRows    = 6
	DefaultColumns = 7
	DefaultConnect = 4

	MinRows    = 4
	MinColumns = 4
	MinConnect = 3
)

// NoLanding is the row reported when a drop could not place a piece.
const NoLanding = -1

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// Outcome is the result of applying one move to a board.
type Outcome int

const (
	OutcomeNoEffect Outcome = iota // column full or out of range
	OutcomeContinue
	OutcomeWin
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "no_effect"
	}
}

// Mode tells how a game is being played.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeOnline Mode = "online"
	ModeAI     Mode = "ai"
)

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove        Error = "invalid move"
	ErrColumnFull         Error = "column is full"
	ErrColumnOutOfRange   Error = "column out of range"
	ErrGameOver           Error = "game is over"
	ErrNotYourTurn        Error = "not this player's turn"
	ErrWaitingForOpponent Error = "waiting for opponent"
	ErrGameNotFound       Error = "game not found"
	ErrGameExists         Error = "game id already in use"
	ErrLobbyFull          Error = "game already full"
	ErrNameTaken          Error = "name already used in this game"
	ErrInvalidConfig      Error = "invalid game configuration"
	ErrInvalidPlayers     Error = "a game needs two players with distinct non-zero ids"
	ErrNoMoveAvailable    Error = "no move available"
	ErrUserNotFound       Error = "user not found"
	ErrUserExists         Error = "email or name already registered"
	ErrInvalidCredentials Error = "invalid username or password"
)

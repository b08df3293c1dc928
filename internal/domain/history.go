package domain

import (
	"fmt"
	"math"
	"time"
)

// Result of a finished game from one player's point of view.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// HistoryEntry is one finished game in a user's match history.
// Optional fields stay nil when the reporter did not know them.
type HistoryEntry struct {
	GameID    string    `json:"game_id,omitempty"`
	Mode      Mode      `json:"mode,omitempty"`
	Result    Result    `json:"result,omitempty"`
	Opponent  string    `json:"opponent,omitempty"`
	Winner    string    `json:"winner,omitempty"`
	Rows      *int      `json:"rows,omitempty"`
	Cols      *int      `json:"cols,omitempty"`
	Connect   *int      `json:"connect,omitempty"`
	MoveCount *int      `json:"move_count,omitempty"`
	DurationS *int      `json:"duration_s,omitempty"`
	EndedAt   time.Time `json:"ended_at"`
}

// HistorySummary aggregates a match history for the stats panel.
type HistorySummary struct {
	Total          int  `json:"total"`
	Wins           int  `json:"wins"`
	Losses         int  `json:"losses"`
	Draws          int  `json:"draws"`
	WinRate        int  `json:"win_rate"`
	AvgMovesToWin  *int `json:"avg_moves_to_win"`
	AvgMovesPerRun *int `json:"avg_moves_per_game"`
}

func Summarize(entries []HistoryEntry) HistorySummary {
	var s HistorySummary
	s.Total = len(entries)

	var winMoves, allMoves, winCount, allCount int
	for _, e := range entries {
		switch e.Result {
		case ResultWin:
			s.Wins++
		case ResultLoss:
			s.Losses++
		case ResultDraw:
			s.Draws++
		}
		if e.MoveCount == nil {
			continue
		}
		allMoves += *e.MoveCount
		allCount++
		if e.Result == ResultWin {
			winMoves += *e.MoveCount
			winCount++
		}
	}

	if s.Total > 0 {
		s.WinRate = roundDiv(s.Wins*100, s.Total)
	}
	if winCount > 0 {
		avg := roundDiv(winMoves, winCount)
		s.AvgMovesToWin = &avg
	}
	if allCount > 0 {
		avg := roundDiv(allMoves, allCount)
		s.AvgMovesPerRun = &avg
	}
	return s
}

func roundDiv(a, b int) int {
	return int(math.Round(float64(a) / float64(b)))
}

// FormatDuration renders seconds as "42s" or "3m07s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	mins := seconds / 60
	secs := seconds % 60
	if mins == 0 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", mins, secs)
}

// GameResult describes a finished game for whoever keeps score.
type GameResult struct {
	GameID string
	Mode   Mode
	// Owner is the authenticated user who created a local or ai game.
	Owner     string
	Players   []Player
	WinnerID  *PlayerID
	Config    GameConfig
	MoveCount int
	Duration  time.Duration
	EndedAt   time.Time
}

// ResultOf builds the result of a finished game. gameID is the public id
// (local id or lobby code).
func ResultOf(g *GameState, gameID string, mode Mode) GameResult {
	r := GameResult{
		GameID:    gameID,
		Mode:      mode,
		Players:   append([]Player(nil), g.Players...),
		Config:    g.Config,
		MoveCount: g.MoveCount,
		Duration:  g.Duration(),
		EndedAt:   time.Now(),
	}
	if g.WinnerID != nil {
		w := *g.WinnerID
		r.WinnerID = &w
	}
	if g.FinishedAt != nil {
		r.EndedAt = *g.FinishedAt
	}
	return r
}

// EntryFor is the history line of one participant.
func (r GameResult) EntryFor(p Player) HistoryEntry {
	rows, cols, connect := r.Config.Rows, r.Config.Cols, r.Config.Connect
	moves := r.MoveCount
	secs := int(r.Duration.Seconds())

	e := HistoryEntry{
		GameID:    r.GameID,
		Mode:      r.Mode,
		Result:    ResultDraw,
		Rows:      &rows,
		Cols:      &cols,
		Connect:   &connect,
		MoveCount: &moves,
		DurationS: &secs,
		EndedAt:   r.EndedAt,
	}
	for _, other := range r.Players {
		if other.ID != p.ID {
			e.Opponent = other.Name
		}
		if r.WinnerID != nil && other.ID == *r.WinnerID {
			e.Winner = other.Name
		}
	}
	if r.WinnerID != nil {
		if *r.WinnerID == p.ID {
			e.Result = ResultWin
		} else {
			e.Result = ResultLoss
		}
	}
	return e
}

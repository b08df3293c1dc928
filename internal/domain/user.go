package domain

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	GoogleID     string    `json:"-"`
	PasswordHash string    `json:"-"`
	Score        int       `json:"score"`
	GamesPlayed  int       `json:"games_played"`
	GamesWon     int       `json:"wins"`
	GamesDrawn   int       `json:"draws"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) Losses() int {
	return u.GamesPlayed - u.GamesWon - u.GamesDrawn
}

// PlayerScore is one line of the scores and leaderboard listings.
type PlayerScore struct {
	Rank   int    `json:"rank,omitempty"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

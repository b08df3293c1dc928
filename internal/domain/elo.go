package domain

import "math"

const (
	KFactor       = 32.0
	InitialRating = 1000
)

// CalculateElo returns the new rating for player A after a game against B.
// score is 1.0 for a win, 0.5 for a draw, and 0.0 for a loss.
func CalculateElo(ratingA, ratingB int, score float64) int {
	expected := 1.0 / (1.0 + math.Pow(10.0, float64(ratingB-ratingA)/400.0))
	newRating := float64(ratingA) + KFactor*(score-expected)

	if newRating < 0 {
		return 0
	}
	return int(math.Round(newRating))
}

// ResultScore maps a history result onto the Elo score scale.
func ResultScore(result Result) float64 {
	switch result {
	case ResultWin:
		return 1.0
	case ResultDraw:
		return 0.5
	default:
		return 0.0
	}
}

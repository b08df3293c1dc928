package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type HistoryRepo struct {
	DB *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{DB: db}
}

func (r *HistoryRepo) AddEntry(ctx context.Context, userID int64, e domain.HistoryEntry) error {
	query := `
	INSERT INTO game_history (player_id, game_id, mode, result, opponent, winner, rows, cols, connect, move_count, duration_s, ended_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.DB.ExecContext(ctx, query,
		userID, nullable(e.GameID), nullable(string(e.Mode)), nullable(string(e.Result)),
		nullable(e.Opponent), nullable(e.Winner),
		nullInt(e.Rows), nullInt(e.Cols), nullInt(e.Connect), nullInt(e.MoveCount), nullInt(e.DurationS),
		e.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}
	return nil
}

// ListByUser returns the history of a player in the order it was recorded.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	query := `
	SELECT COALESCE(game_id, ''), COALESCE(mode, ''), COALESCE(result, ''), COALESCE(opponent, ''), COALESCE(winner, ''),
		rows, cols, connect, move_count, duration_s, ended_at
	FROM game_history
	WHERE player_id = $1
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			e                                    domain.HistoryEntry
			mode, result                         string
			nRows, nCols, nConnect, nMoves, nDur sql.NullInt64
		)
		if err := rows.Scan(&e.GameID, &mode, &result, &e.Opponent, &e.Winner,
			&nRows, &nCols, &nConnect, &nMoves, &nDur, &e.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Mode = domain.Mode(mode)
		e.Result = domain.Result(result)
		e.Rows = intOrNil(nRows)
		e.Cols = intOrNil(nCols)
		e.Connect = intOrNil(nConnect)
		e.MoveCount = intOrNil(nMoves)
		e.DurationS = intOrNil(nDur)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intOrNil(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

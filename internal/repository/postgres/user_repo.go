package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// CreateUser inserts a player with the starting score. A unique violation
// on name, email or google id is reported as domain.ErrUserExists.
func (r *UserRepo) CreateUser(ctx context.Context, username, email, passwordHash, googleID string) (int64, error) {
	query := `
	INSERT INTO players (username, email, password_hash, google_id, score)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id;
	`
	var userID int64
	err := r.DB.QueryRowContext(ctx, query, username, nullable(email), passwordHash, nullable(googleID), domain.InitialRating).Scan(&userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, domain.ErrUserExists
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return userID, nil
}

// scanUser is a helper that scans a row into a User struct
func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		user            domain.User
		email, googleID sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&email,
		&googleID,
		&user.PasswordHash,
		&user.Score,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.GamesDrawn,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	user.GoogleID = googleID.String
	return &user, nil
}

const userSelectFields = `id, username, email, google_id, password_hash, score, games_played, games_won, games_drawn, created_at`

func (r *UserRepo) getOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE ` + where + ` = $1;`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByUsername returns nil, nil when no player has that name.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "username", username)
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *UserRepo) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getOne(ctx, "google_id", googleID)
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return r.getOne(ctx, "id", userID)
}

// ListUsers returns every player in registration order.
func (r *UserRepo) ListUsers(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userSelectFields + ` FROM players ORDER BY id;`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser reports whether a row was removed. History goes with it.
func (r *UserRepo) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM players WHERE id = $1;`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return n > 0, nil
}

// UpdateScore stores the new score and bumps the game counters for result.
func (r *UserRepo) UpdateScore(ctx context.Context, userID int64, score int, result domain.Result) error {
	query := `
	UPDATE players
	SET score = $2,
		games_played = games_played + 1,
		games_won = games_won + CASE WHEN $3 = 'win' THEN 1 ELSE 0 END,
		games_drawn = games_drawn + CASE WHEN $3 = 'draw' THEN 1 ELSE 0 END
	WHERE id = $1;
	`
	if _, err := r.DB.ExecContext(ctx, query, userID, score, string(result)); err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	return nil
}

// UpdateUserGoogleID links a Google account to the player with that email.
func (r *UserRepo) UpdateUserGoogleID(ctx context.Context, email, googleID string) error {
	query := `UPDATE players SET google_id = $2 WHERE email = $1;`
	if _, err := r.DB.ExecContext(ctx, query, email, googleID); err != nil {
		return fmt.Errorf("failed to update google id: %w", err)
	}
	return nil
}

func (r *UserRepo) GetLeaderboard(ctx context.Context, limit int) ([]domain.PlayerScore, error) {
	query := `
	SELECT
		ROW_NUMBER() OVER (ORDER BY score DESC, games_won DESC, username ASC) AS rank,
		username,
		score,
		games_won,
		games_played - games_won - games_drawn AS losses,
		games_drawn
	FROM players
	ORDER BY score DESC, games_won DESC, username ASC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	leaderboard := make([]domain.PlayerScore, 0)
	for rows.Next() {
		var stats domain.PlayerScore
		if err := rows.Scan(&stats.Rank, &stats.Name, &stats.Score, &stats.Wins, &stats.Losses, &stats.Draws); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		leaderboard = append(leaderboard, stats)
	}

	return leaderboard, rows.Err()
}

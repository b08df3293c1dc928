// Package memory keeps users, history and cache entries in process memory.
// cmd/api falls back to it when DATABASE_URL or Redis are not configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type UserRepo struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[int64]*domain.User)}
}

func (r *UserRepo) CreateUser(ctx context.Context, username, email, passwordHash, googleID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username ||
			(email != "" && u.Email == email) ||
			(googleID != "" && u.GoogleID == googleID) {
			return 0, domain.ErrUserExists
		}
	}

	r.nextID++
	r.users[r.nextID] = &domain.User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		GoogleID:     googleID,
		PasswordHash: passwordHash,
		Score:        domain.InitialRating,
		CreatedAt:    time.Now(),
	}
	return r.nextID, nil
}

func (r *UserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, nil
	}
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepo) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	if googleID == "" {
		return nil, nil
	}
	return r.find(func(u *domain.User) bool { return u.GoogleID == googleID })
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == userID })
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return false, nil
	}
	delete(r.users, userID)
	return true, nil
}

func (r *UserRepo) UpdateScore(ctx context.Context, userID int64, score int, result domain.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Score = score
	u.GamesPlayed++
	switch result {
	case domain.ResultWin:
		u.GamesWon++
	case domain.ResultDraw:
		u.GamesDrawn++
	}
	return nil
}

func (r *UserRepo) UpdateUserGoogleID(ctx context.Context, email, googleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			u.GoogleID = googleID
		}
	}
	return nil
}

// GetLeaderboard orders like the SQL version: score, wins, then name.
func (r *UserRepo) GetLeaderboard(ctx context.Context, limit int) ([]domain.PlayerScore, error) {
	users, _ := r.ListUsers(ctx)
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.GamesWon != b.GamesWon {
			return a.GamesWon > b.GamesWon
		}
		return a.Username < b.Username
	})

	out := make([]domain.PlayerScore, 0, limit)
	for i, u := range users {
		if i == limit {
			break
		}
		out = append(out, domain.PlayerScore{
			Rank:   i + 1,
			Name:   u.Username,
			Score:  u.Score,
			Wins:   u.GamesWon,
			Losses: u.Losses(),
			Draws:  u.GamesDrawn,
		})
	}
	return out, nil
}

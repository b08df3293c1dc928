package user

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[int64]*domain.User)}
}

func (f *fakeUsers) CreateUser(ctx context.Context, username, email, passwordHash, googleID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username || (email != "" && u.Email == email) {
			return 0, domain.ErrUserExists
		}
	}
	f.nextID++
	f.byID[f.nextID] = &domain.User{
		ID: f.nextID, Username: username, Email: email, GoogleID: googleID,
		PasswordHash: passwordHash, Score: domain.InitialRating, CreatedAt: time.Now(),
	}
	return f.nextID, nil
}

func (f *fakeUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.GoogleID == googleID })
}

func (f *fakeUsers) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.ID == userID })
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[userID]; !ok {
		return false, nil
	}
	delete(f.byID, userID)
	return true, nil
}

func (f *fakeUsers) UpdateScore(ctx context.Context, userID int64, score int, result domain.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return errors.New("no such user")
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

func (f *fakeUsers) UpdateUserGoogleID(ctx context.Context, email, googleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			u.GoogleID = googleID
		}
	}
	return nil
}

func (f *fakeUsers) GetLeaderboard(ctx context.Context, limit int) ([]domain.PlayerScore, error) {
	users, _ := f.ListUsers(ctx)
	sort.SliceStable(users, func(i, j int) bool { return users[i].Score > users[j].Score })
	out := make([]domain.PlayerScore, 0, limit)
	for i, u := range users {
		if i == limit {
			break
		}
		out = append(out, domain.PlayerScore{Rank: i + 1, Name: u.Username, Score: u.Score})
	}
	return out, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	entries map[int64][]domain.HistoryEntry
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{entries: make(map[int64][]domain.HistoryEntry)}
}

func (f *fakeHistory) AddEntry(ctx context.Context, userID int64, entry domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[userID] = append(f.entries[userID], entry)
	return nil
}

func (f *fakeHistory) ListByUser(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.HistoryEntry(nil), f.entries[userID]...), nil
}

var errMiss = errors.New("miss")

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string), ttl: make(map[string]time.Duration)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = fmt.Sprint(value)
	f.ttl[key] = expiration
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	v, ok := f.data[key]
	if !ok {
		return "", errMiss
	}
	return v, nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

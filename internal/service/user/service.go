package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/pkg/auth"
)

const (
	scoreKeyPrefix        = "score:"
	revokedTokenKeyPrefix = "revoked_token:"
	scoreCacheTTL         = 5 * time.Minute
	leaderboardSize       = 10

	MinNameLength = 3
	MaxNameLength = 50

	// ReservedBotName is the name the AI opponent plays under.
	ReservedBotName = "BOT"
)

type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash, googleID string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) (bool, error)
	UpdateScore(ctx context.Context, userID int64, score int, result domain.Result) error
	UpdateUserGoogleID(ctx context.Context, email, googleID string) error
	GetLeaderboard(ctx context.Context, limit int) ([]domain.PlayerScore, error)
}

type HistoryRepository interface {
	AddEntry(ctx context.Context, userID int64, entry domain.HistoryEntry) error
	ListByUser(ctx context.Context, userID int64) ([]domain.HistoryEntry, error)
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Service owns accounts, scores and match history.
type Service struct {
	users   UserRepository
	history HistoryRepository
	cache   CacheRepository // Optional, can be nil

	// scoreMu serializes the read-compute-write of Elo updates.
	scoreMu sync.Mutex
}

func NewService(users UserRepository, history HistoryRepository, cache CacheRepository) *Service {
	return &Service{
		users:   users,
		history: history,
		cache:   cache,
	}
}

// ValidationError is a rejected input, answered with 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func validateRegistration(name, email, password string) error {
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must be %d to %d characters", MinNameLength, MaxNameLength)}
	}
	if strings.EqualFold(name, ReservedBotName) {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("%q is reserved", ReservedBotName)}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if err := auth.ValidatePassword(password); err != nil {
		return &ValidationError{Field: "password", Reason: err.Error()}
	}
	return nil
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetUserByUsername(ctx, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUserExists
	}
	if existing, err := s.users.GetUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, name, email, hash, "")
	if err != nil {
		return nil, err
	}

	log.Printf("[USER] Registered %s (ID: %d)", name, id)
	return s.users.GetUserByID(ctx, id)
}

// Login checks the credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, name, password string) (string, *domain.User, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(name))
	if err != nil {
		return "", nil, err
	}
	if u == nil || u.PasswordHash == "" || !auth.CheckPasswordHash(password, u.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	log.Printf("[USER] %s logged in", u.Username)
	return token, u, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.cache == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.Remaining()
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedTokenKeyPrefix+claims.ID, "1", ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	log.Printf("[USER] %s logged out", claims.Username)
	return nil
}

func (s *Service) IsTokenRevoked(ctx context.Context, tokenID string) bool {
	if s.cache == nil || tokenID == "" {
		return false
	}
	val, err := s.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	return err == nil && val != ""
}

// LoginWithGoogle finds the player by Google id, links an existing account
// with the same email, or creates a new one.
func (s *Service) LoginWithGoogle(ctx context.Context, email, googleID, name string) (string, *domain.User, error) {
	u, err := s.users.GetUserByGoogleID(ctx, googleID)
	if err != nil {
		return "", nil, err
	}

	if u == nil && email != "" {
		u, err = s.users.GetUserByEmail(ctx, strings.ToLower(email))
		if err != nil {
			return "", nil, err
		}
		if u != nil {
			if err := s.users.UpdateUserGoogleID(ctx, u.Email, googleID); err != nil {
				return "", nil, err
			}
			log.Printf("[OAUTH] Linked Google account to %s", u.Username)
		}
	}

	if u == nil {
		username, err := s.freeUsername(ctx, name, email)
		if err != nil {
			return "", nil, err
		}
		id, err := s.users.CreateUser(ctx, username, strings.ToLower(email), "", googleID)
		if err != nil {
			return "", nil, err
		}
		if u, err = s.users.GetUserByID(ctx, id); err != nil {
			return "", nil, err
		}
		log.Printf("[OAUTH] Created %s from Google sign-in", username)
	}

	token, err := auth.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, u, nil
}

// freeUsername derives an unused name from the Google profile.
func (s *Service) freeUsername(ctx context.Context, name, email string) (string, error) {
	base := strings.Join(strings.Fields(name), "_")
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}
	if len(base) < MinNameLength {
		base = "player_" + base
	}
	if len(base) > MaxNameLength-4 {
		base = base[:MaxNameLength-4]
	}

	candidate := base
	for i := 2; i < 1000; i++ {
		existing, err := s.users.GetUserByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
	return "", domain.ErrUserExists
}

func (s *Service) Users(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// Exists lets the lobbies verify player names.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	u, err := s.users.GetUserByUsername(ctx, name)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Score is served from the cache when possible.
func (s *Service) Score(ctx context.Context, name string) (int, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, scoreKeyPrefix+name); err == nil {
			if score, err := strconv.Atoi(val); err == nil {
				return score, nil
			}
		}
	}

	u, err := s.users.GetUserByUsername(ctx, name)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, domain.ErrUserNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, scoreKeyPrefix+name, u.Score, scoreCacheTTL); err != nil {
			log.Printf("[REDIS] Failed to cache score of %s: %v", name, err)
		}
	}
	return u.Score, nil
}

func (s *Service) Scores(ctx context.Context) ([]domain.PlayerScore, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	scores := make([]domain.PlayerScore, 0, len(users))
	for _, u := range users {
		scores = append(scores, domain.PlayerScore{
			Name:   u.Username,
			Score:  u.Score,
			Wins:   u.GamesWon,
			Losses: u.Losses(),
			Draws:  u.GamesDrawn,
		})
	}
	return scores, nil
}

func (s *Service) Leaderboard(ctx context.Context) ([]domain.PlayerScore, error) {
	return s.users.GetLeaderboard(ctx, leaderboardSize)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	deleted, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}
	s.forgetScore(ctx, u.Username)
	log.Printf("[USER] Deleted %s (ID: %d)", u.Username, id)
	return nil
}

// AddHistory appends an entry reported by a client. EndedAt defaults to now.
func (s *Service) AddHistory(ctx context.Context, name string, entry domain.HistoryEntry) error {
	u, err := s.users.GetUserByUsername(ctx, name)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	if entry.EndedAt.IsZero() {
		entry.EndedAt = time.Now().UTC()
	}
	return s.history.AddEntry(ctx, u.ID, entry)
}

func (s *Service) History(ctx context.Context, name string) ([]domain.HistoryEntry, error) {
	u, err := s.users.GetUserByUsername(ctx, name)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.history.ListByUser(ctx, u.ID)
}

func (s *Service) Stats(ctx context.Context, name string) (domain.HistorySummary, error) {
	entries, err := s.History(ctx, name)
	if err != nil {
		return domain.HistorySummary{}, err
	}
	return domain.Summarize(entries), nil
}

// RecordResult stores a finished game. Online games go to every registered
// participant and move their score with the Elo formula; unregistered names
// are skipped and count as a 1000-rated opponent. Local and ai games are only
// kept in the history of their authenticated owner and leave scores alone.
func (s *Service) RecordResult(ctx context.Context, result domain.GameResult) error {
	if result.Mode != domain.ModeOnline {
		return s.recordOwned(ctx, result)
	}

	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	registered := make(map[domain.PlayerID]*domain.User, len(result.Players))
	for _, p := range result.Players {
		u, err := s.users.GetUserByUsername(ctx, p.Name)
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", p.Name, err)
		}
		if u != nil {
			registered[p.ID] = u
		}
	}

	var errs []error
	for _, p := range result.Players {
		u, ok := registered[p.ID]
		if !ok {
			continue
		}

		entry := result.EntryFor(p)
		opponentScore := domain.InitialRating
		for _, other := range result.Players {
			if other.ID != p.ID {
				if ou, ok := registered[other.ID]; ok {
					opponentScore = ou.Score
				}
			}
		}

		if err := s.history.AddEntry(ctx, u.ID, entry); err != nil {
			errs = append(errs, err)
			continue
		}

		newScore := domain.CalculateElo(u.Score, opponentScore, domain.ResultScore(entry.Result))
		if err := s.users.UpdateScore(ctx, u.ID, newScore, entry.Result); err != nil {
			errs = append(errs, err)
			continue
		}
		s.forgetScore(ctx, u.Username)
		log.Printf("[USER] %s: %s vs %s, score %d -> %d", u.Username, entry.Result, entry.Opponent, u.Score, newScore)
	}
	return errors.Join(errs...)
}

// recordOwned keeps the owner's history line of an unrated game.
func (s *Service) recordOwned(ctx context.Context, result domain.GameResult) error {
	if result.Owner == "" {
		return nil
	}
	for _, p := range result.Players {
		if p.Name != result.Owner {
			continue
		}
		u, err := s.users.GetUserByUsername(ctx, p.Name)
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", p.Name, err)
		}
		if u == nil {
			return nil
		}
		entry := result.EntryFor(p)
		if err := s.history.AddEntry(ctx, u.ID, entry); err != nil {
			return err
		}
		log.Printf("[USER] %s: %s %s vs %s kept in history", u.Username, result.Mode, entry.Result, entry.Opponent)
		return nil
	}
	log.Printf("[USER] Owner %s did not play %s game %s, nothing recorded", result.Owner, result.Mode, result.GameID)
	return nil
}

func (s *Service) forgetScore(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, scoreKeyPrefix+name); err != nil {
		log.Printf("[REDIS] Failed to drop cached score of %s: %v", name, err)
	}
}

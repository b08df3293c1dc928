// Package client talks to the Connect-4 API for the terminal front end.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/internal/service/game"
)

const defaultTimeout = 5 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// IsUnreachable reports a transport failure, as opposed to an answer the
// server gave.
func IsUnreachable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	return !errors.As(err, &apiErr)
}

// API is a thin JSON wrapper over the REST endpoints.
type API struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    httpClient,
	}
}

// Token returns the bearer token of the current login, or "".
func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

// LoggedIn reports whether calls carry a bearer token.
func (a *API) LoggedIn() bool {
	return a.Token() != ""
}

func (a *API) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := a.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Detail != "" {
			apiErr.Detail = payload.Detail
		} else {
			apiErr.Detail = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type movePayload struct {
	Column   int             `json:"column"`
	PlayerID domain.PlayerID `json:"player_id"`
}

// local games

func (a *API) CreateGame(ctx context.Context, req game.CreateGameRequest) (*domain.GameState, error) {
	var state domain.GameState
	if err := a.do(ctx, http.MethodPost, "/api/games/", req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (a *API) Game(ctx context.Context, id int64) (*domain.GameState, error) {
	var state domain.GameState
	if err := a.do(ctx, http.MethodGet, "/api/games/"+strconv.FormatInt(id, 10), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (a *API) MoveGame(ctx context.Context, id int64, column int, player domain.PlayerID) (*domain.GameState, error) {
	var state domain.GameState
	path := "/api/games/" + strconv.FormatInt(id, 10) + "/move"
	if err := a.do(ctx, http.MethodPut, path, movePayload{column, player}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (a *API) DeleteGame(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, "/api/games/"+strconv.FormatInt(id, 10), nil, nil)
}

// online lobbies

type lobbyResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	State   *domain.GameState `json:"state"`
}

func (a *API) CreateLobby(ctx context.Context, req game.CreateLobbyRequest) (*domain.GameState, error) {
	var res lobbyResponse
	if err := a.do(ctx, http.MethodPost, "/api/online/", req, &res); err != nil {
		return nil, err
	}
	return res.State, nil
}

func (a *API) JoinLobby(ctx context.Context, code, name string, verifyUser bool) (*domain.GameState, error) {
	payload := struct {
		Code       string `json:"gameCode"`
		PlayerName string `json:"playerName"`
		VerifyUser bool   `json:"verify_user"`
	}{code, name, verifyUser}

	var res lobbyResponse
	if err := a.do(ctx, http.MethodPost, "/api/online/join", payload, &res); err != nil {
		return nil, err
	}
	return res.State, nil
}

func (a *API) Lobbies(ctx context.Context) ([]game.LobbySummary, error) {
	var lobbies []game.LobbySummary
	if err := a.do(ctx, http.MethodGet, "/api/online/lobbies", nil, &lobbies); err != nil {
		return nil, err
	}
	return lobbies, nil
}

func (a *API) LobbyState(ctx context.Context, code string) (*domain.GameState, error) {
	var state domain.GameState
	if err := a.do(ctx, http.MethodGet, "/api/online/"+url.PathEscape(code), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (a *API) MoveLobby(ctx context.Context, code string, column int, player domain.PlayerID) (*domain.GameState, error) {
	var state domain.GameState
	path := "/api/online/" + url.PathEscape(code) + "/move"
	if err := a.do(ctx, http.MethodPut, path, movePayload{column, player}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (a *API) ResetLobby(ctx context.Context, code string) (*domain.GameState, error) {
	var res lobbyResponse
	if err := a.do(ctx, http.MethodPost, "/api/online/"+url.PathEscape(code)+"/reset", nil, &res); err != nil {
		return nil, err
	}
	return res.State, nil
}

func (a *API) DestroyLobby(ctx context.Context, code string) error {
	return a.do(ctx, http.MethodDelete, "/api/online/"+url.PathEscape(code), nil, nil)
}

// users

func (a *API) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	var u domain.User
	if err := a.do(ctx, http.MethodPost, "/api/users/", payload, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login stores the returned token for the following calls.
func (a *API) Login(ctx context.Context, name, password string) (*domain.User, error) {
	payload := map[string]string{"name": name, "password": password}
	var res struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/auth/", payload, &res); err != nil {
		return nil, err
	}
	a.SetToken(res.Token)
	return res.User, nil
}

func (a *API) Logout(ctx context.Context) error {
	if !a.LoggedIn() {
		return nil
	}
	err := a.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	a.SetToken("")
	return err
}

func (a *API) Score(ctx context.Context, name string) (int, error) {
	var score int
	err := a.do(ctx, http.MethodGet, "/api/users/score/"+url.PathEscape(name), nil, &score)
	return score, err
}

func (a *API) Leaderboard(ctx context.Context) ([]domain.PlayerScore, error) {
	var scores []domain.PlayerScore
	err := a.do(ctx, http.MethodGet, "/api/users/leaderboard", nil, &scores)
	return scores, err
}

func (a *API) History(ctx context.Context, name string) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := a.do(ctx, http.MethodGet, "/api/users/history/"+url.PathEscape(name), nil, &entries)
	return entries, err
}

func (a *API) Stats(ctx context.Context, name string) (domain.HistorySummary, error) {
	var summary domain.HistorySummary
	err := a.do(ctx, http.MethodGet, "/api/users/history/"+url.PathEscape(name)+"/stats", nil, &summary)
	return summary, err
}

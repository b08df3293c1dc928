package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

const (
	updateState  = "state"
	updateClosed = "closed"
)

type update struct {
	Type  string            `json:"type"`
	Code  string            `json:"code"`
	State *domain.GameState `json:"state,omitempty"`
}

// Watch subscribes to the lobby stream and calls fn with every snapshot, and
// with nil once the lobby is destroyed. It returns when ctx is cancelled or
// the connection drops.
func (a *API) Watch(ctx context.Context, code string, fn func(*domain.GameState)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	endpoint := a.BaseURL + "/api/online/" + url.PathEscape(code) + "/ws"
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = "ws://" + strings.TrimPrefix(endpoint, "http://")
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return &APIError{Status: resp.StatusCode, Detail: "cannot watch lobby " + code}
		}
		return fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg update
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		switch msg.Type {
		case updateState:
			fn(msg.State)
		case updateClosed:
			fn(nil)
			return nil
		}
	}
}

// Watch keeps the attached lobby in sync through the push stream.
func (s *Session) Watch(ctx context.Context, fn func(*domain.GameState)) error {
	s.mu.Lock()
	code := s.code
	s.mu.Unlock()
	if code == "" {
		return ErrNotAttached
	}

	return s.api.Watch(ctx, code, func(state *domain.GameState) {
		s.Update(code, state)
		if fn != nil {
			fn(state)
		}
	})
}

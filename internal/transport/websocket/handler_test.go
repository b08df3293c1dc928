package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type fakeLobbies map[string]*domain.GameState

func (f fakeLobbies) State(code string) (*domain.GameState, error) {
	s, ok := f[code]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return s, nil
}

func newTestServer(t *testing.T, hub *Hub, lobbies fakeLobbies) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHandler(hub, lobbies, []string{"http://allowed.example"})
	r := gin.New()
	r.GET("/api/online/:code/ws", h.Watch)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, code string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/online/" + code + "/ws"
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWatchReceivesSnapshots(t *testing.T) {
	hub := NewHub()
	state := domain.NewGameState(1, []domain.Player{{ID: 1, Name: "alice"}}, domain.GameConfig{}.WithDefaults())
	state.Code = "abc"
	srv := newTestServer(t, hub, fakeLobbies{"abc": state})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "abc"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Type != MessageState || first.State == nil || len(first.State.Players) != 1 {
		t.Fatalf("initial message = %+v", first)
	}
	if hub.Subscribers("abc") != 1 {
		t.Fatalf("subscribers = %d", hub.Subscribers("abc"))
	}

	next := state.Clone()
	next.Players = append(next.Players, domain.Player{ID: 2, Name: "bob"})
	hub.Publish("abc", next)
	update := readMessage(t, conn)
	if len(update.State.Players) != 2 {
		t.Fatalf("update = %+v", update.State)
	}

	hub.Publish("other", next)
	hub.Publish("abc", nil)
	closed := readMessage(t, conn)
	if closed.Type != MessageClosed || closed.State != nil {
		t.Fatalf("closed message = %+v", closed)
	}
}

func TestWatchUnknownLobby(t *testing.T) {
	srv := newTestServer(t, NewHub(), fakeLobbies{})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "missing"), nil)
	if err == nil {
		t.Fatalf("dial to unknown lobby succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("response = %+v", resp)
	}
}

func TestWatchRejectsForeignOrigin(t *testing.T) {
	state := domain.NewGameState(1, nil, domain.GameConfig{}.WithDefaults())
	srv := newTestServer(t, NewHub(), fakeLobbies{"abc": state})

	header := http.Header{"Origin": []string{"http://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "abc"), header); err == nil {
		t.Fatalf("foreign origin accepted")
	}

	header.Set("Origin", "http://allowed.example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "abc"), header)
	if err != nil {
		t.Fatalf("allowed origin rejected: %v", err)
	}
	conn.Close()
}

func TestWatchDropsOlderSnapshots(t *testing.T) {
	hub := NewHub()
	state := domain.NewGameState(1, []domain.Player{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}}, domain.GameConfig{}.WithDefaults())
	state.Code = "abc"
	srv := newTestServer(t, hub, fakeLobbies{"abc": state})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "abc"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if first := readMessage(t, conn); first.State == nil || first.State.Version != 0 {
		t.Fatalf("initial message = %+v", first)
	}

	versioned := func(v int64) *domain.GameState {
		s := state.Clone()
		s.Version = v
		s.MoveCount = int(v)
		return s
	}
	hub.Publish("abc", versioned(3))
	hub.Publish("abc", versioned(1))
	hub.Publish("abc", versioned(4))

	if got := readMessage(t, conn); got.State.Version != 3 {
		t.Fatalf("first update version = %d, want 3", got.State.Version)
	}
	if got := readMessage(t, conn); got.State.Version != 4 {
		t.Fatalf("second update version = %d, want 4 (older snapshot must be dropped)", got.State.Version)
	}
}

func TestSubscriberQueueNeverBlocks(t *testing.T) {
	hub := NewHub()
	state := domain.NewGameState(1, nil, domain.GameConfig{}.WithDefaults())
	srv := newTestServer(t, hub, fakeLobbies{"abc": state})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "abc"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readMessage(t, conn)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10*sendBuffer; i++ {
			next := state.Clone()
			next.Version = int64(i + 1)
			hub.Publish("abc", next)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on a watcher that does not read")
	}
}

func TestUnencodableSnapshotClosesWatcher(t *testing.T) {
	state := domain.NewGameState(1, nil, domain.GameConfig{}.WithDefaults())
	// encoding/json refuses years past 9999
	state.CreatedAt = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := newTestServer(t, NewHub(), fakeLobbies{"abc": state})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "abc"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("expected the socket to close, got %+v", msg)
	}
}

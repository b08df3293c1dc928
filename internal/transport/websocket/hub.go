package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

const (
	MessageState  = "state"
	MessageClosed = "closed"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Message is what subscribers of a lobby receive.
type Message struct {
	Type  string            `json:"type"`
	Code  string            `json:"code"`
	State *domain.GameState `json:"state,omitempty"`
}

type outbound struct {
	data  []byte
	final bool
}

type subscriber struct {
	conn *websocket.Conn
	// gorilla connections support one concurrent writer
	writeMu sync.Mutex

	mu      sync.Mutex
	send    chan outbound
	version int64
	closed  bool
}

func newSubscriber(conn *websocket.Conn) *subscriber {
	return &subscriber{conn: conn, send: make(chan outbound, sendBuffer)}
}

// enqueue hands a message to the write pump without blocking. Snapshots older
// than one already queued are dropped, and a watcher too slow to drain its
// queue is disconnected.
func (s *subscriber) enqueue(state *domain.GameState, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if state != nil {
		if state.Version < s.version {
			return
		}
		s.version = state.Version
	}

	select {
	case s.send <- outbound{data: data, final: state == nil}:
		if state == nil {
			s.closed = true
		}
	default:
		log.Printf("[WS] Watcher queue full, disconnecting")
		s.closed = true
		s.conn.Close()
	}
}

func (s *subscriber) write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *subscriber) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// writePump drains the queue and keeps the connection alive until done is
// closed or the lobby goes away.
func (s *subscriber) writePump(code string, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg := <-s.send:
			if err := s.write(msg.data); err != nil {
				log.Printf("[WS] Dropping watcher of %s: %v", code, err)
				s.conn.Close()
				return
			}
			if msg.final {
				s.conn.Close()
				return
			}
		case <-ticker.C:
			if err := s.ping(); err != nil {
				s.conn.Close()
				return
			}
		}
	}
}

func encode(code string, state *domain.GameState) ([]byte, error) {
	msg := Message{Type: MessageState, Code: code, State: state}
	if state == nil {
		msg.Type = MessageClosed
	}
	return json.Marshal(msg)
}

// Hub fans lobby snapshots out to the sockets watching each lobby.
type Hub struct {
	rooms map[string]map[*subscriber]struct{}
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*subscriber]struct{})}
}

func (h *Hub) add(code string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[code]
	if !ok {
		room = make(map[*subscriber]struct{})
		h.rooms[code] = room
	}
	room[s] = struct{}{}
}

func (h *Hub) remove(code string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[code]
	if !ok {
		return
	}
	delete(room, s)
	if len(room) == 0 {
		delete(h.rooms, code)
	}
}

// Subscribers counts the sockets watching code.
func (h *Hub) Subscribers(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}

// Publish queues the snapshot for every watcher of code and returns without
// waiting on the network. A nil state tells them the lobby is gone and closes
// their sockets.
func (h *Hub) Publish(code string, state *domain.GameState) {
	data, err := encode(code, state)
	if err != nil {
		log.Printf("[WS] Failed to encode snapshot of %s: %v", code, err)
		return
	}

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.rooms[code]))
	for s := range h.rooms[code] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		s.enqueue(state, data)
	}
}

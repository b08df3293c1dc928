package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Slivix/Projet-AOS/internal/domain"
)

type LobbyReader interface {
	State(code string) (*domain.GameState, error)
}

// Handler upgrades lobby watchers and keeps them registered in the hub.
type Handler struct {
	Hub      *Hub
	Lobbies  LobbyReader
	Upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, lobbies LobbyReader, allowedOrigins []string) *Handler {
	return &Handler{
		Hub:     hub,
		Lobbies: lobbies,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// originChecker accepts clients without an Origin header (terminal client)
// and browsers from the allowed list.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		log.Printf("[WS] Rejected origin %s", origin)
		return false
	}
}

// Watch serves GET /api/online/:code/ws.
func (h *Handler) Watch(c *gin.Context) {
	code := c.Param("code")
	if _, err := h.Lobbies.State(code); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Game not found"})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.serve(code, conn)
}

func (h *Handler) serve(code string, conn *websocket.Conn) {
	s := newSubscriber(conn)
	// subscribe first so no publish falls between the initial read and the hub
	h.Hub.add(code, s)
	log.Printf("[WS] Watcher joined %s", code)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.Hub.remove(code, s)
		conn.Close()
		log.Printf("[WS] Watcher left %s", code)
	}()
	go s.writePump(code, done)

	initial, err := h.Lobbies.State(code)
	if err != nil {
		// destroyed since the upgrade: send the closed message
		initial = nil
	}
	data, err := encode(code, initial)
	if err != nil {
		log.Printf("[WS] Failed to encode snapshot of %s: %v", code, err)
		return
	}
	s.enqueue(initial, data)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// watchers only listen; reading drives the pong handler and notices closes
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error on %s: %v", code, err)
			}
			return
		}
	}
}

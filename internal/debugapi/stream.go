package debugapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// MountWebSocket adds the /ws live-state stream route to an existing
// router, mirroring the teacher's Server.setupWebSocketRoutes split:
// the hub instance lives outside NewRouter so it can be shared with
// the broadcast loop started from main.
func MountWebSocket(r chi.Router, hub *StateHub) {
	r.Get("/ws", hub.HandleWS)
}

// MaxWSConnections bounds how many viewers the debug server will fan a
// state broadcast out to, mirroring the teacher's DoS-conscious
// WebSocketHub cap.
const MaxWSConnections = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

var allowedOrigins []string

// SetAllowedOrigins configures the WebSocket origin allow-list. Called
// once at startup from the allowed CORS origins.
func SetAllowedOrigins(origins []string) { allowedOrigins = origins }

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser clients (curl, CLI viewers) send no Origin
	}
	for _, allowed := range allowedOrigins {
		if allowed == origin || allowed == "*" {
			return true
		}
	}
	log.Printf("⚠️ websocket connection rejected from origin: %s", origin)
	RecordConnectionRejected("origin")
	return false
}

// StateHub fans out periodic StateView snapshots to connected viewers.
// Grounded on the teacher's internal/api/websocket.go WebSocketHub:
// register/unregister/broadcast channels drained by a single Run loop
// so the client map is only ever touched from one goroutine.
type StateHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

// NewStateHub creates an idle hub; call Run to start draining it.
func NewStateHub() *StateHub {
	return &StateHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run drains the hub's channels until stop is closed.
func (h *StateHub) Run(stop <-chan struct{}) {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			UpdateWSConnections(len(h.clients))
		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			UpdateWSConnections(len(h.clients))
		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
			IncrementWSMessages()
		case <-stop:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
			}
			h.clients = make(map[*websocket.Conn]bool)
			h.mu.Unlock()
			return
		}
	}
}

// BroadcastLoop polls r.View() at interval and pushes it to every
// connected viewer until stop is closed.
func (h *StateHub) BroadcastLoop(r RunnerInterface, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			buf, err := json.Marshal(r.View())
			if err != nil {
				continue
			}
			select {
			case h.broadcast <- buf:
			default:
				// a slow consumer does not get to back-pressure the sim
			}
		case <-stop:
			return
		}
	}
}

// HandleWS upgrades an HTTP request to a WebSocket and registers it.
func (h *StateHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	tooMany := len(h.clients) >= MaxWSConnections
	h.mu.Unlock()
	if tooMany {
		RecordConnectionRejected("ws_limit")
		http.Error(w, "too many viewers", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️ websocket upgrade failed: %v", err)
		return
	}
	h.register <- conn

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}


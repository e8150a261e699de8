package websocket

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"storemap/internal/core/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow same-origin (no Origin header)
		if origin == "" {
			return true
		}

		allowedOrigins := []string{
			"http://localhost:8080",
			"http://127.0.0.1:8080",
			"http://[::1]:8080",
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		log.Printf("WebSocket: Rejected origin: %s", origin)
		return false
	},
}

// WSMessage is the envelope for every message pushed to clients.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSManager tracks connected clients and pushes each published refresh cycle
// to them. It implements ports.Publisher.
type WSManager struct {
	clients map[*websocket.Conn]struct{}
	mu      sync.Mutex
}

// NewWSManager creates a new WSManager.
func NewWSManager() *WSManager {
	return &WSManager{
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWebSocket upgrades the connection and registers the client.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	m.mu.Lock()
	m.clients[conn] = struct{}{}
	m.mu.Unlock()

	log.Printf("WebSocket connected: %s", conn.RemoteAddr())

	// Clean up on disconnect
	go func() {
		defer conn.Close()
		defer func() {
			m.mu.Lock()
			delete(m.clients, conn)
			m.mu.Unlock()
			log.Printf("WebSocket disconnected: %s", conn.RemoteAddr())
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// PublishListings broadcasts a freshly published ordering to all clients.
func (m *WSManager) PublishListings(listings []domain.RankedListing) {
	m.broadcast(WSMessage{Type: "listings", Payload: listings})
}

func (m *WSManager) broadcast(msg WSMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.clients {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("WebSocket write failed, dropping client: %v", err)
			conn.Close()
			delete(m.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (m *WSManager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

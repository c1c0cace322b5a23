package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

const (
	clientBuffer  = 32
	writeDeadline = 5 * time.Second
)

// Hub is a Sink that streams events to connected websocket clients, feeding
// live dashboard views. Slow clients are disconnected rather than allowed to
// stall emission.
type Hub struct {
	mu       sync.Mutex
	clients  map[*hubClient]struct{}
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a websocket event hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		clients: make(map[*hubClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Emit broadcasts the event to every connected client without blocking.
func (h *Hub) Emit(event string, payload any) {
	body, err := json.Marshal(envelope(event, payload))
	if err != nil {
		h.logger.Error("events: marshal failed", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- body:
		default:
			// Client can't keep up; drop it.
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket and streams events until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("events: websocket upgrade failed", "error", err)
		return
	}

	client := &hubClient{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	h.readPump(client)
}

func (h *Hub) writePump(client *hubClient) {
	defer func() { _ = client.conn.Close() }()
	for body := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := client.conn.WriteMessage(websocket.TextMessage, body); err != nil {
			return
		}
	}
}

// readPump drains inbound frames so pings and close handshakes are processed.
func (h *Hub) readPump(client *hubClient) {
	defer h.drop(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(client *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	_ = client.conn.Close()
}

package trace

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// upgrader is permissive about origin: the stream is a local debugging
// feed, not exposed to the open internet, mirroring the teacher's
// telemetry endpoints having no auth layer either.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans Events out to every connected live-trace websocket client, per
// spec §6's Trace Output interface extended with a push feed.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection until it errors or the caller disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("trace: websocket upgrade failed: %v", err)
		return
	}
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	go h.drainClient(conn)
}

// drainClient discards inbound messages (the feed is one-directional) and
// deregisters the connection once the client disconnects.
func (h *Hub) drainClient(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast frames ev as protobuf and pushes it to every connected client,
// dropping (and deregistering) any connection whose write fails.
func (h *Hub) Broadcast(ev Event) {
	frame := ev.Marshal()
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// Clients reports the number of currently connected live-trace viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

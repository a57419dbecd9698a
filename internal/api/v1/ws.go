package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vmunix/cinetrack/internal/events"
)

const (
	writeWait      = 2 * time.Second
	pushBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub pushes catalog-changed notifications to connected websocket clients.
// Messages carry no record data; clients re-query the catalog.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log,
	}
}

// add registers ws and sends it a welcome message. Writes happen under the
// hub lock so a connection never has two concurrent writers.
func (h *Hub) add(ws *websocket.Conn, welcome pushMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ws] = struct{}{}
	h.write(ws, welcome)
}

func (h *Hub) remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client, dropping clients that fail.
func (h *Hub) Broadcast(msg pushMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.clients {
		h.write(ws, msg)
	}
}

// write must be called with h.mu held.
func (h *Hub) write(ws *websocket.Conn, msg pushMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
		h.log.Debug("dropping websocket client", "remote", ws.RemoteAddr(), "error", err)
		_ = ws.Close()
		delete(h.clients, ws)
	}
}

// Run broadcasts catalog changes read from ch until ctx is done or ch is
// closed, then disconnects every client.
func (h *Hub) Run(ctx context.Context, ch <-chan events.Event) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case e, ok := <-ch:
			if !ok {
				h.closeAll()
				return nil
			}
			if changed, isChange := e.(*events.CatalogChanged); isChange {
				h.Broadcast(pushMessage{
					Type:     events.EventCatalogChanged,
					Reason:   string(changed.Reason),
					RecordID: changed.EntityID(),
					Size:     changed.Size,
				})
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.clients {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = ws.Close()
		delete(h.clients, ws)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	s.hub.add(ws, pushMessage{Type: "welcome", Size: s.deps.Catalog.Len()})
	s.log.Debug("websocket client connected", "remote", r.RemoteAddr, "clients", s.hub.Count())

	// Incoming messages are ignored; the read loop only detects disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.remove(ws)
	s.log.Debug("websocket client disconnected", "remote", r.RemoteAddr)
}

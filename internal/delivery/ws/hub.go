package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans committed mutations out to feed subscribers. Feeds map to
// the two collections ("albums", "songs"); a client subscribes to one
// feed per connection.
type Hub struct {
	mu    sync.RWMutex
	feeds map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		feeds: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Register(feed string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.feeds[feed]; !ok {
		h.feeds[feed] = make(map[*websocket.Conn]bool)
	}

	h.feeds[feed][conn] = true
	log.Printf("[hub] register feed=%s conns=%d", feed, len(h.feeds[feed]))
}

func (h *Hub) Unregister(feed string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.feeds[feed]
	if !ok {
		return
	}

	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		conn.Close()
		log.Printf("[hub] unregister feed=%s conns=%d", feed, len(conns))
	}

	if len(conns) == 0 {
		delete(h.feeds, feed)
	}
}

func (h *Hub) SendToFeed(feed string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := h.feeds[feed]
	if len(conns) == 0 {
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("[hub] send failed feed=%s err=%v", feed, err)
		}
	}
}

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

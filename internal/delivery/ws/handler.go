package ws

import (
	"net/http"
)

// FeedHandler upgrades the connection and keeps it subscribed to one
// feed until the client disconnects. Traffic is one-way: the server
// pushes mutation events, anything the client sends is drained and
// ignored.
func FeedHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		feed := r.URL.Query().Get("feed")
		if feed == "" {
			feed = "albums"
		}
		if feed != "albums" && feed != "songs" {
			http.Error(w, "unknown feed", http.StatusBadRequest)
			return
		}

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "ws upgrade failed", http.StatusBadRequest)
			return
		}

		hub.Register(feed, conn)
		defer hub.Unregister(feed, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

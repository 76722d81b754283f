package delivery

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *MediaHandler) {

	// memories (photo wall)
	r.Get("/api/albums", h.Albums.List)
	r.Post("/api/albums/upload", h.Albums.Upload)
	r.Put("/api/albums/{id}", h.Albums.Update)
	r.Delete("/api/albums/{id}", h.Albums.Delete)

	// songs (shared playlist)
	r.Get("/api/songs", h.Songs.List)
	r.Post("/api/songs/upload", h.Songs.Upload)
	r.Put("/api/songs/{id}", h.Songs.Update)
	r.Delete("/api/songs/{id}", h.Songs.Delete)
}

package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/alagadnicaren/sharedmemories1/internal/ports"
	"github.com/go-chi/chi/v5"
)

// MediaHandler serves both collections through one generic
// CollectionHandler per media kind.
type MediaHandler struct {
	Albums *CollectionHandler
	Songs  *CollectionHandler
}

func NewMediaHandler(albums, songs ports.RecordStore, maxUploadBytes int64, zl *logger.ZapLogger) *MediaHandler {
	return &MediaHandler{
		Albums: &CollectionHandler{
			store:        albums,
			label:        "Album",
			fileField:    "image",
			displayField: "caption",
			maxBytes:     maxUploadBytes,
			log:          zl,
		},
		Songs: &CollectionHandler{
			store:        songs,
			label:        "Song",
			fileField:    "audio",
			displayField: "title",
			maxBytes:     maxUploadBytes,
			log:          zl,
		},
	}
}

// CollectionHandler translates HTTP requests for one media kind into
// record store calls. The multipart field names and the error payload
// shape are kept compatible with the original clients.
type CollectionHandler struct {
	store        ports.RecordStore
	label        string // "Album" / "Song", used in messages
	fileField    string // multipart file field name
	displayField string // form field carrying caption or title
	maxBytes     int64
	log          *logger.ZapLogger
}

// GET /api/{kind}
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

// POST /api/{kind}/upload
func (h *CollectionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(h.fileField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	rec, err := h.store.Create(ports.Upload{
		Payload:      payload,
		MimeType:     header.Header.Get("Content-Type"),
		OriginalName: header.Filename,
		Uploader:     r.FormValue("uploader"),
		Display:      r.FormValue(h.displayField),
	})
	switch {
	case errors.Is(err, ports.ErrNoPayload):
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	case errors.Is(err, ports.ErrUnsupportedMediaKind):
		writeError(w, http.StatusUnsupportedMediaType, "Invalid file type")
		return
	case err != nil:
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "upload failed",
			Fields:  map[string]any{"kind": h.label, "file": header.Filename},
			Error:   err,
		})
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "upload stored",
		Fields: map[string]any{
			"kind":     h.label,
			"id":       rec.ID,
			"src":      rec.Src,
			"uploader": rec.Uploader,
			"bytes":    len(payload),
		},
	})
	writeJSON(w, http.StatusOK, rec)
}

// PUT /api/{kind}/{id}
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Action string `json:"action"`
		User   string `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.Action != "like" && req.Action != "unlike" {
		writeError(w, http.StatusBadRequest, "unknown action: "+req.Action)
		return
	}

	rec, err := h.store.SetLike(id, req.User, req.Action == "like")
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, h.label+" not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// DELETE /api/{kind}/{id}
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		User string `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	err := h.store.Delete(id, req.User)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, h.label+" not found")
		return
	case errors.Is(err, ports.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "record deleted",
		Fields:  map[string]any{"kind": h.label, "id": id, "user": req.User},
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": h.label + " deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

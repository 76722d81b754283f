package delivery

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/alagadnicaren/sharedmemories1/internal/domain"
	"github.com/alagadnicaren/sharedmemories1/internal/infra"
	"github.com/alagadnicaren/sharedmemories1/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	zl := logger.NewZapLogger(zap.NewNop().Sugar())

	blobs, err := infra.NewDiskBlobStore(t.TempDir())
	require.NoError(t, err)

	dataDir := t.TempDir()
	albumSnap, err := infra.NewJSONSnapshot(filepath.Join(dataDir, "albums.json"), zl)
	require.NoError(t, err)
	songSnap, err := infra.NewJSONSnapshot(filepath.Join(dataDir, "songs.json"), zl)
	require.NoError(t, err)

	albums := domain.NewRecordService(models.KindImage, "albums", blobs, albumSnap, zl)
	songs := domain.NewRecordService(models.KindAudio, "songs", blobs, songSnap, zl)

	r := chi.NewRouter()
	RegisterRoutes(r, NewMediaHandler(albums, songs, 10<<20, zl))
	return r
}

// multipartBody builds an upload request body with an explicit part
// Content-Type, the way browsers send files.
func multipartBody(t *testing.T, field, filename, mimeType string, payload []byte, form map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition",
		`form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", mimeType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)

	for k, v := range form {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func uploadAlbum(t *testing.T, r chi.Router, uploader, caption string) models.MediaRecord {
	t.Helper()

	body, contentType := multipartBody(t, "image", "beach.jpg", "image/jpeg",
		[]byte("jpeg-bytes"), map[string]string{"uploader": uploader, "caption": caption})

	req := httptest.NewRequest(http.MethodPost, "/api/albums/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out models.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestUploadAndListAlbums(t *testing.T) {
	r := newTestRouter(t)

	created := uploadAlbum(t, r, "alice", "Beach")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Beach", created.Caption)
	assert.Equal(t, "alice", created.Uploader)
	assert.True(t, strings.HasPrefix(created.Src, "/uploads/images/"))

	req := httptest.NewRequest(http.MethodGet, "/api/albums", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestListIsEmptyArrayNotNull(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/songs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestUploadWithoutFile(t *testing.T) {
	r := newTestRouter(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("uploader", "alice"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/albums/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")
}

func TestUploadEmptyPayload(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartBody(t, "image", "empty.jpg", "image/jpeg",
		nil, map[string]string{"uploader": "alice"})

	req := httptest.NewRequest(http.MethodPost, "/api/albums/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadWrongMediaKind(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartBody(t, "image", "archive.zip", "application/zip",
		[]byte("zip-bytes"), map[string]string{"uploader": "alice"})

	req := httptest.NewRequest(http.MethodPost, "/api/albums/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file type")
}

func TestUploadSong(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartBody(t, "audio", "our song.mp3", "audio/mpeg",
		[]byte("mp3-bytes"), map[string]string{"uploader": "bob"})

	req := httptest.NewRequest(http.MethodPost, "/api/songs/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out models.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "our song", out.Title)
	assert.Equal(t, "our song.mp3", out.FileName)
	assert.Equal(t, "Unknown", out.Duration)
	assert.True(t, strings.HasPrefix(out.Src, "/uploads/audio/"))
}

func putJSON(t *testing.T, r chi.Router, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, url, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLikeUnlikeFlow(t *testing.T) {
	r := newTestRouter(t)
	created := uploadAlbum(t, r, "alice", "Beach")

	rec := putJSON(t, r, "/api/albums/"+created.ID, map[string]string{"action": "like", "user": "bob"})
	require.Equal(t, http.StatusOK, rec.Code)

	var liked models.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &liked))
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, []string{"bob"}, liked.LikedBy)

	rec = putJSON(t, r, "/api/albums/"+created.ID, map[string]string{"action": "unlike", "user": "bob"})
	require.Equal(t, http.StatusOK, rec.Code)

	var unliked models.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unliked))
	assert.Zero(t, unliked.Likes)
	assert.Empty(t, unliked.LikedBy)
}

func TestLikeUnknownAction(t *testing.T) {
	r := newTestRouter(t)
	created := uploadAlbum(t, r, "alice", "Beach")

	rec := putJSON(t, r, "/api/albums/"+created.ID, map[string]string{"action": "boost", "user": "bob"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeMissingRecord(t *testing.T) {
	r := newTestRouter(t)

	rec := putJSON(t, r, "/api/albums/does-not-exist", map[string]string{"action": "like", "user": "bob"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Album not found")
}

func deleteJSON(t *testing.T, r chi.Router, url, user string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(map[string]string{"user": user})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, url, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDeleteFlow(t *testing.T) {
	r := newTestRouter(t)
	created := uploadAlbum(t, r, "alice", "Beach")

	rec := deleteJSON(t, r, "/api/albums/"+created.ID, "bob")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = deleteJSON(t, r, "/api/albums/"+created.ID, "alice")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Album deleted")

	req := httptest.NewRequest(http.MethodGet, "/api/albums", nil)
	listRec := httptest.NewRecorder()
	r.ServeHTTP(listRec, req)
	assert.Equal(t, "[]", strings.TrimSpace(listRec.Body.String()))

	rec = deleteJSON(t, r, "/api/albums/"+created.ID, "alice")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

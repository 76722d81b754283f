package domain

import (
	"fmt"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/alagadnicaren/sharedmemories1/internal/models"
	"github.com/alagadnicaren/sharedmemories1/internal/ports"
	"github.com/google/uuid"
)

const (
	defaultCaption  = "New Memory"
	defaultUploader = "Anonymous"
)

var audioExtRe = regexp.MustCompile(`(?i)\.(mp3|mpeg)$`)

// RecordService owns one media kind's collection. A single mutex
// serializes every read-modify-write of the collection and its
// snapshot; album and song services are independent instances.
type RecordService struct {
	kind  models.MediaKind
	feed  string
	blobs ports.BlobStore
	snap  ports.Snapshotter
	log   *logger.ZapLogger

	mu      sync.Mutex
	records []models.MediaRecord

	events chan ports.FeedEvent
}

func NewRecordService(
	kind models.MediaKind,
	feed string,
	blobs ports.BlobStore,
	snap ports.Snapshotter,
	zl *logger.ZapLogger,
) *RecordService {
	records := snap.Load()
	for i := range records {
		// likes must always equal |likedBy|, even when the snapshot
		// on disk has drifted.
		if records[i].LikedBy == nil {
			records[i].LikedBy = []string{}
		}
		records[i].Likes = len(records[i].LikedBy)
	}

	return &RecordService{
		kind:    kind,
		feed:    feed,
		blobs:   blobs,
		snap:    snap,
		log:     zl,
		records: records,
		events:  make(chan ports.FeedEvent, 100),
	}
}

// Events exposes committed mutations for feed broadcasting.
func (s *RecordService) Events() <-chan ports.FeedEvent { return s.events }

func (s *RecordService) List() []models.MediaRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MediaRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *RecordService) Create(up ports.Upload) (models.MediaRecord, error) {
	// An empty upload must be rejected before the blob store is touched.
	if len(up.Payload) == 0 {
		return models.MediaRecord{}, ports.ErrNoPayload
	}

	locator, err := s.blobs.Store(up.Payload, up.MimeType, up.OriginalName)
	if err != nil {
		return models.MediaRecord{}, err
	}

	rec := models.MediaRecord{
		ID:       uuid.NewString(),
		Src:      locator,
		Uploader: up.Uploader,
		LikedBy:  []string{},
	}
	if rec.Uploader == "" {
		rec.Uploader = defaultUploader
	}

	switch s.kind {
	case models.KindImage:
		rec.Caption = up.Display
		if rec.Caption == "" {
			rec.Caption = defaultCaption
		}
		rec.Timestamp = time.Now().UTC()
	case models.KindAudio:
		rec.Title = up.Display
		if rec.Title == "" {
			rec.Title = audioExtRe.ReplaceAllString(up.OriginalName, "")
		}
		rec.FileName = up.OriginalName
		rec.Duration = "Unknown" // measured on the client after playback starts
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.persist()
	s.mu.Unlock()

	s.publish("created", rec)
	return rec, nil
}

func (s *RecordService) SetLike(id, user string, liked bool) (models.MediaRecord, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.MediaRecord{}, fmt.Errorf("record %s: %w", id, ports.ErrNotFound)
	}

	rec := &s.records[i]
	has := slices.Contains(rec.LikedBy, user)
	switch {
	case liked && !has:
		// Copy-on-write so snapshots handed out by List are never
		// mutated behind the caller's back.
		rec.LikedBy = append(slices.Clone(rec.LikedBy), user)
	case !liked && has:
		clone := slices.Clone(rec.LikedBy)
		rec.LikedBy = slices.DeleteFunc(clone, func(u string) bool { return u == user })
	default:
		// Repeated identical calls are no-ops, but still persisted
		// like any other completed mutation path.
	}
	rec.Likes = len(rec.LikedBy)

	out := *rec
	s.persist()
	s.mu.Unlock()

	s.publish("liked", out)
	return out, nil
}

func (s *RecordService) Delete(id, requestingUser string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("record %s: %w", id, ports.ErrNotFound)
	}

	rec := s.records[i]
	if rec.Uploader != requestingUser {
		s.mu.Unlock()
		return fmt.Errorf("record %s owned by %s: %w", id, rec.Uploader, ports.ErrForbidden)
	}

	// Metadata removal is persisted before the blob is unlinked. A
	// crash in between leaves an orphan blob, which is reclaimable;
	// the reverse would leave a record pointing at nothing.
	s.records = slices.Delete(s.records, i, i+1)
	s.persist()

	if err := s.blobs.Delete(rec.Src); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "blob delete failed, orphan left behind",
			Fields:  map[string]any{"id": rec.ID, "src": rec.Src},
			Error:   err,
		})
	}
	s.mu.Unlock()

	s.publish("deleted", rec)
	return nil
}

func (s *RecordService) indexOf(id string) int {
	return slices.IndexFunc(s.records, func(r models.MediaRecord) bool { return r.ID == id })
}

// persist flushes the collection through the snapshot adapter. A
// failed write is logged and the in-memory mutation stands; the next
// successful save reconciles. Callers must hold s.mu.
func (s *RecordService) persist() {
	if err := s.snap.Save(s.records); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "snapshot save failed, keeping in-memory state",
			Fields:  map[string]any{"feed": s.feed, "records": len(s.records)},
			Error:   err,
		})
	}
}

func (s *RecordService) publish(typ string, rec models.MediaRecord) {
	select {
	case s.events <- ports.FeedEvent{Feed: s.feed, Type: typ, Record: rec}:
	default:
		// A stalled feed consumer must never block a mutation.
	}
}

var _ ports.RecordStore = (*RecordService)(nil)

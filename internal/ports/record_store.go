package ports

import (
	"errors"

	"github.com/alagadnicaren/sharedmemories1/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("requester is not the uploader")
	ErrNoPayload = errors.New("no payload supplied")
)

// Upload carries everything the transport layer extracted from a
// multipart request. The record store never parses multipart itself.
type Upload struct {
	Payload      []byte
	MimeType     string
	OriginalName string
	Uploader     string
	Display      string // caption or title, depending on the store's kind
}

// RecordStore owns one media kind's metadata collection. All mutations
// flush through the persistence adapter before returning.
type RecordStore interface {
	// List returns records in insertion order. It never fails.
	List() []models.MediaRecord

	// Create stores the payload as a blob, appends a new record
	// referencing it and persists the collection.
	Create(up Upload) (models.MediaRecord, error)

	// SetLike adds or removes user from the record's likedBy set.
	// Repeated identical calls are no-ops.
	SetLike(id, user string, liked bool) (models.MediaRecord, error)

	// Delete removes the record and its backing blob. Only the uploader
	// may delete a record.
	Delete(id, requestingUser string) error
}

// FeedEvent is published after a mutation has been committed, for
// broadcast to live feed subscribers.
type FeedEvent struct {
	Feed   string // "albums" or "songs"
	Type   string // "created", "liked" or "deleted"
	Record models.MediaRecord
}

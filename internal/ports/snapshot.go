package ports

import (
	"errors"

	"github.com/alagadnicaren/sharedmemories1/internal/models"
)

// ErrPersistence means the durable snapshot could not be written. The
// in-memory mutation that triggered the save is kept regardless.
var ErrPersistence = errors.New("snapshot write failed")

// Snapshotter mirrors a record collection to durable storage. Save
// overwrites the whole snapshot on every call; this is not a log.
type Snapshotter interface {
	// Load reads the snapshot at startup. A missing or unreadable file
	// yields an empty collection, never a startup failure.
	Load() []models.MediaRecord

	// Save replaces the durable snapshot with the given collection.
	Save(records []models.MediaRecord) error
}

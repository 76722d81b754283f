package ports

import "errors"

var (
	// ErrUnsupportedMediaKind means the declared MIME type is neither
	// image/* nor audio/*.
	ErrUnsupportedMediaKind = errors.New("unsupported media kind")

	// ErrBlobWrite means the payload could not be written to disk.
	ErrBlobWrite = errors.New("blob write failed")
)

// BlobStore owns raw uploaded bytes on durable storage. A locator is a
// stable URL path ("/uploads/images/<name>") that stays resolvable for
// as long as the record referencing it exists.
type BlobStore interface {
	// Store writes the payload under a generated collision-free name in
	// the directory matching the MIME kind and returns its locator.
	Store(payload []byte, mimeType, originalName string) (string, error)

	// Delete removes the blob behind the locator. A missing file is not
	// an error; the cascade may already have happened.
	Delete(locator string) error
}

package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/alagadnicaren/sharedmemories1/internal/models"
	"github.com/alagadnicaren/sharedmemories1/internal/ports"
)

// JSONSnapshot mirrors one record collection to a single JSON file,
// rewritten wholesale on every save.
type JSONSnapshot struct {
	path string
	log  *logger.ZapLogger
}

func NewJSONSnapshot(path string, zl *logger.ZapLogger) (*JSONSnapshot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &JSONSnapshot{path: path, log: zl}, nil
}

// Load reads the snapshot if present. The service must always be able
// to start, so a missing, unreadable or corrupt file yields an empty
// collection and a log line instead of an error.
func (s *JSONSnapshot) Load() []models.MediaRecord {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "snapshot unreadable, starting empty",
			Fields:  map[string]any{"path": s.path},
			Error:   err,
		})
		return nil
	}

	var records []models.MediaRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "snapshot corrupt, starting empty",
			Fields:  map[string]any{"path": s.path},
			Error:   err,
		})
		return nil
	}

	return records
}

// Save overwrites the snapshot with the given collection. The write
// goes to a temp file first and is renamed into place, so readers and
// a crash mid-write never observe a torn file.
func (s *JSONSnapshot) Save(records []models.MediaRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrPersistence, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ports.ErrPersistence, err)
	}
	return nil
}

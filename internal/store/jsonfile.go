package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"laundry-status-monitor/internal/model"
)

// JSONFileStore keeps each series as a pretty-printed JSON array in {dir}/{series}.json.
// Every append reads, parses and rewrites the whole file.
type JSONFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONFileStore creates dir if needed.
func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	return &JSONFileStore{dir: dir}, nil
}

// Path returns the file backing series.
func (s *JSONFileStore) Path(series string) string {
	return filepath.Join(s.dir, series+".json")
}

func (s *JSONFileStore) Append(ctx context.Context, series string, records []model.Snapshot) error {
	if err := validSeries(series); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	path := s.Path(series)
	log := logrus.WithFields(logrus.Fields{"series": series, "path": path})

	s.mu.Lock()
	defer s.mu.Unlock()

	// Existing entries stay raw so fields we do not model survive the rewrite.
	existing, err := readRawArray(path)
	if err != nil {
		log.WithError(err).Error("Failed to read snapshot file")
		return err
	}

	updated := make([]any, 0, len(existing)+len(records))
	for _, raw := range existing {
		updated = append(updated, raw)
	}
	for _, r := range records {
		updated = append(updated, r)
	}

	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: path, Err: err}
	}
	if err := writeFileReplace(path, data); err != nil {
		log.WithError(err).Error("Failed to write snapshot file")
		return err
	}

	log.WithField("records", len(records)).Debug("Appended snapshots")
	return nil
}

func (s *JSONFileStore) Load(ctx context.Context, series string) ([]model.Snapshot, error) {
	if err := validSeries(series); err != nil {
		return nil, err
	}
	path := s.Path(series)

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Snapshot{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var records []model.Snapshot
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StorageError{Op: "parse", Path: path, Err: err}
	}
	if records == nil {
		records = []model.Snapshot{}
	}
	return records, nil
}

func readRawArray(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var existing []json.RawMessage
	if err := json.Unmarshal(data, &existing); err != nil {
		return nil, &StorageError{Op: "parse", Path: path, Err: err}
	}
	return existing, nil
}

// writeFileReplace writes data next to path and renames it over path.
func writeFileReplace(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

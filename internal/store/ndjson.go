package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"laundry-status-monitor/internal/model"
)

const maxLineSize = 1 << 20

// NDJSONStore keeps each series as one JSON record per line in {dir}/{series}.ndjson.
// Appends only write the new lines.
type NDJSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewNDJSONStore creates dir if needed.
func NewNDJSONStore(dir string) (*NDJSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	return &NDJSONStore{dir: dir}, nil
}

// Path returns the file backing series.
func (s *NDJSONStore) Path(series string) string {
	return filepath.Join(s.dir, series+".ndjson")
}

func (s *NDJSONStore) Append(ctx context.Context, series string, records []model.Snapshot) error {
	if err := validSeries(series); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	path := s.Path(series)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return &StorageError{Op: "encode", Path: path, Err: err}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &StorageError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}

	logrus.WithFields(logrus.Fields{"series": series, "path": path, "records": len(records)}).Debug("Appended snapshots")
	return nil
}

func (s *NDJSONStore) Load(ctx context.Context, series string) ([]model.Snapshot, error) {
	if err := validSeries(series); err != nil {
		return nil, err
	}
	path := s.Path(series)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Snapshot{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	records := []model.Snapshot{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var r model.Snapshot
		if err := json.Unmarshal(text, &r); err != nil {
			return nil, &StorageError{Op: "parse", Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	return records, nil
}

// Export writes series as the same pretty-printed JSON array JSONFileStore produces,
// followed by a newline.
func (s *NDJSONStore) Export(ctx context.Context, series string, w io.Writer) error {
	records, err := s.Load(ctx, series)
	if err != nil {
		return err
	}
	return WriteArray(w, records)
}

// WriteArray writes records as a 2-space indented JSON array and a trailing newline.
func WriteArray(w io.Writer, records []model.Snapshot) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

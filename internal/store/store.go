package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"laundry-status-monitor/config"
	"laundry-status-monitor/internal/model"
)

// Store persists append-only snapshot series.
type Store interface {
	// Append adds records to the end of series, creating it if needed.
	Append(ctx context.Context, series string, records []model.Snapshot) error
	// Load returns every record of series in append order. A missing series is empty.
	Load(ctx context.Context, series string) ([]model.Snapshot, error)
}

// New builds the store selected by cfg.Driver. db is only used by the database driver.
func New(cfg config.StorageConfig, db *gorm.DB) (Store, error) {
	switch cfg.Driver {
	case "", "json":
		return NewJSONFileStore(cfg.DataDir)
	case "ndjson":
		return NewNDJSONStore(cfg.DataDir)
	case "database":
		if db == nil {
			return nil, fmt.Errorf("storage driver %q needs a database connection", cfg.Driver)
		}
		return NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ErrInvalidSeries is returned for series names that are empty or contain path separators.
var ErrInvalidSeries = errors.New("invalid series name")

func validSeries(series string) error {
	if series == "" || series == "." || series == ".." || strings.ContainsAny(series, `/\`) {
		return fmt.Errorf("%w %q", ErrInvalidSeries, series)
	}
	return nil
}

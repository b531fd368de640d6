package store

import (
	"context"

	"gorm.io/gorm"

	"laundry-status-monitor/internal/model"
)

// GormStore writes snapshots to the snapshot_rows table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store. The schema is migrated by db.Init.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying connection.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Append(ctx context.Context, series string, records []model.Snapshot) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]model.SnapshotRow, len(records))
	for i, r := range records {
		rows[i] = r.ToRow(series)
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return &StorageError{Op: "insert", Path: series, Err: err}
	}
	return nil
}

func (s *GormStore) Load(ctx context.Context, series string) ([]model.Snapshot, error) {
	var rows []model.SnapshotRow
	if err := s.db.WithContext(ctx).Where("series = ?", series).Order("id").Find(&rows).Error; err != nil {
		return nil, &StorageError{Op: "select", Path: series, Err: err}
	}
	records := make([]model.Snapshot, len(rows))
	for i, r := range rows {
		records[i] = r.Snapshot()
	}
	return records, nil
}

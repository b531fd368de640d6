package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundry-status-monitor/internal/model"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.SnapshotRow{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	first := sampleSnapshots(now, 2)
	second := sampleSnapshots(now.Add(time.Hour), 1)
	require.NoError(t, s.Append(ctx, "fl7_2025-09-01", first))
	require.NoError(t, s.Append(ctx, "fl7_2025-09-01", second))
	require.NoError(t, s.Append(ctx, "other", sampleSnapshots(now, 4)))

	loaded, err := s.Load(ctx, "fl7_2025-09-01")
	require.NoError(t, err)
	assert.Equal(t, append(first, second...), loaded)

	loaded, err = s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestGormStore_InsertError(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "snapshot_rows"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Append(context.Background(), "series", sampleSnapshots(time.Now(), 1))
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "insert", se.Op)
	assert.Equal(t, "series", se.Path)
	assert.NoError(t, mock.ExpectationsWereMet())
}

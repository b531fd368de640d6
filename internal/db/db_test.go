package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-status-monitor/config"
	"laundry-status-monitor/internal/model"
)

func TestInit_SQLiteMigrates(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "laundry.db"),
		MaxOpenConns: 1,
	}

	gormDB, err := Init(cfg)
	require.NoError(t, err)
	defer Close(gormDB)

	assert.True(t, gormDB.Migrator().HasTable(&model.SnapshotRow{}))
	assert.True(t, gormDB.Migrator().HasTable(&model.PushSubscription{}))
}

func TestInit_Errors(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err)

	_, err = Init(&config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

package repository

import (
	"ShareLens/internal/api/config"
	"ShareLens/internal/pkg/database"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:      database.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "share.db") + "?_time_format=sqlite",
		MaxIdle:     1,
		MaxOpen:     1,
		MaxLifetime: 30,
		AutoMigrate: migrate,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

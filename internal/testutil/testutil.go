// Package testutil opens throwaway stores for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"market-backend/internal/core/auth"
	"market-backend/internal/core/database"
	"market-backend/internal/repo"
)

// DB opens a migrated SQLite file in tb's temp dir with foreign keys enforced.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := filepath.Join(tb.TempDir(), "market.db") + "?_foreign_keys=1&_busy_timeout=5000"
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 4,
		MaxIdleConns: 4,
		LogLevel:     "silent",
		Logger:       zap.NewNop(),
	})
	require.NoError(tb, err)
	require.NoError(tb, repo.AutoMigrate(db))
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func Store(tb testing.TB) *repo.Store {
	tb.Helper()
	return repo.NewStore(DB(tb))
}

func JWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "market-test", TTL: time.Hour}
}

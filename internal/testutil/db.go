package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lotoracle/lotoracle-backend/internal/logger"
	"github.com/lotoracle/lotoracle-backend/internal/types"
)

var testDBSeq atomic.Int64

// NewTestDB opens a throwaway in-memory database with the full schema
// migrated. Each call gets its own database; the shared cache keeps
// every pooled connection on that same database.
func NewTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.Prediction{}, &types.HistoricalDraw{}); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewTestLogger builds a development-mode logger for tests.
func NewTestLogger(tb testing.TB) *logger.Logger {
	tb.Helper()

	log, err := logger.New("development")
	if err != nil {
		tb.Fatalf("init test logger: %v", err)
	}
	return log
}

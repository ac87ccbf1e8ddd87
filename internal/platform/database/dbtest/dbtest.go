// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"feedgraph/internal/platform/database"
)

var seq atomic.Int64

func Open(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:dbtest_%d?mode=memory&cache=shared&_foreign_keys=1", seq.Add(1))
	db, err := database.Open(context.Background(), database.Options{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

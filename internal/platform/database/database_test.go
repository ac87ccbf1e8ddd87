package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"feedgraph/internal/model"
)

func TestSQLiteDSNAddsForeignKeys(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=1", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?cache=shared&_foreign_keys=1", sqliteDSN("a.db?cache=shared"))
	assert.Equal(t, "a.db?_foreign_keys=0", sqliteDSN("a.db?_foreign_keys=0"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle"})
	assert.Error(t, err)
}

func openFile(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "feed.db")
	db, err := Open(context.Background(), Options{Driver: "sqlite", DSN: path, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db))
	return db
}

func TestMigrateEnforcesConstraints(t *testing.T) {
	db := openFile(t)

	alice := model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&alice).Error)

	dup := model.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}
	assert.Error(t, db.Create(&dup).Error)

	orphan := model.Post{UserID: 999, Content: "nobody"}
	assert.Error(t, db.Create(&orphan).Error)

	self := model.Follower{FollowerID: alice.ID, FollowingID: alice.ID}
	assert.Error(t, db.Create(&self).Error)

	post := model.Post{UserID: alice.ID, Content: "hi"}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&model.Like{UserID: alice.ID, PostID: post.ID}).Error)
	assert.Error(t, db.Create(&model.Like{UserID: alice.ID, PostID: post.ID}).Error)
}

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"feedgraph/internal/model"
	"feedgraph/internal/platform/database/dbtest"
)

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) (*gorm.DB, context.Context) {
	t.Helper()
	return dbtest.Open(t), context.Background()
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

// seedPosts creates n posts for userID, the i-th one i minutes after baseTime.
func seedPosts(t *testing.T, db *gorm.DB, userID uint, n int) []*model.Post {
	t.Helper()
	repo := NewPostRepository(db)
	posts := make([]*model.Post, 0, n)
	for i := 0; i < n; i++ {
		p := &model.Post{
			UserID:    userID,
			Content:   fmt.Sprintf("post %d", i),
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), p))
		posts = append(posts, p)
	}
	return posts
}

// insertBeforeCreate runs stmt on the creating transaction right before gorm
// inserts into table, once. The row it writes stands in for a concurrent
// request that won the race to the unique key.
func insertBeforeCreate(t *testing.T, db *gorm.DB, table, stmt string, args ...any) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:insert_before_"+table, func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		if _, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context, stmt, args...); err != nil {
			_ = tx.AddError(err)
		}
	})
	require.NoError(t, err)
}

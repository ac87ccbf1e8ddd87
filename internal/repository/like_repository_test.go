package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepositoryCreateIsIdempotent(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewLikeRepository(db)
	alice := seedUser(t, db, "alice")
	post := seedPosts(t, db, alice.ID, 1)[0]

	first, err := repo.Create(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	second, err := repo.Create(ctx, alice.ID, post.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	all, err := repo.ListByPostID(ctx, post.ID, Page{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLikeRepositoryDeleteByUserAndPost(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewLikeRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPosts(t, db, alice.ID, 1)[0]

	_, err := repo.Create(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, bob.ID, post.ID)
	require.NoError(t, err)

	affected, err := repo.DeleteByUserAndPost(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	left, err := repo.ListByUserID(ctx, bob.ID, Page{})
	require.NoError(t, err)
	assert.Empty(t, left)

	like, err := repo.FindByUserAndPost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, like)

	set, err := repo.FindByIDs(ctx, []uint{like.ID, 777})
	require.NoError(t, err)
	assert.Len(t, set, 1)
}

func TestLikeRepositoryCreateLosingRaceReturnsWinner(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewLikeRepository(db)
	alice := seedUser(t, db, "alice")
	post := seedPosts(t, db, alice.ID, 1)[0]

	insertBeforeCreate(t, db, "likes",
		"INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)", alice.ID, post.ID, time.Now())

	like, err := repo.Create(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, like)
	assert.NotZero(t, like.ID)

	all, err := repo.ListByPostID(ctx, post.ID, Page{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, all[0].ID, like.ID)
}

func TestLikeRepositoryGroupedByPost(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewLikeRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	posts := seedPosts(t, db, alice.ID, 3)

	for _, u := range []uint{alice.ID, bob.ID} {
		_, err := repo.Create(ctx, u, posts[0].ID)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, bob.ID, posts[1].ID)
	require.NoError(t, err)

	counts, err := repo.CountByPostIDs(ctx, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{posts[0].ID: 2, posts[1].ID: 1}, counts)

	rows, err := repo.ListByPostIDs(ctx, []uint{posts[0].ID, posts[1].ID}, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, posts[0].ID, rows[0].PostID)
	assert.Equal(t, posts[1].ID, rows[1].PostID)
}

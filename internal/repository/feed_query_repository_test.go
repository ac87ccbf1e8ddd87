package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedQueryPostsCarryResolvedAuthor(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewFeedQueryRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedPosts(t, db, alice.ID, 2)
	seedPosts(t, db, bob.ID, 2)

	views, err := repo.ListPostsWithAuthor(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, views, 4)
	for _, v := range views {
		author, ok := v.Author.Get()
		require.True(t, ok)
		require.NotNil(t, author)
		assert.Equal(t, v.UserID, author.ID)
		assert.Empty(t, author.PasswordHash)
	}
}

func TestFeedQuerySingleAndListAgree(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewFeedQueryRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedPosts(t, db, alice.ID, 2)
	seedPosts(t, db, bob.ID, 1)

	views, err := repo.ListPostsWithAuthor(ctx, Page{})
	require.NoError(t, err)
	for _, v := range views {
		single, err := repo.FindPostWithAuthor(ctx, v.ID)
		require.NoError(t, err)
		require.NotNil(t, single)
		listAuthor, _ := v.Author.Get()
		singleAuthor, _ := single.Author.Get()
		assert.Equal(t, listAuthor, singleAuthor)
		assert.Equal(t, v.Content, single.Content)
	}

	missing, err := repo.FindPostWithAuthor(ctx, 31337)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFeedQueryPostsPagination(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewFeedQueryRepository(db)
	alice := seedUser(t, db, "alice")
	posts := seedPosts(t, db, alice.ID, 4)

	first, err := repo.ListPostsByUserWithAuthor(ctx, alice.ID, Page{Limit: 2})
	require.NoError(t, err)
	second, err := repo.ListPostsByUserWithAuthor(ctx, alice.ID, Page{Limit: 2, Offset: 2})
	require.NoError(t, err)

	assert.Equal(t, []uint{posts[3].ID, posts[2].ID}, []uint{first[0].ID, first[1].ID})
	assert.Equal(t, []uint{posts[1].ID, posts[0].ID}, []uint{second[0].ID, second[1].ID})
}

func TestFeedQueryLikesCarryUserAndPost(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewFeedQueryRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	posts := seedPosts(t, db, alice.ID, 2)

	likes := NewLikeRepository(db)
	_, err := likes.Create(ctx, bob.ID, posts[0].ID)
	require.NoError(t, err)
	_, err = likes.Create(ctx, alice.ID, posts[1].ID)
	require.NoError(t, err)

	all, err := repo.ListLikesWithUserAndPost(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	scoped, err := repo.ListLikesByPostWithUserAndPost(ctx, posts[0].ID, Page{})
	require.NoError(t, err)
	require.Len(t, scoped, 1)

	view := scoped[0]
	user, ok := view.User.Get()
	require.True(t, ok)
	assert.Equal(t, "bob", user.Username)
	post, ok := view.Post.Get()
	require.True(t, ok)
	assert.Equal(t, posts[0].ID, post.ID)
	assert.Equal(t, view.PostID, post.ID)
	assert.Equal(t, alice.ID, post.UserID)
}

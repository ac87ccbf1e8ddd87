package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgraph/internal/model"
	"feedgraph/internal/repository"
)

func repositoryPage(limit, offset int) repository.Page {
	return repository.Page{Limit: limit, Offset: offset}
}

func TestLikePostIsIdempotent(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	post, err := f.posts.CreatePost(asUser(alice), "hello")
	require.NoError(t, err)

	first, err := f.likes.LikePost(asUser(bob), post.ID)
	require.NoError(t, err)
	second, err := f.likes.LikePost(asUser(bob), post.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	likes, err := f.likes.ListLikesByPost(context.Background(), post.ID, repositoryPage(0, 0))
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.NotificationPostLiked, events[0].Kind)
	assert.Equal(t, alice.ID, events[0].RecipientID)

	removed, err := f.likes.UnlikePost(asUser(bob), post.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = f.likes.LikePost(asUser(bob), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSelfLikeEmitsNoEvent(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	post, err := f.posts.CreatePost(asUser(alice), "hello")
	require.NoError(t, err)

	_, err = f.likes.LikePost(asUser(alice), post.ID)
	require.NoError(t, err)
	assert.Empty(t, f.publisher.Events())
}

func TestFollowRejectsSelf(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")

	edge, err := f.follows.Follow(asUser(alice), alice.ID)
	assert.ErrorIs(t, err, ErrFollowSelf)
	assert.Nil(t, edge)

	following, err := f.follows.ListFollowing(context.Background(), alice.ID, repositoryPage(0, 0))
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestFollowAndUnfollow(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	_, err := f.follows.Follow(context.Background(), bob.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	edge, err := f.follows.Follow(asUser(alice), bob.ID)
	require.NoError(t, err)
	again, err := f.follows.Follow(asUser(alice), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, edge.ID, again.ID)

	followers, err := f.follows.ListFollowers(context.Background(), bob.ID, repositoryPage(0, 0))
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].FollowerID)

	require.Len(t, f.publisher.Events(), 1)
	assert.Equal(t, model.NotificationUserFollowed, f.publisher.Events()[0].Kind)

	removed, err := f.follows.Unfollow(asUser(alice), bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = f.follows.Follow(asUser(alice), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCommentParentMustShareThePost(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	first, err := f.posts.CreatePost(asUser(alice), "first")
	require.NoError(t, err)
	second, err := f.posts.CreatePost(asUser(alice), "second")
	require.NoError(t, err)

	parent, err := f.comments.CreateComment(asUser(bob), CreateCommentInput{PostID: first.ID, Content: "top"})
	require.NoError(t, err)

	_, err = f.comments.CreateComment(asUser(bob), CreateCommentInput{PostID: second.ID, ParentID: &parent.ID, Content: "stray"})
	assert.ErrorIs(t, err, ErrCommentParentMismatch)

	reply, err := f.comments.CreateComment(asUser(alice), CreateCommentInput{PostID: first.ID, ParentID: &parent.ID, Content: "reply"})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	thread, err := f.comments.ListComments(context.Background(), first.ID, repositoryPage(0, 0))
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, parent.ID, thread[0].ID)
	assert.False(t, thread[0].Author.IsResolved())

	// only bob's comment on alice's post notifies
	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.NotificationPostCommented, events[0].Kind)
}

func TestCommentEditAndDelete(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	post, err := f.posts.CreatePost(asUser(alice), "post")
	require.NoError(t, err)
	c, err := f.comments.CreateComment(asUser(bob), CreateCommentInput{PostID: post.ID, Content: "typo"})
	require.NoError(t, err)

	_, err = f.comments.UpdateComment(asUser(alice), c.ID, "not mine")
	assert.ErrorIs(t, err, ErrForbidden)

	edited, err := f.comments.UpdateComment(asUser(bob), c.ID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", edited.Content)

	_, err = f.comments.DeleteComment(asUser(bob), c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	deleted, err := f.comments.DeleteComment(asAdmin(alice), c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestNotificationsAreScopedToRecipient(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	ctx := context.Background()

	n, err := f.notifications.Record(ctx, model.FeedEvent{
		Kind:        model.NotificationUserFollowed,
		ActorID:     bob.ID,
		RecipientID: alice.ID,
		SubjectID:   bob.ID,
	})
	require.NoError(t, err)

	mine, err := f.notifications.List(asUser(alice), repositoryPage(0, 0))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].IsRead)

	theirs, err := f.notifications.List(asUser(bob), repositoryPage(0, 0))
	require.NoError(t, err)
	assert.Empty(t, theirs)

	marked, err := f.notifications.MarkRead(asUser(bob), []uint{n.ID})
	require.NoError(t, err)
	assert.Zero(t, marked)

	marked, err = f.notifications.MarkRead(asUser(alice), []uint{n.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)
}

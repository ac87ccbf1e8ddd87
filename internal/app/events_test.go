package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"feedgraph/internal/model"
	"feedgraph/internal/pkg/logger"
)

type failingPublisher struct{}

func (failingPublisher) PublishFeedEvent(context.Context, model.FeedEvent) error {
	return errors.New("broker unavailable")
}

func TestPublishFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.L()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })

	f := newFixture(t)
	f.likes = NewLikeService(f.postRepo, f.likeRepo, nil, failingPublisher{})
	author := f.createUser(t, "alice")
	fan := f.createUser(t, "bob")
	post, err := f.posts.CreatePost(asUser(author), "hello")
	require.NoError(t, err)

	like, err := f.likes.LikePost(asUser(fan), post.ID)
	require.NoError(t, err)
	require.NotNil(t, like)

	entries := logs.FilterMessage("publish feed event failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(model.NotificationPostLiked), entries[0].ContextMap()["kind"])
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgraph/internal/model"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     bool
	closeCalls int
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) Close() error {
	c.closeCalls++
	c.closed = true
	return nil
}

// channels hands out a fresh fakeChannel per open and keeps them all.
type channels struct {
	opened  []*fakeChannel
	openErr error
}

func (c *channels) open() (publishChannel, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	ch := &fakeChannel{}
	c.opened = append(c.opened, ch)
	return ch, nil
}

func likedEvent() model.FeedEvent {
	return model.FeedEvent{
		Kind:        model.NotificationPostLiked,
		ActorID:     2,
		RecipientID: 1,
		SubjectID:   9,
		OccurredAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishFeedEventReusesChannel(t *testing.T) {
	chans := &channels{}
	p := newEventPublisher(chans.open, "feed.events")
	ctx := context.Background()

	require.NoError(t, p.PublishFeedEvent(ctx, likedEvent()))
	require.NoError(t, p.PublishFeedEvent(ctx, likedEvent()))

	require.Len(t, chans.opened, 1)
	ch := chans.opened[0]
	assert.Equal(t, []string{"feed.events"}, ch.declared)
	assert.Equal(t, []string{"feed.events", "feed.events"}, ch.keys)

	msg := ch.published[0]
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "post_liked", msg.Type)

	var decoded model.FeedEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, likedEvent().RecipientID, decoded.RecipientID)
	assert.Equal(t, likedEvent().Kind, decoded.Kind)
}

func TestPublishFailureReopensChannel(t *testing.T) {
	chans := &channels{}
	p := newEventPublisher(chans.open, "feed.events")
	ctx := context.Background()

	require.NoError(t, p.PublishFeedEvent(ctx, likedEvent()))
	chans.opened[0].publishErr = errors.New("channel reset")

	err := p.PublishFeedEvent(ctx, likedEvent())
	require.Error(t, err)
	assert.Equal(t, 1, chans.opened[0].closeCalls)

	require.NoError(t, p.PublishFeedEvent(ctx, likedEvent()))
	require.Len(t, chans.opened, 2)
	assert.Len(t, chans.opened[1].published, 1)
	assert.Equal(t, []string{"feed.events"}, chans.opened[1].declared)
}

func TestPublishReopensChannelClosedByBroker(t *testing.T) {
	chans := &channels{}
	p := newEventPublisher(chans.open, "feed.events")
	ctx := context.Background()

	require.NoError(t, p.PublishFeedEvent(ctx, likedEvent()))
	chans.opened[0].closed = true

	require.NoError(t, p.PublishFeedEvent(ctx, likedEvent()))
	require.Len(t, chans.opened, 2)
	assert.Len(t, chans.opened[0].published, 1)
	assert.Len(t, chans.opened[1].published, 1)
}

func TestPublishSurfacesOpenError(t *testing.T) {
	chans := &channels{openErr: errors.New("connection closed")}
	p := newEventPublisher(chans.open, "feed.events")

	err := p.PublishFeedEvent(context.Background(), likedEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open rabbitmq channel failed")

	chans.openErr = nil
	require.NoError(t, p.PublishFeedEvent(context.Background(), likedEvent()))
}

func TestEventPublisherClose(t *testing.T) {
	chans := &channels{}
	p := newEventPublisher(chans.open, "feed.events")
	require.NoError(t, p.Close())

	require.NoError(t, p.PublishFeedEvent(context.Background(), likedEvent()))
	require.NoError(t, p.Close())
	assert.Equal(t, 1, chans.opened[0].closeCalls)
	require.NoError(t, p.Close())
	assert.Equal(t, 1, chans.opened[0].closeCalls)
}

package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"feedgraph/internal/model"
	"feedgraph/internal/pkg/logger"
)

// EventPublisher hands feed events to the notification pipeline.
type EventPublisher interface {
	PublishFeedEvent(ctx context.Context, event model.FeedEvent) error
}

// notify publishes an event for recipient. Self-notifications are skipped and
// a publish failure is logged, not returned: the mutation already committed.
func notify(ctx context.Context, pub EventPublisher, kind model.NotificationKind, actorID, recipientID, subjectID uint) {
	if pub == nil || actorID == recipientID {
		return
	}
	event := model.FeedEvent{
		Kind:        kind,
		ActorID:     actorID,
		RecipientID: recipientID,
		SubjectID:   subjectID,
		OccurredAt:  time.Now(),
	}
	if err := pub.PublishFeedEvent(ctx, event); err != nil {
		logger.Warn("publish feed event failed",
			zap.String("kind", string(kind)),
			zap.Uint("actor_id", actorID),
			zap.Uint("recipient_id", recipientID),
			zap.Error(err),
		)
	}
}

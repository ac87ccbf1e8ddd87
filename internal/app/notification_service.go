package app

import (
	"context"

	"feedgraph/internal/model"
	"feedgraph/internal/repository"
)

type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns the actor's own notifications, newest first.
func (s *NotificationService) List(ctx context.Context, page repository.Page) ([]model.Notification, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByRecipient(ctx, actor.UserID, page)
}

func (s *NotificationService) MarkRead(ctx context.Context, ids []uint) (int64, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkRead(ctx, actor.UserID, ids)
}

// Record stores a delivered feed event. It is called by the notification
// worker, not by request handlers.
func (s *NotificationService) Record(ctx context.Context, event model.FeedEvent) (*model.Notification, error) {
	n := event.Notification()
	if err := s.repo.Create(ctx, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

package app

import (
	"context"

	"feedgraph/internal/model"
	"feedgraph/internal/repository"
)

type FollowService struct {
	userRepo     *repository.UserRepository
	followerRepo *repository.FollowerRepository
	publisher    EventPublisher
}

func NewFollowService(userRepo *repository.UserRepository, followerRepo *repository.FollowerRepository, publisher EventPublisher) *FollowService {
	return &FollowService{
		userRepo:     userRepo,
		followerRepo: followerRepo,
		publisher:    publisher,
	}
}

// Follow makes the actor follow followingID. Following needs an identity
// but no role permission.
func (s *FollowService) Follow(ctx context.Context, followingID uint) (*model.Follower, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if followingID == actor.UserID {
		return nil, ErrFollowSelf
	}

	target, err := s.userRepo.FindByID(ctx, followingID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	existing, err := s.followerRepo.FindByPair(ctx, actor.UserID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	edge, err := s.followerRepo.Create(ctx, actor.UserID, target.ID)
	if err != nil {
		return nil, err
	}
	notify(ctx, s.publisher, model.NotificationUserFollowed, actor.UserID, target.ID, edge.ID)
	return edge, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followingID uint) (bool, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return false, err
	}
	affected, err := s.followerRepo.DeleteByPair(ctx, actor.UserID, followingID)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uint, page repository.Page) ([]model.Follower, error) {
	return s.followerRepo.ListFollowers(ctx, userID, page)
}

func (s *FollowService) ListFollowing(ctx context.Context, userID uint, page repository.Page) ([]model.Follower, error) {
	return s.followerRepo.ListFollowing(ctx, userID, page)
}

package app

import (
	"context"

	"feedgraph/internal/authz"
	"feedgraph/internal/model"
	"feedgraph/internal/repository"
)

type LikeService struct {
	postRepo  *repository.PostRepository
	likeRepo  *repository.LikeRepository
	feedQuery *repository.FeedQueryRepository
	publisher EventPublisher
}

func NewLikeService(postRepo *repository.PostRepository, likeRepo *repository.LikeRepository, feedQuery *repository.FeedQueryRepository, publisher EventPublisher) *LikeService {
	return &LikeService{
		postRepo:  postRepo,
		likeRepo:  likeRepo,
		feedQuery: feedQuery,
		publisher: publisher,
	}
}

// LikePost is idempotent: liking a post twice returns the first like and
// emits no second event.
func (s *LikeService) LikePost(ctx context.Context, postID uint) (*model.Like, error) {
	actor, err := authorize(ctx, authz.LikeCreate)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	existing, err := s.likeRepo.FindByUserAndPost(ctx, actor.UserID, post.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	like, err := s.likeRepo.Create(ctx, actor.UserID, post.ID)
	if err != nil {
		return nil, err
	}
	notify(ctx, s.publisher, model.NotificationPostLiked, actor.UserID, post.UserID, post.ID)
	return like, nil
}

func (s *LikeService) UnlikePost(ctx context.Context, postID uint) (bool, error) {
	actor, err := authorize(ctx, authz.LikeDelete)
	if err != nil {
		return false, err
	}
	affected, err := s.likeRepo.DeleteByUserAndPost(ctx, actor.UserID, postID)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *LikeService) ListLikes(ctx context.Context, page repository.Page) ([]model.LikeView, error) {
	return s.feedQuery.ListLikesWithUserAndPost(ctx, page)
}

func (s *LikeService) ListLikesByPost(ctx context.Context, postID uint, page repository.Page) ([]model.LikeView, error) {
	if postID == 0 {
		return nil, ErrInvalidInput
	}
	return s.feedQuery.ListLikesByPostWithUserAndPost(ctx, postID, page)
}

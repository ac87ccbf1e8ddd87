package app

import (
	"context"
	"strings"

	"feedgraph/internal/authz"
	"feedgraph/internal/model"
	"feedgraph/internal/repository"
)

type PostService struct {
	userRepo  *repository.UserRepository
	postRepo  *repository.PostRepository
	feedQuery *repository.FeedQueryRepository
}

func NewPostService(userRepo *repository.UserRepository, postRepo *repository.PostRepository, feedQuery *repository.FeedQueryRepository) *PostService {
	return &PostService{
		userRepo:  userRepo,
		postRepo:  postRepo,
		feedQuery: feedQuery,
	}
}

// CreatePost publishes content as the current actor. The actor's account
// must still exist.
func (s *PostService) CreatePost(ctx context.Context, content string) (*model.Post, error) {
	actor, err := authorize(ctx, authz.PostCreate)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentEmpty
	}

	author, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUnauthenticated
	}

	post := &model.Post{UserID: author.ID, Content: content}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id uint, content string) (*model.Post, error) {
	actor, err := authorize(ctx, authz.PostUpdate)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentEmpty
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if err := ownerOrAdmin(actor, post.UserID); err != nil {
		return nil, err
	}

	return s.postRepo.Update(ctx, id, model.UpdatePostParams{Content: &content})
}

// DeletePost requires post:delete, which only admins hold.
func (s *PostService) DeletePost(ctx context.Context, id uint) (bool, error) {
	if _, err := authorize(ctx, authz.PostDelete); err != nil {
		return false, err
	}
	affected, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*model.PostView, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.feedQuery.FindPostWithAuthor(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, page repository.Page) ([]model.PostView, error) {
	return s.feedQuery.ListPostsWithAuthor(ctx, page)
}

func (s *PostService) ListPostsByUser(ctx context.Context, userID uint, page repository.Page) ([]model.PostView, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.feedQuery.ListPostsByUserWithAuthor(ctx, userID, page)
}

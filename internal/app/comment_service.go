package app

import (
	"context"
	"strings"

	"feedgraph/internal/authz"
	"feedgraph/internal/model"
	"feedgraph/internal/repository"
)

type CommentService struct {
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	publisher   EventPublisher
}

type CreateCommentInput struct {
	PostID   uint
	ParentID *uint
	Content  string
}

func NewCommentService(postRepo *repository.PostRepository, commentRepo *repository.CommentRepository, publisher EventPublisher) *CommentService {
	return &CommentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
	}
}

// CreateComment adds a comment to a post. A reply's parent must be a comment
// on the same post.
func (s *CommentService) CreateComment(ctx context.Context, input CreateCommentInput) (*model.Comment, error) {
	actor, err := authorize(ctx, authz.CommentCreate)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrContentEmpty
	}
	if input.PostID == 0 {
		return nil, ErrInvalidInput
	}

	post, err := s.postRepo.FindByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	if input.ParentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrNotFound
		}
		if parent.PostID != post.ID {
			return nil, ErrCommentParentMismatch
		}
	}

	comment := &model.Comment{
		PostID:   post.ID,
		UserID:   actor.UserID,
		ParentID: input.ParentID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	notify(ctx, s.publisher, model.NotificationPostCommented, actor.UserID, post.UserID, post.ID)
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, id uint, content string) (*model.Comment, error) {
	actor, err := authorize(ctx, authz.CommentUpdate)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentEmpty
	}

	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	if err := ownerOrAdmin(actor, comment.UserID); err != nil {
		return nil, err
	}
	return s.commentRepo.Update(ctx, id, model.UpdateCommentParams{Content: &content})
}

func (s *CommentService) DeleteComment(ctx context.Context, id uint) (bool, error) {
	if _, err := authorize(ctx, authz.CommentDelete); err != nil {
		return false, err
	}
	affected, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListComments returns a post's thread oldest-first. Authors are left
// unresolved for the batch loader.
func (s *CommentService) ListComments(ctx context.Context, postID uint, page repository.Page) ([]model.CommentView, error) {
	if postID == 0 {
		return nil, ErrInvalidInput
	}
	comments, err := s.commentRepo.ListByPostID(ctx, postID, page)
	if err != nil {
		return nil, err
	}
	views := make([]model.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, model.NewCommentView(c))
	}
	return views, nil
}

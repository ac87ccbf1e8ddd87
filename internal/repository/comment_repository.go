package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"feedgraph/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query comment by id failed: %w", err)
	}
	return &comment, nil
}

func (r *CommentRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("query comments by ids failed: %w", err)
	}
	return comments, nil
}

// ListByPostID returns a post's comments oldest-first (thread order).
func (r *CommentRepository) ListByPostID(ctx context.Context, postID uint, page Page) ([]model.Comment, error) {
	page = page.normalize(DefaultLargePageLimit)
	var comments []model.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments by post failed: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) ListByUserID(ctx context.Context, userID uint, page Page) ([]model.Comment, error) {
	page = page.normalize(DefaultPageLimit)
	var comments []model.Comment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments by user failed: %w", err)
	}
	return comments, nil
}

// ListByPostIDs returns up to limit oldest comments of every post in postIDs
// with one query, grouped by post in thread order.
func (r *CommentRepository) ListByPostIDs(ctx context.Context, postIDs []uint, limit int) ([]model.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	limit = Page{Limit: limit}.normalize(DefaultLargePageLimit).Limit
	var comments []model.Comment
	if err := topPerParent(r.db.WithContext(ctx), "comments", "id, post_id, user_id, parent_id, content, created_at, updated_at",
		"post_id", postIDs, "created_at ASC, id ASC", limit).
		Scan(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments by posts failed: %w", err)
	}
	return comments, nil
}

// ListByParentIDs returns the direct replies to every comment in parentIDs,
// grouped by parent and oldest first.
func (r *CommentRepository) ListByParentIDs(ctx context.Context, parentIDs []uint) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	if err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("parent_id, created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list replies failed: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	if len(postIDs) == 0 {
		return map[uint]int64{}, nil
	}
	counts, err := countByParent(r.db.WithContext(ctx), &model.Comment{}, "post_id", postIDs)
	if err != nil {
		return nil, fmt.Errorf("count comments by posts failed: %w", err)
	}
	return counts, nil
}

func (r *CommentRepository) Update(ctx context.Context, id uint, params model.UpdateCommentParams) (*model.Comment, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if params.Content != nil {
		updates["content"] = *params.Content
	}
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update comment failed: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *CommentRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("delete comment failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"feedgraph/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id failed: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []model.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("query posts by ids failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) List(ctx context.Context, page Page) ([]model.Post, error) {
	page = page.normalize(DefaultPageLimit)
	var posts []model.Post
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ListByUserID(ctx context.Context, userID uint, page Page) ([]model.Post, error) {
	page = page.normalize(DefaultPageLimit)
	var posts []model.Post
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts by user failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id uint, params model.UpdatePostParams) (*model.Post, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if params.Content != nil {
		updates["content"] = *params.Content
	}
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update post failed: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *PostRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Post{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("delete post failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListByUserIDs returns up to limit newest posts of every user in userIDs
// with one query, grouped by user.
func (r *PostRepository) ListByUserIDs(ctx context.Context, userIDs []uint, limit int) ([]model.Post, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	limit = Page{Limit: limit}.normalize(DefaultPageLimit).Limit
	var posts []model.Post
	if err := topPerParent(r.db.WithContext(ctx), "posts", "id, user_id, content, created_at, updated_at",
		"user_id", userIDs, "created_at DESC, id DESC", limit).
		Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts by users failed: %w", err)
	}
	return posts, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feedgraph/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create records userID liking postID. A second like of the same post,
// including one racing this call, returns the existing row.
func (r *LikeRepository) Create(ctx context.Context, userID, postID uint) (*model.Like, error) {
	like := &model.Like{UserID: userID, PostID: postID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(like)
	if result.Error != nil {
		return nil, fmt.Errorf("create like failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.FindByUserAndPost(ctx, userID, postID)
	}
	return like, nil
}

func (r *LikeRepository) FindByID(ctx context.Context, id uint) (*model.Like, error) {
	var like model.Like
	if err := r.db.WithContext(ctx).First(&like, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query like by id failed: %w", err)
	}
	return &like, nil
}

func (r *LikeRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Like, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var likes []model.Like
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("query likes by ids failed: %w", err)
	}
	return likes, nil
}

func (r *LikeRepository) FindByUserAndPost(ctx context.Context, userID, postID uint) (*model.Like, error) {
	var like model.Like
	if err := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query like by user and post failed: %w", err)
	}
	return &like, nil
}

func (r *LikeRepository) List(ctx context.Context, page Page) ([]model.Like, error) {
	page = page.normalize(DefaultPageLimit)
	var likes []model.Like
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("list likes failed: %w", err)
	}
	return likes, nil
}

func (r *LikeRepository) ListByPostID(ctx context.Context, postID uint, page Page) ([]model.Like, error) {
	page = page.normalize(DefaultLargePageLimit)
	var likes []model.Like
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("list likes by post failed: %w", err)
	}
	return likes, nil
}

// ListByPostIDs returns up to limit newest likes of every post in postIDs
// with one query, grouped by post.
func (r *LikeRepository) ListByPostIDs(ctx context.Context, postIDs []uint, limit int) ([]model.Like, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	limit = Page{Limit: limit}.normalize(DefaultLargePageLimit).Limit
	var likes []model.Like
	if err := topPerParent(r.db.WithContext(ctx), "likes", "id, user_id, post_id, created_at",
		"post_id", postIDs, "created_at DESC, id DESC", limit).
		Scan(&likes).Error; err != nil {
		return nil, fmt.Errorf("list likes by posts failed: %w", err)
	}
	return likes, nil
}

// CountByPostIDs returns the like count of each post; posts without likes
// are absent.
func (r *LikeRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	if len(postIDs) == 0 {
		return map[uint]int64{}, nil
	}
	counts, err := countByParent(r.db.WithContext(ctx), &model.Like{}, "post_id", postIDs)
	if err != nil {
		return nil, fmt.Errorf("count likes by posts failed: %w", err)
	}
	return counts, nil
}

func (r *LikeRepository) ListByUserID(ctx context.Context, userID uint, page Page) ([]model.Like, error) {
	page = page.normalize(DefaultPageLimit)
	var likes []model.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("list likes by user failed: %w", err)
	}
	return likes, nil
}

func (r *LikeRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Like{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("delete like failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *LikeRepository) DeleteByUserAndPost(ctx context.Context, userID, postID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Like{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete like by user and post failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

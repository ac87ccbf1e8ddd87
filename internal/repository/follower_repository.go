package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feedgraph/internal/model"
)

var ErrFollowSelf = errors.New("cannot follow yourself")

type FollowerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) *FollowerRepository {
	return &FollowerRepository{db: db}
}

// Create makes followerID follow followingID. Self-follows are rejected
// before touching storage; an existing edge, including one inserted by a
// concurrent call, is returned unchanged.
func (r *FollowerRepository) Create(ctx context.Context, followerID, followingID uint) (*model.Follower, error) {
	if followerID == followingID {
		return nil, ErrFollowSelf
	}

	edge := &model.Follower{FollowerID: followerID, FollowingID: followingID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(edge)
	if result.Error != nil {
		return nil, fmt.Errorf("create follower failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.FindByPair(ctx, followerID, followingID)
	}
	return edge, nil
}

func (r *FollowerRepository) FindByID(ctx context.Context, id uint) (*model.Follower, error) {
	var edge model.Follower
	if err := r.db.WithContext(ctx).First(&edge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query follower by id failed: %w", err)
	}
	return &edge, nil
}

func (r *FollowerRepository) FindByPair(ctx context.Context, followerID, followingID uint) (*model.Follower, error) {
	var edge model.Follower
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query follower by pair failed: %w", err)
	}
	return &edge, nil
}

// ListFollowers returns the edges pointing at userID, newest first.
func (r *FollowerRepository) ListFollowers(ctx context.Context, userID uint, page Page) ([]model.Follower, error) {
	page = page.normalize(DefaultPageLimit)
	var edges []model.Follower
	if err := r.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("list followers failed: %w", err)
	}
	return edges, nil
}

// ListFollowing returns the edges starting at userID, newest first.
func (r *FollowerRepository) ListFollowing(ctx context.Context, userID uint, page Page) ([]model.Follower, error) {
	page = page.normalize(DefaultPageLimit)
	var edges []model.Follower
	if err := r.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("list following failed: %w", err)
	}
	return edges, nil
}

const followCountsQuery = `SELECT user_id, SUM(followed) AS follower_total, SUM(follows) AS following_total FROM (
	SELECT following_id AS user_id, 1 AS followed, 0 AS follows FROM followers WHERE following_id IN ?
	UNION ALL
	SELECT follower_id AS user_id, 0 AS followed, 1 AS follows FROM followers WHERE follower_id IN ?
) AS edges GROUP BY user_id`

type followCountRow struct {
	UserID         uint  `gorm:"column:user_id"`
	FollowerTotal  int64 `gorm:"column:follower_total"`
	FollowingTotal int64 `gorm:"column:following_total"`
}

// CountsByUserIDs returns both edge counts of every user in userIDs with one
// query. Users with no edges are absent.
func (r *FollowerRepository) CountsByUserIDs(ctx context.Context, userIDs []uint) (map[uint]model.FollowCounts, error) {
	if len(userIDs) == 0 {
		return map[uint]model.FollowCounts{}, nil
	}
	var rows []followCountRow
	if err := r.db.WithContext(ctx).Raw(followCountsQuery, userIDs, userIDs).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count follow edges failed: %w", err)
	}
	out := make(map[uint]model.FollowCounts, len(rows))
	for _, row := range rows {
		out[row.UserID] = model.FollowCounts{Followers: row.FollowerTotal, Following: row.FollowingTotal}
	}
	return out, nil
}

func (r *FollowerRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Follower{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("delete follower failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *FollowerRepository) DeleteByPair(ctx context.Context, followerID, followingID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follower{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete follower by pair failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

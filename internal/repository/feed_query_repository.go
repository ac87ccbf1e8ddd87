package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"feedgraph/internal/model"
)

// FeedQueryRepository serves the feed's list shapes in one round trip by
// joining the related rows server-side. Inner joins only: a row without its
// related record is dropped, never returned with an empty relation.
type FeedQueryRepository struct {
	db *gorm.DB
}

func NewFeedQueryRepository(db *gorm.DB) *FeedQueryRepository {
	return &FeedQueryRepository{db: db}
}

const authorColumns = `u.id AS author_id, u.username AS author_username, u.email AS author_email,
	u.display_name AS author_display_name, u.avatar_url AS author_avatar_url, u.bio AS author_bio,
	u.role AS author_role, u.created_at AS author_created_at, u.updated_at AS author_updated_at`

// JoinedUser holds the users columns selected by the joined queries, aliased
// with an author_ prefix.
type JoinedUser struct {
	AuthorID          uint      `gorm:"column:author_id"`
	AuthorUsername    string    `gorm:"column:author_username"`
	AuthorEmail       string    `gorm:"column:author_email"`
	AuthorDisplayName *string   `gorm:"column:author_display_name"`
	AuthorAvatarURL   *string   `gorm:"column:author_avatar_url"`
	AuthorBio         *string   `gorm:"column:author_bio"`
	AuthorRole        string    `gorm:"column:author_role"`
	AuthorCreatedAt   time.Time `gorm:"column:author_created_at"`
	AuthorUpdatedAt   time.Time `gorm:"column:author_updated_at"`
}

func (a JoinedUser) user() *model.User {
	return &model.User{
		ID:          a.AuthorID,
		Username:    a.AuthorUsername,
		Email:       a.AuthorEmail,
		DisplayName: a.AuthorDisplayName,
		AvatarURL:   a.AuthorAvatarURL,
		Bio:         a.AuthorBio,
		Role:        a.AuthorRole,
		CreatedAt:   a.AuthorCreatedAt,
		UpdatedAt:   a.AuthorUpdatedAt,
	}
}

type postAuthorRow struct {
	PostID        uint      `gorm:"column:post_id"`
	PostUserID    uint      `gorm:"column:post_user_id"`
	PostContent   string    `gorm:"column:post_content"`
	PostCreatedAt time.Time `gorm:"column:post_created_at"`
	PostUpdatedAt time.Time `gorm:"column:post_updated_at"`
	JoinedUser    `gorm:"embedded"`
}

func (r postAuthorRow) view() model.PostView {
	return model.PostView{
		Post: model.Post{
			ID:        r.PostID,
			UserID:    r.PostUserID,
			Content:   r.PostContent,
			CreatedAt: r.PostCreatedAt,
			UpdatedAt: r.PostUpdatedAt,
		},
		Author: model.Resolved(r.JoinedUser.user()),
	}
}

func (r *FeedQueryRepository) postsWithAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts AS p").
		Select(`p.id AS post_id, p.user_id AS post_user_id, p.content AS post_content,
			p.created_at AS post_created_at, p.updated_at AS post_updated_at, ` + authorColumns).
		Joins("INNER JOIN users AS u ON u.id = p.user_id")
}

func (r *FeedQueryRepository) ListPostsWithAuthor(ctx context.Context, page Page) ([]model.PostView, error) {
	page = page.normalize(DefaultPageLimit)
	var rows []postAuthorRow
	if err := r.postsWithAuthor(ctx).
		Order("p.created_at DESC, p.id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts with author failed: %w", err)
	}
	return postViews(rows), nil
}

func (r *FeedQueryRepository) ListPostsByUserWithAuthor(ctx context.Context, userID uint, page Page) ([]model.PostView, error) {
	page = page.normalize(DefaultPageLimit)
	var rows []postAuthorRow
	if err := r.postsWithAuthor(ctx).
		Where("p.user_id = ?", userID).
		Order("p.created_at DESC, p.id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts by user with author failed: %w", err)
	}
	return postViews(rows), nil
}

// FindPostWithAuthor is the single-row variant; nil when the post is missing.
func (r *FeedQueryRepository) FindPostWithAuthor(ctx context.Context, id uint) (*model.PostView, error) {
	var rows []postAuthorRow
	if err := r.postsWithAuthor(ctx).
		Where("p.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("find post with author failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	view := rows[0].view()
	return &view, nil
}

func postViews(rows []postAuthorRow) []model.PostView {
	views := make([]model.PostView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views
}

type likeUserPostRow struct {
	LikeID        uint      `gorm:"column:like_id"`
	LikeUserID    uint      `gorm:"column:like_user_id"`
	LikePostID    uint      `gorm:"column:like_post_id"`
	LikeCreatedAt time.Time `gorm:"column:like_created_at"`
	PostID        uint      `gorm:"column:post_id"`
	PostUserID    uint      `gorm:"column:post_user_id"`
	PostContent   string    `gorm:"column:post_content"`
	PostCreatedAt time.Time `gorm:"column:post_created_at"`
	PostUpdatedAt time.Time `gorm:"column:post_updated_at"`
	JoinedUser    `gorm:"embedded"`
}

func (r likeUserPostRow) view() model.LikeView {
	return model.LikeView{
		Like: model.Like{
			ID:        r.LikeID,
			UserID:    r.LikeUserID,
			PostID:    r.LikePostID,
			CreatedAt: r.LikeCreatedAt,
		},
		User: model.Resolved(r.JoinedUser.user()),
		Post: model.Resolved(&model.Post{
			ID:        r.PostID,
			UserID:    r.PostUserID,
			Content:   r.PostContent,
			CreatedAt: r.PostCreatedAt,
			UpdatedAt: r.PostUpdatedAt,
		}),
	}
}

// likesWithUserAndPost joins the liking user (aliased as author columns) and
// the liked post.
func (r *FeedQueryRepository) likesWithUserAndPost(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("likes AS l").
		Select(`l.id AS like_id, l.user_id AS like_user_id, l.post_id AS like_post_id, l.created_at AS like_created_at,
			p.id AS post_id, p.user_id AS post_user_id, p.content AS post_content,
			p.created_at AS post_created_at, p.updated_at AS post_updated_at, ` + authorColumns).
		Joins("INNER JOIN users AS u ON u.id = l.user_id").
		Joins("INNER JOIN posts AS p ON p.id = l.post_id")
}

func (r *FeedQueryRepository) ListLikesWithUserAndPost(ctx context.Context, page Page) ([]model.LikeView, error) {
	page = page.normalize(DefaultPageLimit)
	var rows []likeUserPostRow
	if err := r.likesWithUserAndPost(ctx).
		Order("l.created_at DESC, l.id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list likes with user and post failed: %w", err)
	}
	return likeViews(rows), nil
}

func (r *FeedQueryRepository) ListLikesByPostWithUserAndPost(ctx context.Context, postID uint, page Page) ([]model.LikeView, error) {
	page = page.normalize(DefaultLargePageLimit)
	var rows []likeUserPostRow
	if err := r.likesWithUserAndPost(ctx).
		Where("l.post_id = ?", postID).
		Order("l.created_at DESC, l.id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list likes by post with user and post failed: %w", err)
	}
	return likeViews(rows), nil
}

func likeViews(rows []likeUserPostRow) []model.LikeView {
	views := make([]model.LikeView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views
}

package dataloader

import (
	"context"
	"errors"
	"fmt"

	"feedgraph/internal/model"
)

type UserFinder interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.User, error)
}

type PostFinder interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.Post, error)
	ListByUserIDs(ctx context.Context, userIDs []uint, limit int) ([]model.Post, error)
}

type LikeFinder interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.Like, error)
	ListByPostIDs(ctx context.Context, postIDs []uint, limit int) ([]model.Like, error)
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

type CommentFinder interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.Comment, error)
	ListByPostIDs(ctx context.Context, postIDs []uint, limit int) ([]model.Comment, error)
	ListByParentIDs(ctx context.Context, parentIDs []uint) ([]model.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

type FollowCounter interface {
	CountsByUserIDs(ctx context.Context, userIDs []uint) (map[uint]model.FollowCounts, error)
}

// Loaders groups the loaders of one request. The first four resolve entities
// by id; the rest are keyed by the owning entity and load one-to-many lists
// or aggregates for every queued owner at once.
type Loaders struct {
	Users    *Loader[uint, *model.User]
	Posts    *Loader[uint, *model.Post]
	Likes    *Loader[uint, *model.Like]
	Comments *Loader[uint, *model.Comment]

	PostsByUser     *Loader[uint, []model.Post]
	LikesByPost     *Loader[uint, []model.Like]
	CommentsByPost  *Loader[uint, []model.Comment]
	RepliesByParent *Loader[uint, []model.Comment]
	LikeCounts      *Loader[uint, int64]
	CommentCounts   *Loader[uint, int64]
	FollowCounts    *Loader[uint, model.FollowCounts]
}

// New builds the loaders of one request. List loaders use each repository's
// default per-owner limit.
func New(users UserFinder, posts PostFinder, likes LikeFinder, comments CommentFinder, follows FollowCounter) *Loaders {
	return &Loaders{
		Users: NewLoader(func(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
			rows, err := users.FindByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch load users failed: %w", err)
			}
			return index(rows, func(u *model.User) uint { return u.ID }), nil
		}),
		Posts: NewLoader(func(ctx context.Context, ids []uint) (map[uint]*model.Post, error) {
			rows, err := posts.FindByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch load posts failed: %w", err)
			}
			return index(rows, func(p *model.Post) uint { return p.ID }), nil
		}),
		Likes: NewLoader(func(ctx context.Context, ids []uint) (map[uint]*model.Like, error) {
			rows, err := likes.FindByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch load likes failed: %w", err)
			}
			return index(rows, func(l *model.Like) uint { return l.ID }), nil
		}),
		Comments: NewLoader(func(ctx context.Context, ids []uint) (map[uint]*model.Comment, error) {
			rows, err := comments.FindByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch load comments failed: %w", err)
			}
			return index(rows, func(c *model.Comment) uint { return c.ID }), nil
		}),

		PostsByUser: NewLoader(func(ctx context.Context, ids []uint) (map[uint][]model.Post, error) {
			rows, err := posts.ListByUserIDs(ctx, ids, 0)
			if err != nil {
				return nil, fmt.Errorf("batch load posts by user failed: %w", err)
			}
			return group(rows, func(p *model.Post) uint { return p.UserID }), nil
		}),
		LikesByPost: NewLoader(func(ctx context.Context, ids []uint) (map[uint][]model.Like, error) {
			rows, err := likes.ListByPostIDs(ctx, ids, 0)
			if err != nil {
				return nil, fmt.Errorf("batch load likes by post failed: %w", err)
			}
			return group(rows, func(l *model.Like) uint { return l.PostID }), nil
		}),
		CommentsByPost: NewLoader(func(ctx context.Context, ids []uint) (map[uint][]model.Comment, error) {
			rows, err := comments.ListByPostIDs(ctx, ids, 0)
			if err != nil {
				return nil, fmt.Errorf("batch load comments by post failed: %w", err)
			}
			return group(rows, func(c *model.Comment) uint { return c.PostID }), nil
		}),
		RepliesByParent: NewLoader(func(ctx context.Context, ids []uint) (map[uint][]model.Comment, error) {
			rows, err := comments.ListByParentIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch load replies failed: %w", err)
			}
			return group(rows, func(c *model.Comment) uint { return *c.ParentID }), nil
		}),
		LikeCounts: NewLoader(func(ctx context.Context, ids []uint) (map[uint]int64, error) {
			counts, err := likes.CountByPostIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch count likes failed: %w", err)
			}
			return counts, nil
		}),
		CommentCounts: NewLoader(func(ctx context.Context, ids []uint) (map[uint]int64, error) {
			counts, err := comments.CountByPostIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch count comments failed: %w", err)
			}
			return counts, nil
		}),
		FollowCounts: NewLoader(func(ctx context.Context, ids []uint) (map[uint]model.FollowCounts, error) {
			counts, err := follows.CountsByUserIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch count follow edges failed: %w", err)
			}
			return counts, nil
		}),
	}
}

// FlushAll drains every loader once. It is called at the end of each
// resolution pass.
func (l *Loaders) FlushAll(ctx context.Context) error {
	return errors.Join(
		l.Users.Flush(ctx),
		l.Posts.Flush(ctx),
		l.Likes.Flush(ctx),
		l.Comments.Flush(ctx),
		l.PostsByUser.Flush(ctx),
		l.LikesByPost.Flush(ctx),
		l.CommentsByPost.Flush(ctx),
		l.RepliesByParent.Flush(ctx),
		l.LikeCounts.Flush(ctx),
		l.CommentCounts.Flush(ctx),
		l.FollowCounts.Flush(ctx),
	)
}

// Pending reports whether any loader still has queued keys.
func (l *Loaders) Pending() bool {
	n := l.Users.Pending() + l.Posts.Pending() + l.Likes.Pending() + l.Comments.Pending() +
		l.PostsByUser.Pending() + l.LikesByPost.Pending() + l.CommentsByPost.Pending() +
		l.RepliesByParent.Pending() + l.LikeCounts.Pending() + l.CommentCounts.Pending() +
		l.FollowCounts.Pending()
	return n > 0
}

func index[T any](rows []T, key func(*T) uint) map[uint]*T {
	out := make(map[uint]*T, len(rows))
	for i := range rows {
		out[key(&rows[i])] = &rows[i]
	}
	return out
}

// group buckets rows by owner, keeping their order.
func group[T any](rows []T, key func(*T) uint) map[uint][]T {
	out := make(map[uint][]T)
	for i := range rows {
		k := key(&rows[i])
		out[k] = append(out[k], rows[i])
	}
	return out
}

type ctxKey struct{}

func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the request's loaders, or nil if none were attached.
func From(ctx context.Context) *Loaders {
	l, _ := ctx.Value(ctxKey{}).(*Loaders)
	return l
}

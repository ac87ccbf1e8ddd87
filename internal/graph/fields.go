package graph

import (
	"context"
	"fmt"

	"feedgraph/internal/app"
	"feedgraph/internal/authz"
	"feedgraph/internal/dataloader"
	"feedgraph/internal/model"
)

// Deferred is a field whose value is read after the current pass has
// flushed the batch loaders.
type Deferred func(ctx context.Context) (any, error)

var defaultFields = map[string][]string{
	"User":         {"id", "username", "displayName", "avatarUrl", "bio", "createdAt", "updatedAt"},
	"Post":         {"id", "userId", "content", "createdAt", "updatedAt"},
	"Like":         {"id", "userId", "postId", "createdAt"},
	"Comment":      {"id", "postId", "userId", "parentId", "content", "createdAt", "updatedAt"},
	"Follower":     {"id", "followerId", "followingId", "createdAt"},
	"Notification": {"id", "kind", "actorId", "recipientId", "subjectId", "isRead", "createdAt"},
	"AuthPayload":  {"token", "user"},
}

// typeName reports the graph type of obj, or "" if obj is a scalar.
func typeName(obj any) string {
	switch obj.(type) {
	case *model.User:
		return "User"
	case *model.PostView:
		return "Post"
	case *model.LikeView:
		return "Like"
	case *model.CommentView:
		return "Comment"
	case *model.Follower:
		return "Follower"
	case *model.Notification:
		return "Notification"
	case *app.AuthResult:
		return "AuthPayload"
	default:
		return ""
	}
}

// field resolves one field of obj. Relations not attached by a join return a
// Deferred backed by the request's loaders.
func (r *Resolver) field(ctx context.Context, obj any, name string) (any, error) {
	switch o := obj.(type) {
	case *model.User:
		return r.userField(ctx, o, name)
	case *model.PostView:
		return r.postField(ctx, o, name)
	case *model.LikeView:
		return r.likeField(ctx, o, name)
	case *model.CommentView:
		return r.commentField(ctx, o, name)
	case *model.Follower:
		return r.followerField(ctx, o, name)
	case *model.Notification:
		return r.notificationField(ctx, o, name)
	case *app.AuthResult:
		return authPayloadField(o, name)
	default:
		return nil, fmt.Errorf("%w: %s on scalar", ErrUnknownField, name)
	}
}

func (r *Resolver) userField(ctx context.Context, u *model.User, name string) (any, error) {
	switch name {
	case "id":
		return u.ID, nil
	case "username":
		return u.Username, nil
	case "email":
		return u.Email, nil
	case "displayName":
		return u.DisplayName, nil
	case "avatarUrl":
		return u.AvatarURL, nil
	case "bio":
		return u.Bio, nil
	case "role":
		return u.Role, nil
	case "createdAt":
		return u.CreatedAt, nil
	case "updatedAt":
		return u.UpdatedAt, nil
	case "posts":
		thunk := loadersFrom(ctx).PostsByUser.Load(u.ID)
		return Deferred(func(ctx context.Context) (any, error) {
			posts, err := thunk(ctx)
			if err != nil {
				return nil, err
			}
			views := make([]model.PostView, 0, len(posts))
			for _, p := range posts {
				view := model.NewPostView(p)
				view.Author = model.Resolved(u)
				views = append(views, view)
			}
			return listOf(views), nil
		}), nil
	case "followersCount", "followingCount":
		thunk := loadersFrom(ctx).FollowCounts.Load(u.ID)
		return Deferred(func(ctx context.Context) (any, error) {
			counts, err := thunk(ctx)
			if name == "followersCount" {
				return counts.Followers, err
			}
			return counts.Following, err
		}), nil
	}
	return nil, unknownField("User", name)
}

func (r *Resolver) postField(ctx context.Context, p *model.PostView, name string) (any, error) {
	switch name {
	case "id":
		return p.ID, nil
	case "userId":
		return p.UserID, nil
	case "content":
		return p.Content, nil
	case "createdAt":
		return p.CreatedAt, nil
	case "updatedAt":
		return p.UpdatedAt, nil
	case "author":
		return loadUser(ctx, p.Author, p.UserID), nil
	case "likes":
		thunk := loadersFrom(ctx).LikesByPost.Load(p.ID)
		return Deferred(func(ctx context.Context) (any, error) {
			likes, err := thunk(ctx)
			if err != nil {
				return nil, err
			}
			views := make([]model.LikeView, 0, len(likes))
			for _, l := range likes {
				view := model.NewLikeView(l)
				view.Post = model.Resolved(&p.Post)
				views = append(views, view)
			}
			return listOf(views), nil
		}), nil
	case "comments":
		return commentList(loadersFrom(ctx).CommentsByPost.Load(p.ID)), nil
	case "likeCount":
		return count(loadersFrom(ctx).LikeCounts.Load(p.ID)), nil
	case "commentCount":
		return count(loadersFrom(ctx).CommentCounts.Load(p.ID)), nil
	}
	return nil, unknownField("Post", name)
}

func (r *Resolver) likeField(ctx context.Context, l *model.LikeView, name string) (any, error) {
	switch name {
	case "id":
		return l.ID, nil
	case "userId":
		return l.UserID, nil
	case "postId":
		return l.PostID, nil
	case "createdAt":
		return l.CreatedAt, nil
	case "user":
		return loadUser(ctx, l.User, l.UserID), nil
	case "post":
		return loadPost(ctx, l.Post, l.PostID), nil
	}
	return nil, unknownField("Like", name)
}

func (r *Resolver) commentField(ctx context.Context, c *model.CommentView, name string) (any, error) {
	switch name {
	case "id":
		return c.ID, nil
	case "postId":
		return c.PostID, nil
	case "userId":
		return c.UserID, nil
	case "parentId":
		return c.ParentID, nil
	case "content":
		return c.Content, nil
	case "createdAt":
		return c.CreatedAt, nil
	case "updatedAt":
		return c.UpdatedAt, nil
	case "author":
		return loadUser(ctx, c.Author, c.UserID), nil
	case "post":
		return loadPost(ctx, model.Unresolved[model.Post](), c.PostID), nil
	case "parent":
		if c.ParentID == nil {
			return nil, nil
		}
		thunk := loadersFrom(ctx).Comments.Load(*c.ParentID)
		return Deferred(func(ctx context.Context) (any, error) {
			parent, err := thunk(ctx)
			if err != nil || parent == nil {
				return nil, err
			}
			view := model.NewCommentView(*parent)
			return &view, nil
		}), nil
	case "replies":
		return commentList(loadersFrom(ctx).RepliesByParent.Load(c.ID)), nil
	}
	return nil, unknownField("Comment", name)
}

func (r *Resolver) followerField(ctx context.Context, f *model.Follower, name string) (any, error) {
	switch name {
	case "id":
		return f.ID, nil
	case "followerId":
		return f.FollowerID, nil
	case "followingId":
		return f.FollowingID, nil
	case "createdAt":
		return f.CreatedAt, nil
	case "follower":
		return loadUser(ctx, model.Unresolved[model.User](), f.FollowerID), nil
	case "following":
		return loadUser(ctx, model.Unresolved[model.User](), f.FollowingID), nil
	}
	return nil, unknownField("Follower", name)
}

func (r *Resolver) notificationField(ctx context.Context, n *model.Notification, name string) (any, error) {
	switch name {
	case "id":
		return n.ID, nil
	case "kind":
		return string(n.Kind), nil
	case "actorId":
		return n.ActorID, nil
	case "recipientId":
		return n.RecipientID, nil
	case "subjectId":
		return n.SubjectID, nil
	case "isRead":
		return n.IsRead, nil
	case "createdAt":
		return n.CreatedAt, nil
	case "actor":
		return loadUser(ctx, model.Unresolved[model.User](), n.ActorID), nil
	}
	return nil, unknownField("Notification", name)
}

func authPayloadField(a *app.AuthResult, name string) (any, error) {
	switch name {
	case "token":
		return a.Token, nil
	case "user":
		return objectOrNil(a.User), nil
	}
	return nil, unknownField("AuthPayload", name)
}

// loadUser short-circuits on a join-attached user and primes the loader with
// it; otherwise it queues id for the pass flush.
func loadUser(ctx context.Context, rel model.Relation[model.User], id uint) any {
	loaders := loadersFrom(ctx)
	if u, ok := rel.Get(); ok {
		if u != nil {
			loaders.Users.Prime(u.ID, u)
		}
		return objectOrNil(u)
	}
	thunk := loaders.Users.Load(id)
	return Deferred(func(ctx context.Context) (any, error) {
		u, err := thunk(ctx)
		return objectOrNil(u), err
	})
}

func loadPost(ctx context.Context, rel model.Relation[model.Post], id uint) any {
	if p, ok := rel.Get(); ok {
		if p == nil {
			return nil
		}
		view := model.NewPostView(*p)
		return &view
	}
	thunk := loadersFrom(ctx).Posts.Load(id)
	return Deferred(func(ctx context.Context) (any, error) {
		p, err := thunk(ctx)
		if err != nil || p == nil {
			return nil, err
		}
		view := model.NewPostView(*p)
		return &view, nil
	})
}

func unknownField(typ, name string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, typ, name)
}

func commentList(thunk dataloader.Thunk[[]model.Comment]) Deferred {
	return func(ctx context.Context) (any, error) {
		comments, err := thunk(ctx)
		if err != nil {
			return nil, err
		}
		views := make([]model.CommentView, 0, len(comments))
		for _, c := range comments {
			views = append(views, model.NewCommentView(c))
		}
		return listOf(views), nil
	}
}

func count(thunk dataloader.Thunk[int64]) Deferred {
	return func(ctx context.Context) (any, error) {
		return thunk(ctx)
	}
}

func loadersFrom(ctx context.Context) *dataloader.Loaders {
	return dataloader.From(ctx)
}

func actorFrom(ctx context.Context) (uint, bool) {
	actor, ok := authz.ActorFrom(ctx)
	return actor.UserID, ok
}

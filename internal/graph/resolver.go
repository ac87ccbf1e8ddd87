package graph

import (
	"context"

	"feedgraph/internal/app"
	"feedgraph/internal/model"
)

// Resolver holds the root operations and the per-type field resolvers.
type Resolver struct {
	Users         *app.UserService
	Posts         *app.PostService
	Comments      *app.CommentService
	Likes         *app.LikeService
	Follows       *app.FollowService
	Notifications *app.NotificationService
}

type operation func(ctx context.Context, vars Variables) (any, error)

func (r *Resolver) operations() map[string]operation {
	return map[string]operation{
		"getAllPosts":      r.getAllPosts,
		"getPostsByUser":   r.getPostsByUser,
		"getPost":          r.getPost,
		"getAllLikes":      r.getAllLikes,
		"getLikes":         r.getLikes,
		"getLike":          r.getLike,
		"getUser":          r.getUser,
		"getAllUsers":      r.getAllUsers,
		"getComments":      r.getComments,
		"getFollowers":     r.getFollowers,
		"getFollowing":     r.getFollowing,
		"getNotifications": r.getNotifications,
		"me":               r.me,

		"createUser":            r.createUser,
		"login":                 r.login,
		"logout":                r.logout,
		"updateProfile":         r.updateProfile,
		"createPost":            r.createPost,
		"updatePost":            r.updatePost,
		"deletePost":            r.deletePost,
		"createComment":         r.createComment,
		"updateComment":         r.updateComment,
		"deleteComment":         r.deleteComment,
		"likePost":              r.likePost,
		"unlikePost":            r.unlikePost,
		"follow":                r.follow,
		"unfollow":              r.unfollow,
		"markNotificationsRead": r.markNotificationsRead,
	}
}

func (r *Resolver) getAllPosts(ctx context.Context, vars Variables) (any, error) {
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	posts, err := r.Posts.ListPosts(ctx, page)
	return listOf(posts), err
}

func (r *Resolver) getPostsByUser(ctx context.Context, vars Variables) (any, error) {
	userID, err := vars.ID("userId")
	if err != nil {
		return nil, err
	}
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	posts, err := r.Posts.ListPostsByUser(ctx, userID, page)
	return listOf(posts), err
}

func (r *Resolver) getPost(ctx context.Context, vars Variables) (any, error) {
	id, err := vars.ID("id")
	if err != nil {
		return nil, err
	}
	post, err := r.Posts.GetPost(ctx, id)
	return objectOrNil(post), err
}

func (r *Resolver) getAllLikes(ctx context.Context, vars Variables) (any, error) {
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	likes, err := r.Likes.ListLikes(ctx, page)
	return listOf(likes), err
}

func (r *Resolver) getLikes(ctx context.Context, vars Variables) (any, error) {
	postID, err := vars.ID("postId")
	if err != nil {
		return nil, err
	}
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	likes, err := r.Likes.ListLikesByPost(ctx, postID, page)
	return listOf(likes), err
}

// getLike goes through the batch loader: a single like has no joined shape.
func (r *Resolver) getLike(ctx context.Context, vars Variables) (any, error) {
	id, err := vars.ID("id")
	if err != nil {
		return nil, err
	}
	like, err := loadersFrom(ctx).Likes.Load(id)(ctx)
	if err != nil || like == nil {
		return nil, err
	}
	view := model.NewLikeView(*like)
	return &view, nil
}

func (r *Resolver) getUser(ctx context.Context, vars Variables) (any, error) {
	id, err := vars.ID("id")
	if err != nil {
		return nil, err
	}
	user, err := r.Users.GetUser(ctx, id)
	return objectOrNil(user), err
}

func (r *Resolver) getAllUsers(ctx context.Context, vars Variables) (any, error) {
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	users, err := r.Users.ListUsers(ctx, page)
	return listOf(users), err
}

func (r *Resolver) getComments(ctx context.Context, vars Variables) (any, error) {
	postID, err := vars.ID("postId")
	if err != nil {
		return nil, err
	}
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	comments, err := r.Comments.ListComments(ctx, postID, page)
	return listOf(comments), err
}

func (r *Resolver) getFollowers(ctx context.Context, vars Variables) (any, error) {
	userID, err := vars.ID("userId")
	if err != nil {
		return nil, err
	}
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	edges, err := r.Follows.ListFollowers(ctx, userID, page)
	return listOf(edges), err
}

func (r *Resolver) getFollowing(ctx context.Context, vars Variables) (any, error) {
	userID, err := vars.ID("userId")
	if err != nil {
		return nil, err
	}
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	edges, err := r.Follows.ListFollowing(ctx, userID, page)
	return listOf(edges), err
}

func (r *Resolver) getNotifications(ctx context.Context, vars Variables) (any, error) {
	page, err := vars.Page()
	if err != nil {
		return nil, err
	}
	list, err := r.Notifications.List(ctx, page)
	return listOf(list), err
}

func (r *Resolver) me(ctx context.Context, _ Variables) (any, error) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return nil, app.ErrUnauthenticated
	}
	user, err := r.Users.GetUser(ctx, actor)
	return objectOrNil(user), err
}

func (r *Resolver) createUser(ctx context.Context, vars Variables) (any, error) {
	var input app.CreateUserInput
	var err error
	if input.Username, err = vars.String("username"); err != nil {
		return nil, err
	}
	if input.Email, err = vars.String("email"); err != nil {
		return nil, err
	}
	if input.Password, err = vars.String("password"); err != nil {
		return nil, err
	}
	if input.DisplayName, err = vars.OptString("displayName"); err != nil {
		return nil, err
	}
	user, err := r.Users.CreateUser(ctx, input)
	return objectOrNil(user), err
}

func (r *Resolver) login(ctx context.Context, vars Variables) (any, error) {
	var input app.LoginInput
	var err error
	if input.Email, err = vars.String("email"); err != nil {
		return nil, err
	}
	if input.Password, err = vars.String("password"); err != nil {
		return nil, err
	}
	result, err := r.Users.Login(ctx, input)
	return objectOrNil(result), err
}

func (r *Resolver) logout(ctx context.Context, _ Variables) (any, error) {
	if err := r.Users.Logout(ctx); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) updateProfile(ctx context.Context, vars Variables) (any, error) {
	var input app.UpdateProfileInput
	var err error
	if input.Username, err = vars.OptString("username"); err != nil {
		return nil, err
	}
	if input.Email, err = vars.OptString("email"); err != nil {
		return nil, err
	}
	if input.DisplayName, err = vars.OptString("displayName"); err != nil {
		return nil, err
	}
	if input.AvatarURL, err = vars.OptString("avatarUrl"); err != nil {
		return nil, err
	}
	if input.Bio, err = vars.OptString("bio"); err != nil {
		return nil, err
	}
	user, err := r.Users.UpdateProfile(ctx, input)
	return objectOrNil(user), err
}

func (r *Resolver) createPost(ctx context.Context, vars Variables) (any, error) {
	content, err := vars.String("content")
	if err != nil {
		return nil, err
	}
	post, err := r.Posts.CreatePost(ctx, content)
	if err != nil {
		return nil, err
	}
	view := model.NewPostView(*post)
	return &view, nil
}

func (r *Resolver) updatePost(ctx context.Context, vars Variables) (any, error) {
	id, err := vars.ID("id")
	if err != nil {
		return nil, err
	}
	content, err := vars.String("content")
	if err != nil {
		return nil, err
	}
	post, err := r.Posts.UpdatePost(ctx, id, content)
	if err != nil || post == nil {
		return nil, err
	}
	view := model.NewPostView(*post)
	return &view, nil
}

func (r *Resolver) deletePost(ctx context.Context, vars Variables) (any, error) {
	id, err := vars.ID("id")
	if err != nil {
		return nil, err
	}
	return r.Posts.DeletePost(ctx, id)
}

func (r *Resolver) createComment(ctx context.Context, vars Variables) (any, error) {
	var input app.CreateCommentInput
	var err error
	if input.PostID, err = vars.ID("postId"); err != nil {
		return nil, err
	}
	if input.ParentID, err = vars.OptID("parentId"); err != nil {
		return nil, err
	}
	if input.Content, err = vars.String("content"); err != nil {
		return nil, err
	}
	comment, err := r.Comments.CreateComment(ctx, input)
	if err != nil {
		return nil, err
	}
	view := model.NewCommentView(*comment)
	return &view, nil
}

func (r *Resolver) updateComment(ctx context.Context, vars Variables) (any, error) {
	id, err := vars.ID("id")
	if err != nil {
		return nil, err
	}
	content, err := vars.String("content")
	if err != nil {
		return nil, err
	}
	comment, err := r.Comments.UpdateComment(ctx, id, content)
	if err != nil || comment == nil {
		return nil, err
	}
	view := model.NewCommentView(*comment)
	return &view, nil
}

func (r *Resolver) deleteComment(ctx context.Context, vars Variables) (any, error) {
	id, err := vars.ID("id")
	if err != nil {
		return nil, err
	}
	return r.Comments.DeleteComment(ctx, id)
}

func (r *Resolver) likePost(ctx context.Context, vars Variables) (any, error) {
	postID, err := vars.ID("postId")
	if err != nil {
		return nil, err
	}
	like, err := r.Likes.LikePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	view := model.NewLikeView(*like)
	return &view, nil
}

func (r *Resolver) unlikePost(ctx context.Context, vars Variables) (any, error) {
	postID, err := vars.ID("postId")
	if err != nil {
		return nil, err
	}
	return r.Likes.UnlikePost(ctx, postID)
}

func (r *Resolver) follow(ctx context.Context, vars Variables) (any, error) {
	followingID, err := vars.ID("followingId")
	if err != nil {
		return nil, err
	}
	edge, err := r.Follows.Follow(ctx, followingID)
	return objectOrNil(edge), err
}

func (r *Resolver) unfollow(ctx context.Context, vars Variables) (any, error) {
	followingID, err := vars.ID("followingId")
	if err != nil {
		return nil, err
	}
	return r.Follows.Unfollow(ctx, followingID)
}

func (r *Resolver) markNotificationsRead(ctx context.Context, vars Variables) (any, error) {
	ids, err := vars.IDs("ids")
	if err != nil {
		return nil, err
	}
	return r.Notifications.MarkRead(ctx, ids)
}

// listOf exposes each element by pointer so field resolvers share one value.
func listOf[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for i := range items {
		out = append(out, &items[i])
	}
	return out
}

func objectOrNil[T any](v *T) any {
	if v == nil {
		return nil
	}
	return v
}

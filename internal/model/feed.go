package model

// PostView is a post together with its author relation.
type PostView struct {
	Post
	Author Relation[User]
}

// LikeView is a like together with the liking user and the liked post.
type LikeView struct {
	Like
	User Relation[User]
	Post Relation[Post]
}

// CommentView is a comment together with its author relation.
type CommentView struct {
	Comment
	Author Relation[User]
}

func NewPostView(p Post) PostView {
	return PostView{Post: p, Author: Unresolved[User]()}
}

func NewLikeView(l Like) LikeView {
	return LikeView{Like: l, User: Unresolved[User](), Post: Unresolved[Post]()}
}

func NewCommentView(c Comment) CommentView {
	return CommentView{Comment: c, Author: Unresolved[User]()}
}

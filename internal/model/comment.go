package model

import "time"

// Comment is a reply to a post. ParentID links nested replies.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index:idx_comments_post_id" json:"post_id"`
	UserID    uint      `gorm:"not null;index:idx_comments_user_id" json:"user_id"`
	ParentID  *uint     `gorm:"index:idx_comments_parent_id" json:"parent_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

type UpdateCommentParams struct {
	Content *string
}

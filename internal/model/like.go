package model

import "time"

// Like is a user's like on a post. (user_id, post_id) is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_likes_user_id;uniqueIndex:ux_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;index:idx_likes_post_id;uniqueIndex:ux_likes_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }

package database

import (
	"fmt"

	"gorm.io/gorm"

	"feedgraph/internal/model"
)

// The *Table types exist only for migration: they declare the foreign keys
// (all ON DELETE CASCADE) that the plain models deliberately do not carry.

type postTable struct {
	model.Post
	Author model.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (postTable) TableName() string { return "posts" }

type commentTable struct {
	model.Comment
	Post   model.Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Author model.User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Parent *commentTable `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

func (commentTable) TableName() string { return "comments" }

type likeTable struct {
	model.Like
	Liker     model.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LikedPost model.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (likeTable) TableName() string { return "likes" }

type followerTable struct {
	model.Follower
	FollowerUser  model.User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowingUser model.User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

func (followerTable) TableName() string { return "followers" }

type notificationTable struct {
	model.Notification
	Actor     model.User `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
	Recipient model.User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
}

func (notificationTable) TableName() string { return "notifications" }

// Migrate creates or updates the five feed tables plus notifications.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&postTable{},
		&commentTable{},
		&likeTable{},
		&followerTable{},
		&notificationTable{},
	); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}

package model

import "time"

// Follower is a follow edge: FollowerID follows FollowingID.
type Follower struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;index:idx_followers_follower_id;uniqueIndex:ux_followers_pair;check:chk_followers_not_self,follower_id <> following_id" json:"follower_id"`
	FollowingID uint      `gorm:"not null;index:idx_followers_following_id;uniqueIndex:ux_followers_pair" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follower) TableName() string { return "followers" }

// FollowCounts is how many users follow a user and how many it follows.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

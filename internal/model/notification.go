package model

import "time"

type NotificationKind string

const (
	NotificationPostLiked     NotificationKind = "post_liked"
	NotificationPostCommented NotificationKind = "post_commented"
	NotificationUserFollowed  NotificationKind = "user_followed"
)

type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Kind        NotificationKind `gorm:"size:32;not null" json:"kind"`
	ActorID     uint             `gorm:"not null;index" json:"actor_id"`
	RecipientID uint             `gorm:"not null;index:idx_notifications_recipient" json:"recipient_id"`
	SubjectID   uint             `gorm:"not null" json:"subject_id"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time        `gorm:"index:idx_notifications_recipient" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// FeedEvent is the message published when a user acts on another user's content.
type FeedEvent struct {
	Kind        NotificationKind `json:"kind"`
	ActorID     uint             `json:"actor_id"`
	RecipientID uint             `json:"recipient_id"`
	SubjectID   uint             `json:"subject_id"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// Notification converts the event into the row persisted for the recipient.
func (e FeedEvent) Notification() Notification {
	return Notification{
		Kind:        e.Kind,
		ActorID:     e.ActorID,
		RecipientID: e.RecipientID,
		SubjectID:   e.SubjectID,
		CreatedAt:   e.OccurredAt,
	}
}

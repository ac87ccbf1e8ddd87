package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"feedgraph/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification failed: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uint, page Page) ([]model.Notification, error) {
	page = page.normalize(DefaultPageLimit)
	var list []model.Notification
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list notifications failed: %w", err)
	}
	return list, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("mark notifications read failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"
)

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Create записывает уведомление получателю
func (ns *NotificationService) Create(ctx context.Context, n models.Notification) error {
	n.Read = false
	n.CreatedAt = time.Now()
	if err := db.GetWriteDB(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	_ = SendWsNotify(n.UserID, n.Type, notifyText(n.Type))
	return nil
}

func notifyText(notifyType string) string {
	switch notifyType {
	case models.NotificationLike:
		return "Someone liked your post"
	case models.NotificationComment:
		return "Someone commented on your post"
	case models.NotificationFollow:
		return "You have a new follower"
	}
	return "New activity"
}

// List возвращает уведомления получателя (новые первыми) с данными актора
func (ns *NotificationService) List(ctx context.Context, userID int64, limit int) ([]models.NotificationView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var items []models.NotificationView
	err := db.GetReadOnlyDB(ctx).
		Table("notifications").
		Select(`notifications.id, notifications.actor_id, profiles.username AS actor_username,
			profiles.avatar_url AS actor_avatar_url, notifications.type, notifications.post_id,
			notifications.read, notifications.created_at`).
		Joins("JOIN profiles ON profiles.id = notifications.actor_id").
		Where("notifications.user_id = ?", userID).
		Order("notifications.created_at DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// MarkAllRead массово помечает все непрочитанные уведомления получателя
// прочитанными. Поштучного подтверждения нет: открытие списка гасит все.
func (ns *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	err := db.GetWriteDB(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// CountUnread возвращает число непрочитанных уведомлений
func (ns *NotificationService) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

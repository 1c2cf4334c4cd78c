package models

import "time"

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification - уведомление "actor сделал X". Создается только при
// появлении лайка/комментария/подписки, никогда при их отмене.
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	ActorID   int64     `json:"actor_id"`
	Type      string    `gorm:"size:20" json:"type"`
	PostID    *int64    `json:"post_id,omitempty"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationView - уведомление с данными актора для выдачи в API
type NotificationView struct {
	ID             int64     `json:"id"`
	ActorID        int64     `json:"actor_id"`
	ActorUsername  string    `json:"actor_username"`
	ActorAvatarURL string    `json:"actor_avatar_url,omitempty"`
	Type           string    `json:"type"`
	PostID         *int64    `json:"post_id,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

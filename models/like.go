package models

import "time"

// Like - отметка "нравится" на посте. Пара (user_id, post_id) уникальна:
// повторный лайк от того же пользователя невозможен на уровне БД.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    int64     `gorm:"uniqueIndex:idx_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

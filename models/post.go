package models

import (
	"time"

	"gorm.io/gorm"
)

// Допустимые значения длительности показа поста (в часах).
// 0 означает бессрочный пост.
const (
	DurationPermanent = 0
	DurationDay       = 24
	DurationTwoDays   = 48
)

// Post - модель поста пользователя. ExpiresAt выставляется один раз при
// создании и больше не меняется; видимость вычисляется в момент запроса.
type Post struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"index" json:"user_id"`
	ImageURL   string     `gorm:"type:text;not null" json:"image_url"`
	Caption    string     `gorm:"type:text" json:"caption,omitempty"`
	Is3D       bool       `gorm:"column:is_3d;default:false" json:"is_3d"`
	IsArchived bool       `gorm:"default:false" json:"is_archived"`
	ExpiresAt  *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

// VisibleAt проверяет предикат видимости поста в памяти (для записей,
// пришедших из кеша). Должен совпадать по смыслу со скоупом ActivePosts.
func (p *Post) VisibleAt(now time.Time) bool {
	if p.IsArchived {
		return false
	}
	return p.ExpiresAt == nil || p.ExpiresAt.After(now)
}

// ActivePosts - единый скоуп видимости для ленты, профилей и поиска:
// не в архиве и (без срока или срок еще не истек). Все выборки "активных"
// постов обязаны проходить через этот скоуп, чтобы предикат не расходился.
func ActivePosts(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.
			Where("is_archived = ?", false).
			Where("expires_at IS NULL OR expires_at > ?", now)
	}
}

// FeedItem - пост в ленте с данными автора и счетчиками вовлеченности
type FeedItem struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Username      string     `json:"username"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	ImageURL      string     `json:"image_url"`
	Caption       string     `json:"caption,omitempty"`
	Is3D          bool       `json:"is_3d"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	LikesCount    int64      `json:"likes_count"`
	CommentsCount int64      `json:"comments_count"`
	Liked         bool       `json:"liked"`
}

// FeedResponse - ответ API для ленты
type FeedResponse struct {
	Posts   []FeedItem `json:"posts"`
	HasMore bool       `json:"has_more"`
	LastID  int64      `json:"last_id,omitempty"`
}

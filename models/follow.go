package models

import "time"

// Follower - подписка одного пользователя на другого.
// Составной первичный ключ гарантирует уникальность пары.
type Follower struct {
	FollowerID  int64     `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowingID int64     `gorm:"primaryKey;autoIncrement:false;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follower) TableName() string {
	return "followers"
}

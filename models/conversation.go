package models

import (
	"fmt"
	"time"
)

// Conversation - диалог ровно двух участников. PairKey - канонический ключ
// пары (меньший ID первым), уникальный индекс по нему не дает двум
// конкурентным resolve-or-create создать два диалога для одной пары.
type Conversation struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PairKey   string    `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// PairKeyFor строит канонический ключ пары участников.
// Симметричен по аргументам: PairKeyFor(a, b) == PairKeyFor(b, a).
func PairKeyFor(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

type ConversationParticipant struct {
	ConversationID int64 `gorm:"primaryKey;autoIncrement:false" json:"conversation_id"`
	UserID         int64 `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

// Message - сообщение в диалоге, неизменяемо после создания
type Message struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64     `gorm:"index" json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Read           bool      `gorm:"default:false" json:"read"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// ConversationView - диалог глазами одного из участников: кто собеседник
// и когда диалог последний раз обновлялся
type ConversationView struct {
	ID             int64     `json:"id"`
	OtherUserID    int64     `json:"other_user_id"`
	OtherUsername  string    `json:"other_username"`
	OtherAvatarURL string    `json:"other_avatar_url,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

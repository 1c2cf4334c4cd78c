package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"gorm.io/gorm"
)

type ConversationService struct{}

func NewConversationService() *ConversationService {
	return &ConversationService{}
}

// Resolve находит диалог пары пользователей или создает новый.
// Коммутативна по аргументам. Гонку двух одновременных resolve решает
// уникальный индекс по каноническому ключу пары: проигравший транзакцию
// перечитывает и получает диалог, созданный победителем, так что пара
// всегда сходится к ровно одному диалогу.
func (cs *ConversationService) Resolve(ctx context.Context, userA, userB int64) (int64, error) {
	if userA == userB {
		return 0, fmt.Errorf("cannot start a conversation with yourself")
	}

	pairKey := models.PairKeyFor(userA, userB)

	var conv models.Conversation
	err := db.GetReadOnlyDB(ctx).Where("pair_key = ?", pairKey).First(&conv).Error
	if err == nil {
		return conv.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to look up conversation: %w", err)
	}

	now := time.Now()
	conv = models.Conversation{PairKey: pairKey, CreatedAt: now, UpdatedAt: now}
	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		participants := []models.ConversationParticipant{
			{ConversationID: conv.ID, UserID: userA},
			{ConversationID: conv.ID, UserID: userB},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		// Скорее всего конкурентный resolve успел первым - перечитываем
		var existing models.Conversation
		if lookupErr := db.GetWriteDB(ctx).Where("pair_key = ?", pairKey).First(&existing).Error; lookupErr == nil {
			return existing.ID, nil
		}
		return 0, fmt.Errorf("failed to create conversation: %w", err)
	}

	return conv.ID, nil
}

// IsParticipant проверяет членство пользователя в диалоге
func (cs *ConversationService) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return count > 0, nil
}

// Participants возвращает всех участников диалога
func (cs *ConversationService) Participants(ctx context.Context, conversationID int64) ([]int64, error) {
	var userIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	return userIDs, nil
}

// List возвращает диалоги пользователя (недавно обновленные первыми)
// с профилем собеседника
func (cs *ConversationService) List(ctx context.Context, userID int64) ([]models.ConversationView, error) {
	var items []models.ConversationView
	err := db.GetReadOnlyDB(ctx).
		Table("conversations").
		Select(`conversations.id, other.user_id AS other_user_id, profiles.username AS other_username,
			profiles.avatar_url AS other_avatar_url, conversations.updated_at`).
		Joins("JOIN conversation_participants AS own ON own.conversation_id = conversations.id AND own.user_id = ?", userID).
		Joins("JOIN conversation_participants AS other ON other.conversation_id = conversations.id AND other.user_id != ?", userID).
		Joins("JOIN profiles ON profiles.id = other.user_id").
		Order("conversations.updated_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return items, nil
}

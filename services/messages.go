package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"
)

type MessageService struct {
	conversations *ConversationService
}

func NewMessageService() *MessageService {
	return &MessageService{conversations: NewConversationService()}
}

// Send создает сообщение в диалоге и раздает его подписчикам.
// Доставка at-least-once: событие несет ID сообщения, по нему клиент
// отбрасывает дубликат собственного оптимистично показанного сообщения.
func (ms *MessageService) Send(ctx context.Context, conversationID, senderID int64, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content is empty")
	}

	ok, err := ms.conversations.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %d is not in conversation %d", ErrForbidden, senderID, conversationID)
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	err = db.GetWriteDB(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", msg.CreatedAt).Error
	if err != nil {
		// Сообщение уже записано, страдает только порядок в списке диалогов
		log.Printf("ERROR: Failed to bump conversation %d: %v", conversationID, err)
	}

	participants, err := ms.conversations.Participants(ctx, conversationID)
	if err == nil {
		event := MessageEvent{
			MessageID:      msg.ID,
			ConversationID: conversationID,
			SenderID:       senderID,
			Content:        content,
			CreatedAt:      msg.CreatedAt,
			Recipients:     participants,
		}
		if err := PublishMessageEvent(ctx, event); err != nil {
			// RabbitMQ недоступен - шлем напрямую через WebSocket
			sendMessageEventWS(event)
		}
	}

	return msg, nil
}

// List возвращает сообщения диалога в порядке создания
func (ms *MessageService) List(ctx context.Context, conversationID, userID int64) ([]models.Message, error) {
	ok, err := ms.conversations.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %d is not in conversation %d", ErrForbidden, userID, conversationID)
	}

	var messages []models.Message
	err = db.GetReadOnlyDB(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MarkRead массово помечает прочитанными все входящие сообщения диалога
func (ms *MessageService) MarkRead(ctx context.Context, conversationID, userID int64) error {
	err := db.GetWriteDB(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND read = ?", conversationID, userID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/mooehassan23-rgb/Loopin/api/middleware"
	"github.com/mooehassan23-rgb/Loopin/services"

	"github.com/gin-gonic/gin"
)

var conversationService = services.NewConversationService()
var messageService = services.NewMessageService()

func conversationIDParam(c *gin.Context) (int64, bool) {
	conversationID, err := strconv.ParseInt(c.Param("conversation_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return 0, false
	}
	return conversationID, true
}

type resolveConversationRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// ResolveConversation находит или создает диалог с другим пользователем.
// Для любой пары пользователей диалог всегда один и тот же.
func ResolveConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req resolveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	conversationID, err := conversationService.Resolve(c.Request.Context(), userID, req.UserID)
	if err != nil {
		serviceError(c, err, "Failed to resolve conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation_id": conversationID})
}

// ListConversations возвращает диалоги пользователя, свежие сверху
func ListConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := conversationService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// ListMessages возвращает сообщения диалога и помечает входящие прочитанными
func ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}

	messages, err := messageService.List(c.Request.Context(), conversationID, userID)
	if err != nil {
		serviceError(c, err, "Failed to list messages")
		return
	}

	if err := messageService.MarkRead(c.Request.Context(), conversationID, userID); err != nil {
		log.Printf("Failed to mark messages read in conversation %d: %v", conversationID, err)
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage отправляет сообщение в диалог
func SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	message, err := messageService.Send(c.Request.Context(), conversationID, userID, req.Content)
	if err != nil {
		serviceError(c, err, "Failed to send message")
		return
	}
	middleware.RecordMessageSent()

	c.JSON(http.StatusCreated, message)
}

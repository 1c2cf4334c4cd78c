package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/mooehassan23-rgb/Loopin/services"

	"github.com/gin-gonic/gin"
)

var notificationService = services.NewNotificationService()

// ListNotifications возвращает уведомления пользователя и разом
// помечает их прочитанными - открытие экрана и есть прочтение
func ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	notifications, err := notificationService.List(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	if err := notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		log.Printf("Failed to mark notifications read for user %d: %v", userID, err)
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// CountUnreadNotifications возвращает число непрочитанных уведомлений (для бейджа)
func CountUnreadNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

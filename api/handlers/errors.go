package handlers

import (
	"errors"
	"net/http"

	"github.com/mooehassan23-rgb/Loopin/services"

	"github.com/gin-gonic/gin"
)

// serviceError маппит сентинельные ошибки доменного слоя в HTTP-статусы
func serviceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrUpload):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
	case errors.Is(err, services.ErrPersist):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// currentUserID достает ID пользователя, установленный auth middleware
func currentUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID.(int64), true
}

// optionalUserID - то же для гостевых эндпоинтов: без токена возвращает 0
func optionalUserID(c *gin.Context) int64 {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	return userID.(int64)
}

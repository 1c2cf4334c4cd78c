package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Search ищет пользователей по имени или посты по подписи.
// Параметр type выбирает область поиска: users (по умолчанию) или posts.
// Гостю доступен: флаг liked у найденных постов тогда всегда false.
func Search(c *gin.Context) {
	userID := optionalUserID(c)

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	switch c.DefaultQuery("type", "users") {
	case "users":
		profiles, err := profileService.Search(c.Request.Context(), query, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": profiles})
	case "posts":
		posts, err := postService.SearchPosts(c.Request.Context(), userID, query, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search type"})
	}
}

package handlers

import (
	"net/http"

	"github.com/mooehassan23-rgb/Loopin/services"

	"github.com/gin-gonic/gin"
)

var commentService = services.NewCommentService()

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment добавляет комментарий к посту
func CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	comment, err := commentService.Create(c.Request.Context(), userID, postID, req.Content)
	if err != nil {
		serviceError(c, err, "Failed to create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments возвращает комментарии поста в хронологическом порядке.
// Токен не требуется.
func ListComments(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	comments, err := commentService.List(c.Request.Context(), postID)
	if err != nil {
		serviceError(c, err, "Failed to list comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

package routes

import (
	"github.com/mooehassan23-rgb/Loopin/api/handlers"
	"github.com/mooehassan23-rgb/Loopin/api/middleware"

	"github.com/gin-gonic/gin"
)

// PublicApi регистрирует эндпоинты, не требующие авторизации
func PublicApi(router *gin.Engine) *gin.RouterGroup {
	publicEndpoints := router.Group("/api/v1/")
	{
		publicEndpoints.POST("auth/register", handlers.Register)
		publicEndpoints.POST("auth/login", handlers.Login)
	}

	// Гостевые чтения: токен опционален, с ним добавляются
	// персональные поля (is_following, liked)
	guestEndpoints := router.Group("/api/v1/")
	guestEndpoints.Use(middleware.OptionalAuthMiddleware())
	{
		guestEndpoints.GET("users/:user_id/profile", handlers.GetProfile)
		guestEndpoints.GET("posts/:post_id/comments", handlers.ListComments)
		guestEndpoints.GET("search", handlers.Search)
	}
	return publicEndpoints
}

// ProtectedApi регистрирует эндпоинты, требующие Bearer-токен
func ProtectedApi(router *gin.Engine) *gin.RouterGroup {
	protectedEndpoints := router.Group("/api/v1/")
	protectedEndpoints.Use(middleware.AuthMiddleware())
	{
		protectedEndpoints.POST("auth/logout", handlers.Logout)

		// Посты и лента
		protectedEndpoints.POST("posts", handlers.CreatePost)
		protectedEndpoints.GET("feed", handlers.GetFeed)
		protectedEndpoints.POST("posts/:post_id/archive", handlers.ArchivePost)
		protectedEndpoints.DELETE("posts/:post_id", handlers.DeletePost)
		protectedEndpoints.POST("posts/:post_id/like", handlers.ToggleLike)

		// Комментарии
		protectedEndpoints.POST("posts/:post_id/comments", handlers.CreateComment)

		// Профили и подписки
		protectedEndpoints.PUT("profile", handlers.UpdateProfile)
		protectedEndpoints.POST("users/:user_id/follow", handlers.ToggleFollow)

		// Уведомления
		protectedEndpoints.GET("notifications", handlers.ListNotifications)
		protectedEndpoints.GET("notifications/unread", handlers.CountUnreadNotifications)

		// Диалоги
		protectedEndpoints.POST("conversations/resolve", handlers.ResolveConversation)
		protectedEndpoints.GET("conversations", handlers.ListConversations)
		protectedEndpoints.GET("conversations/:conversation_id/messages", handlers.ListMessages)
		protectedEndpoints.POST("conversations/:conversation_id/messages", handlers.SendMessage)

		// WebSocket и служебные эндпоинты
		protectedEndpoints.GET("ws", handlers.WSHandler)
		protectedEndpoints.GET("admin/queue/stats", handlers.GetQueueStats)
		protectedEndpoints.POST("admin/cache/invalidate", handlers.InvalidateFeedCache)
	}
	return protectedEndpoints
}

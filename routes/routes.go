package routes

import (
	"ufmarketplace_go/config"
	"ufmarketplace_go/controllers"
	"ufmarketplace_go/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps bundles everything the route table needs.
type Deps struct {
	JWTService   *config.JWTService
	RedisClient  *redis.Client
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Listing      *controllers.ListingController
	Chat         *controllers.ChatController
	Notification *controllers.NotificationController
	Upload       *controllers.UploadController
}

// SetupRoutes registers the global middlewares and the API route table.
func SetupRoutes(r *gin.Engine, deps *Deps) {
	r.Use(middleware.CORS())
	r.Use(middleware.Logger())

	// Uploaded images are served as static files from the API's own origin.
	r.Static("/uploads", "./uploads")

	requireAuth := middleware.AuthMiddleware(deps.JWTService, deps.RedisClient)
	optionalAuth := middleware.OptionalAuthMiddleware(deps.JWTService, deps.RedisClient)

	api := r.Group("/api")
	{
		// ====== Auth (public) ======
		auth := api.Group("/auth")
		{
			auth.POST("/register", deps.Auth.Register)
			auth.POST("/login", deps.Auth.Login)
			auth.POST("/logout", requireAuth, deps.Auth.Logout)
			auth.GET("/me", requireAuth, deps.Auth.GetMe)
		}

		// ====== Categories (public, seeded) ======
		api.GET("/categories", deps.Listing.GetCategories)

		// ====== Listings ======
		listings := api.Group("/listings")
		{
			listings.GET("", optionalAuth, deps.Listing.GetListings)
			listings.GET("/:id", optionalAuth, deps.Listing.GetListing)
			listings.POST("", requireAuth, deps.Listing.CreateListing)
			listings.PUT("/:id", requireAuth, deps.Listing.UpdateListing)
			listings.DELETE("/:id", requireAuth, deps.Listing.DeleteListing)
		}

		// ====== Upload ======
		api.POST("/upload", requireAuth, deps.Upload.UploadImage)

		// ====== Users ======
		users := api.Group("/users")
		{
			users.GET("/:id", deps.User.GetUser)
			users.GET("/:id/listings", deps.User.GetUserListings)
			users.PUT("/me", requireAuth, deps.User.UpdateMe)
			users.PUT("/me/password", requireAuth, deps.User.ChangePassword)
			users.GET("/me/listings", requireAuth, deps.User.GetMyListings)
		}

		// ====== Chats ======
		chats := api.Group("/chats")
		chats.Use(requireAuth)
		{
			chats.GET("", deps.Chat.GetChats)
			chats.POST("", deps.Chat.CreateChat)
			chats.GET("/:id", deps.Chat.GetChat)
			chats.GET("/:id/messages", deps.Chat.GetChatMessages)
			chats.POST("/:id/messages", deps.Chat.SendMessage)
		}

		// ====== Notifications ======
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", deps.Notification.GetNotifications)
			notifications.GET("/unread-count", deps.Notification.GetUnreadCount)
			notifications.PUT("/:id/read", deps.Notification.MarkNotificationRead)
			notifications.PUT("/read-all", deps.Notification.MarkAllNotificationsRead)
			notifications.DELETE("/:id", deps.Notification.DeleteNotification)
		}
	}
}

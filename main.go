package main

import (
	"log"
	"os"

	"ufmarketplace_go/config"
	"ufmarketplace_go/controllers"
	"ufmarketplace_go/middleware"
	"ufmarketplace_go/routes"
	"ufmarketplace_go/services"
	"ufmarketplace_go/utils"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env when present.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	env := os.Getenv("GIN_MODE")
	if env == "" {
		os.Setenv("GIN_MODE", "debug")
	}

	// Redis is optional; everything degrades gracefully without it.
	var redisClient *redis.Client
	if config.GetServerConfig().RedisEnabled {
		client, err := config.InitRedis()
		if err != nil {
			log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
			log.Println("Continuing without Redis...")
		} else {
			redisClient = client
		}
	} else {
		log.Println("ℹ️  Redis is disabled in configuration")
	}
	defer config.CloseRedis(redisClient)

	if err := middleware.InitLogger(env, redisClient); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer middleware.FlushLogger()

	// The store handle is constructed once and shared by reference.
	db, err := config.InitDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDatabase(db)

	uploader := utils.NewFileUploader(nil)
	if err := uploader.EnsureUploadDir(); err != nil {
		log.Fatalf("Failed to create uploads directory: %v", err)
	}

	// Wire services and controllers.
	jwtService := config.NewJWTService()
	authService := services.NewAuthService(db, jwtService, redisClient)
	userService := services.NewUserService(db)
	listingService := services.NewListingService(db, redisClient)
	notificationService := services.NewNotificationService(db)
	chatService := services.NewChatService(db, notificationService)

	deps := &routes.Deps{
		JWTService:   jwtService,
		RedisClient:  redisClient,
		Auth:         controllers.NewAuthController(authService),
		User:         controllers.NewUserController(userService, authService, listingService),
		Listing:      controllers.NewListingController(listingService),
		Chat:         controllers.NewChatController(chatService),
		Notification: controllers.NewNotificationController(notificationService),
		Upload:       controllers.NewUploadController(uploader),
	}

	r := config.SetupRouter(db, redisClient)
	routes.SetupRoutes(r, deps)

	if err := config.StartServer(r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

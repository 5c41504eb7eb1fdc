package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         string
	Mode         string
	RedisEnabled bool
}

// GetServerConfig reads the server configuration from the environment.
func GetServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:         GetEnv("SERVER_PORT", GetEnv("PORT", "8080")),
		Mode:         GetEnv("GIN_MODE", "debug"),
		RedisEnabled: GetEnvBool("REDIS_ENABLED", false),
	}
}

// InitRedis creates the Redis client. Redis is an optional collaborator:
// callers must tolerate a nil client.
func InitRedis() (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         GetEnv("REDIS_ADDR", "localhost:6379"),
		Password:     GetEnv("REDIS_PASSWORD", ""),
		DB:           GetEnvInt("REDIS_DB", 0),
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis client initialized successfully")
	return client, nil
}

// CloseRedis closes the Redis connection.
func CloseRedis(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// SetupRouter creates the Gin engine with recovery and the health endpoint.
// CORS, logging and the API routes are registered by the routes package.
func SetupRouter(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	serverConfig := GetServerConfig()
	gin.SetMode(serverConfig.Mode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"message": "Server is running",
		}

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil && sqlDB.Ping() == nil {
				health["database"] = "connected"
			} else {
				health["database"] = "disconnected"
			}
		} else {
			health["database"] = "not initialized"
		}

		if rdb != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err == nil {
				health["redis"] = "connected"
			} else {
				health["redis"] = "disconnected"
			}
		}

		c.JSON(200, health)
	})

	return r
}

// StartServer runs the HTTP server.
func StartServer(r *gin.Engine) error {
	serverConfig := GetServerConfig()
	addr := fmt.Sprintf(":%s", serverConfig.Port)

	log.Printf("🚀 Server starting on port %s in %s mode", serverConfig.Port, serverConfig.Mode)
	log.Printf("❤️  Health check: http://localhost%s/health", addr)

	if err := r.Run(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

package middleware

import (
	"strings"
	"time"

	"ufmarketplace_go/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig holds the cross-origin settings.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// GetDefaultCORSConfig returns the CORS configuration, with origins taken
// from CORS_ORIGINS when set.
func GetDefaultCORSConfig() *CORSConfig {
	origins := []string{"http://localhost:4200", "http://localhost:3000"}
	if env := config.GetEnv("CORS_ORIGINS", ""); env != "" {
		origins = strings.Split(env, ",")
	}

	return &CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS returns the CORS middleware.
func CORS(cfg ...*CORSConfig) gin.HandlerFunc {
	var c *CORSConfig
	if len(cfg) > 0 {
		c = cfg[0]
	} else {
		c = GetDefaultCORSConfig()
	}

	return cors.New(cors.Config{
		AllowOrigins:     c.AllowOrigins,
		AllowMethods:     c.AllowMethods,
		AllowHeaders:     c.AllowHeaders,
		ExposeHeaders:    c.ExposeHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	})
}

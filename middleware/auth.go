package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ufmarketplace_go/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxIsAdmin   = "isAdmin"
)

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// isBlacklisted reports whether a token was revoked by logout. rdb may be
// nil, in which case revocation is not tracked.
func isBlacklisted(rdb *redis.Client, token string) bool {
	if rdb == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	exists, err := rdb.Exists(ctx, fmt.Sprintf("token:blacklist:%s", token)).Result()
	return err == nil && exists > 0
}

// AuthMiddleware rejects requests without a valid bearer token before they
// reach the handler.
func AuthMiddleware(jwtService *config.JWTService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil || isBlacklisted(rdb, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// OptionalAuthMiddleware extracts the identity when a valid token is present
// and lets the request proceed anonymously otherwise. Used by the public
// listing browse/detail paths.
func OptionalAuthMiddleware(jwtService *config.JWTService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := jwtService.ValidateToken(token); err == nil && !isBlacklisted(rdb, token) {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxUserEmail, claims.Email)
				c.Set(CtxIsAdmin, claims.IsAdmin)
			}
		}
		c.Next()
	}
}

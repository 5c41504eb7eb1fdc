package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ufmarketplace_go/config"
	"ufmarketplace_go/middleware"
	"ufmarketplace_go/models"
	"ufmarketplace_go/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var redisCtx = context.Background()

// AuthConfig holds the authentication hardening knobs.
type AuthConfig struct {
	AllowedEmailDomain string
	MaxLoginAttempts   int
	LoginBlockDuration time.Duration
}

// GetAuthConfig reads the auth configuration from the environment.
func GetAuthConfig() *AuthConfig {
	return &AuthConfig{
		AllowedEmailDomain: config.GetEnv("ALLOWED_EMAIL_DOMAIN", "@ufl.edu"),
		MaxLoginAttempts:   config.GetEnvInt("MAX_LOGIN_ATTEMPTS", 5),
		LoginBlockDuration: config.GetEnvDuration("LOGIN_BLOCK_DURATION", 15*time.Minute),
	}
}

// AuthService owns registration, login, logout and password changes.
type AuthService struct {
	db          *gorm.DB
	jwtService  *config.JWTService
	redisClient *redis.Client
	authConfig  *AuthConfig
}

// NewAuthService creates an auth service instance. redisClient may be nil;
// attempt limiting and token revocation degrade to no-ops.
func NewAuthService(db *gorm.DB, jwtService *config.JWTService, redisClient *redis.Client) *AuthService {
	return &AuthService{
		db:          db,
		jwtService:  jwtService,
		redisClient: redisClient,
		authConfig:  GetAuthConfig(),
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,password"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user, hashes the password and issues a token.
func (as *AuthService) Register(req *RegisterRequest) (*models.User, string, error) {
	email := utils.NormalizeEmail(req.Email)

	// 1. Enforce the institutional email domain.
	if !utils.HasAllowedEmailDomain(email, as.authConfig.AllowedEmailDomain) {
		return nil, "", utils.ErrInvalidInput(fmt.Sprintf("Must use a valid UF email (%s)", as.authConfig.AllowedEmailDomain))
	}

	// 2. Email uniqueness is case-insensitive; emails are stored normalized.
	var existingUser models.User
	if err := as.db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		return nil, "", utils.ErrConflict("An account with this email already exists. Please login or use a different email.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", utils.ErrInternal("Error creating user", err)
	}

	// 3. One-way salted hash; DefaultCost lands near the ~100ms verify target.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", utils.ErrInternal("Error processing password", err)
	}

	user := models.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := as.db.Create(&user).Error; err != nil {
		// A concurrent registration (or a soft-deleted account holding the
		// email) slips past the pre-check and lands on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", utils.ErrConflict("An account with this email already exists. Please login or use a different email.")
		}
		return nil, "", utils.ErrInternal("Error creating user", err)
	}

	// 4. Issue the session token.
	token, err := as.jwtService.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", utils.ErrInternal("Error generating token", err)
	}

	// 5. Registration stats, fire-and-forget.
	go func() {
		if as.redisClient != nil {
			as.redisClient.Incr(redisCtx, "stats:register:total")
			as.redisClient.Incr(redisCtx, fmt.Sprintf("stats:register:%s", time.Now().Format("2006-01-02")))
		}
	}()

	middleware.InfoLogger("user registered", zap.Uint("user_id", user.ID))
	return &user, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password fail with the same message and status.
func (as *AuthService) Login(req *LoginRequest, clientIP string) (*models.User, string, error) {
	email := utils.NormalizeEmail(req.Email)
	const invalidCredentials = "Invalid email or password. Please try again."

	// 1. Attempt limiting per (email, IP).
	limitKey := fmt.Sprintf("login:limit:%s:%s", email, clientIP)
	if as.redisClient != nil {
		attempts, _ := as.redisClient.Get(redisCtx, limitKey).Int64()
		if attempts >= int64(as.authConfig.MaxLoginAttempts) {
			return nil, "", utils.ErrUnauthenticated("Too many login attempts. Please try again later.")
		}
	}

	// 2. Look up the user.
	var user models.User
	if err := as.db.Where("email = ?", email).First(&user).Error; err != nil {
		as.recordLoginFailure(limitKey)
		return nil, "", utils.ErrUnauthenticated(invalidCredentials)
	}

	// 3. Verify the password.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		as.recordLoginFailure(limitKey)
		return nil, "", utils.ErrUnauthenticated(invalidCredentials)
	}

	// 4. Clear the failure counter.
	if as.redisClient != nil {
		as.redisClient.Del(redisCtx, limitKey)
	}

	// 5. Issue the session token.
	token, err := as.jwtService.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", utils.ErrInternal("Error generating token", err)
	}

	return &user, token, nil
}

// recordLoginFailure bumps the per-(email, IP) failure counter.
func (as *AuthService) recordLoginFailure(limitKey string) {
	if as.redisClient == nil {
		return
	}
	count, err := as.redisClient.Incr(redisCtx, limitKey).Result()
	if err == nil && count == 1 {
		as.redisClient.Expire(redisCtx, limitKey, as.authConfig.LoginBlockDuration)
	}
}

// Logout revokes the presented token until its natural expiry.
func (as *AuthService) Logout(tokenString string) error {
	claims, err := as.jwtService.ValidateToken(tokenString)
	if err != nil {
		return utils.ErrUnauthenticated("Invalid or expired token")
	}

	if as.redisClient != nil {
		expiration := time.Until(claims.ExpiresAt.Time)
		if expiration > 0 {
			blacklistKey := fmt.Sprintf("token:blacklist:%s", tokenString)
			as.redisClient.Set(redisCtx, blacklistKey, "1", expiration)
		}
	}
	return nil
}

// GetUser fetches a user by id.
func (as *AuthService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := as.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("User not found")
		}
		return nil, utils.ErrInternal("Error fetching user", err)
	}
	return &user, nil
}

// ChangePassword re-verifies the current password before storing a new hash.
func (as *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := as.GetUser(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return utils.ErrInvalidInput("Current password is incorrect")
	}

	hashedPassword, err2 := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err2 != nil {
		return utils.ErrInternal("Error updating password", err2)
	}

	if err := as.db.Model(user).Update("password", string(hashedPassword)).Error; err != nil {
		return utils.ErrInternal("Error updating password", err)
	}
	return nil
}

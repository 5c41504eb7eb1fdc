package controllers

import (
	"net/http"
	"strings"

	"ufmarketplace_go/middleware"
	"ufmarketplace_go/models"
	"ufmarketplace_go/services"

	"github.com/gin-gonic/gin"
)

// AuthController handles the auth endpoints.
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates an auth controller instance.
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// AuthResponse is the register/login response body.
type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// bindAuthError turns binding failures into field-specific messages.
func bindAuthError(c *gin.Context, err error, passwordMsg string) {
	errorMsg := err.Error()
	switch {
	case strings.Contains(errorMsg, "Email"):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address"})
	case strings.Contains(errorMsg, "Password"):
		c.JSON(http.StatusBadRequest, gin.H{"error": passwordMsg})
	case strings.Contains(errorMsg, "FirstName") || strings.Contains(errorMsg, "LastName"):
		c.JSON(http.StatusBadRequest, gin.H{"error": "First name and last name are required"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
	}
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindAuthError(c, err, "Password must be at least 6 characters and contain upper, lower, digit and symbol")
		return
	}

	user, token, err := ac.authService.Register(&req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	})
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindAuthError(c, err, "Password is required")
		return
	}

	user, token, err := ac.authService.Login(&req, c.ClientIP())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	})
}

// GetMe handles GET /auth/me. Identity fields come from the store, not from
// the token payload.
func (ac *AuthController) GetMe(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	user, err := ac.authService.GetUser(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// Logout handles POST /auth/logout.
func (ac *AuthController) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := ac.authService.Logout(parts[1]); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

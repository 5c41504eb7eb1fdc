package controllers

import (
	"net/http"

	"ufmarketplace_go/middleware"
	"ufmarketplace_go/services"

	"github.com/gin-gonic/gin"
)

// UserController handles profiles, password changes and per-user listings.
type UserController struct {
	userService    *services.UserService
	authService    *services.AuthService
	listingService *services.ListingService
}

// NewUserController creates a user controller instance.
func NewUserController(userService *services.UserService, authService *services.AuthService, listingService *services.ListingService) *UserController {
	return &UserController{
		userService:    userService,
		authService:    authService,
		listingService: listingService,
	}
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,password"`
}

// GetUser handles GET /users/:id (public profile).
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := uc.userService.GetUser(id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// UpdateMe handles PUT /users/me.
func (uc *UserController) UpdateMe(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.userService.UpdateProfile(userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// ChangePassword handles PUT /users/me/password.
func (uc *UserController) ChangePassword(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindAuthError(c, err, "New password must be at least 6 characters and contain upper, lower, digit and symbol")
		return
	}

	if err := uc.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// GetUserListings handles GET /users/:id/listings (public, any status).
func (uc *UserController) GetUserListings(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	listings, err := uc.listingService.UserListings(id, "")
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// GetMyListings handles GET /users/me/listings with an optional status
// filter.
func (uc *UserController) GetMyListings(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	listings, err := uc.listingService.UserListings(userID, c.DefaultQuery("status", ""))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

package services

import (
	"errors"
	"strings"

	"ufmarketplace_go/models"
	"ufmarketplace_go/utils"

	"gorm.io/gorm"
)

// UserService owns public profiles and profile updates.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a user service instance.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UpdateUserRequest is the profile update payload. Non-empty wins: empty
// fields are left untouched.
type UpdateUserRequest struct {
	Name         string `json:"name"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
}

// GetUser fetches a user by id.
func (us *UserService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := us.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("User not found")
		}
		return nil, utils.ErrInternal("Error fetching user", err)
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update to the caller. A combined
// "name" splits into first and last; explicit parts win over the split.
func (us *UserService) UpdateProfile(userID uint, req *UpdateUserRequest) (*models.User, error) {
	user, err := us.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		parts := strings.SplitN(req.Name, " ", 2)
		user.FirstName = parts[0]
		if len(parts) > 1 {
			user.LastName = parts[1]
		}
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfileImage != "" {
		user.ProfileImage = req.ProfileImage
	}

	if err := us.db.Save(user).Error; err != nil {
		return nil, utils.ErrInternal("Error updating user", err)
	}
	return user, nil
}

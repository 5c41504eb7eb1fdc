package services

import (
	"errors"
	"fmt"
	"testing"

	"ufmarketplace_go/config"
	"ufmarketplace_go/models"
	"ufmarketplace_go/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema and
// seeded categories.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateAndSeed(db))
	return db
}

// createTestUser inserts a user directly. The password is always "Abc123!".
func createTestUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Abc123!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		IsAdmin:   isAdmin,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createTestListing inserts an active listing directly.
func createTestListing(t *testing.T, db *gorm.DB, sellerID uint, title string, price float64) *models.Listing {
	t.Helper()

	listing := models.Listing{
		Title:      title,
		Price:      price,
		CategoryID: 1,
		SellerID:   sellerID,
		Condition:  "good",
		Status:     models.StatusActive,
	}
	require.NoError(t, db.Create(&listing).Error)
	return &listing
}

// requireKind asserts an error is an AppError of the given kind.
func requireKind(t *testing.T, err error, kind utils.ErrorKind) {
	t.Helper()

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, kind, appErr.Kind, "unexpected error kind: %v", err)
}

package services

import (
	"errors"
	"fmt"
	"time"

	"ufmarketplace_go/models"
	"ufmarketplace_go/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// sortFields is the allow-list for client-supplied sort columns. Anything
// else falls back to created_at.
var sortFields = map[string]bool{
	"created_at": true,
	"price":      true,
	"title":      true,
	"views":      true,
}

// ListingService owns listing CRUD and the search/filter/pagination queries.
type ListingService struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewListingService creates a listing service instance. redisClient may be
// nil; search keyword tracking degrades to a no-op.
func NewListingService(db *gorm.DB, redisClient *redis.Client) *ListingService {
	return &ListingService{db: db, redisClient: redisClient}
}

// CreateListingRequest is the listing creation payload. Price must be
// strictly positive.
type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	CategoryID  uint     `json:"category_id" binding:"required"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Images      []string `json:"images"`
}

// UpdateListingRequest is the partial update payload. Only non-zero fields
// are applied, so a field cannot be cleared to empty through this path.
type UpdateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	CategoryID  uint     `json:"category_id"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	Images      []string `json:"images"`
}

// ListingFilter is the parsed query for the list endpoint.
type ListingFilter struct {
	Search     string
	CategoryID uint
	MinPrice   *float64
	MaxPrice   *float64
	Condition  string
	Sort       string
	Order      string
	Page       int
	Limit      int
}

// ListingPage is one page of results with its pagination metadata.
type ListingPage struct {
	Listings []models.Listing `json:"listings"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Pages    int64            `json:"pages"`
}

// hydrated attaches category, seller and images to a listing query.
func (ls *ListingService) hydrated() *gorm.DB {
	return ls.db.Preload("Images").Preload("Category").Preload("Seller")
}

// Categories returns the seeded category list.
func (ls *ListingService) Categories() ([]models.Category, error) {
	var categories []models.Category
	if err := ls.db.Find(&categories).Error; err != nil {
		return nil, utils.ErrInternal("Error fetching categories", err)
	}
	return categories, nil
}

// Create persists a listing bound to the caller with status active and its
// ordered image set (index 0 primary). Returns the hydrated listing.
func (ls *ListingService) Create(sellerID uint, req *CreateListingRequest) (*models.Listing, error) {
	// 1. The category reference must exist.
	var category models.Category
	if err := ls.db.First(&category, req.CategoryID).Error; err != nil {
		return nil, utils.ErrInvalidInput("Invalid category")
	}

	listing := models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		SellerID:    sellerID,
		Condition:   req.Condition,
		Location:    req.Location,
		Status:      models.StatusActive,
	}

	// 2. Listing and images go in one transaction.
	err := ls.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}
		return createImages(tx, listing.ID, req.Images)
	})
	if err != nil {
		return nil, utils.ErrInternal("Error creating listing", err)
	}

	// 3. Reload with associations.
	if err := ls.hydrated().First(&listing, listing.ID).Error; err != nil {
		return nil, utils.ErrInternal("Error creating listing", err)
	}
	return &listing, nil
}

// createImages inserts the ordered image set; index 0 is flagged primary.
func createImages(tx *gorm.DB, listingID uint, urls []string) error {
	for i, imageURL := range urls {
		image := models.ListingImage{
			ListingID: listingID,
			ImageURL:  imageURL,
			IsPrimary: i == 0,
		}
		if err := tx.Create(&image).Error; err != nil {
			return err
		}
	}
	return nil
}

// List returns one page of active listings matching the filter. The count
// reflects the same predicate as the page query; a page beyond the range
// yields an empty array with accurate metadata.
func (ls *ListingService) List(filter *ListingFilter) (*ListingPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	// 1. Only active listings are eligible here, regardless of filters.
	query := ls.db.Model(&models.Listing{}).Where("status = ?", models.StatusActive)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
		ls.trackSearchKeyword(filter.Search)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Condition != "" {
		// Map form so the dialector quotes the column; condition is a
		// reserved word in MySQL.
		query = query.Where(map[string]interface{}{"condition": filter.Condition})
	}

	// 2. Count before offset/limit; sort does not affect the count.
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.ErrInternal("Error fetching listings", err)
	}

	// 3. Sort column and direction come from fixed allow-lists.
	sortBy := filter.Sort
	if !sortFields[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := filter.Order
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	offset := (filter.Page - 1) * filter.Limit
	listings := make([]models.Listing, 0)
	err := query.
		Preload("Images").
		Preload("Category").
		Preload("Seller").
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(offset).
		Limit(filter.Limit).
		Find(&listings).Error
	if err != nil {
		return nil, utils.ErrInternal("Error fetching listings", err)
	}

	return &ListingPage{
		Listings: listings,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
		Pages:    (total + int64(filter.Limit) - 1) / int64(filter.Limit),
	}, nil
}

// trackSearchKeyword records the keyword in the hot-search ZSET.
func (ls *ListingService) trackSearchKeyword(keyword string) {
	if ls.redisClient == nil {
		return
	}
	keyword = utils.LimitStringLength(keyword, 100)
	go func() {
		ls.redisClient.ZIncrBy(redisCtx, "search:hot", 1, keyword)
		ls.redisClient.Expire(redisCtx, "search:hot", 24*time.Hour)
	}()
}

// Get fetches a listing by id regardless of status and increments its view
// counter by exactly one. The increment is a single UPDATE against the
// stored value, so concurrent viewers never lose counts.
func (ls *ListingService) Get(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := ls.hydrated().First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("Listing not found")
		}
		return nil, utils.ErrInternal("Error fetching listing", err)
	}

	if err := ls.db.Model(&models.Listing{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return nil, utils.ErrInternal("Error fetching listing", err)
	}
	listing.Views++

	return &listing, nil
}

// Update applies a partial, non-empty-wins update. Only the seller may
// update; a supplied image list replaces the whole existing set.
func (ls *ListingService) Update(callerID, id uint, req *UpdateListingRequest) (*models.Listing, error) {
	var listing models.Listing
	if err := ls.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("Listing not found")
		}
		return nil, utils.ErrInternal("Error updating listing", err)
	}

	if listing.SellerID != callerID {
		return nil, utils.ErrForbidden("Not authorized to update this listing")
	}

	if req.Title != "" {
		listing.Title = req.Title
	}
	if req.Description != "" {
		listing.Description = req.Description
	}
	if req.Price > 0 {
		listing.Price = req.Price
	}
	if req.CategoryID > 0 {
		var category models.Category
		if err := ls.db.First(&category, req.CategoryID).Error; err != nil {
			return nil, utils.ErrInvalidInput("Invalid category")
		}
		listing.CategoryID = req.CategoryID
	}
	if req.Condition != "" {
		listing.Condition = req.Condition
	}
	if req.Location != "" {
		listing.Location = req.Location
	}
	if req.Status != "" {
		status := models.ListingStatus(req.Status)
		if status != models.StatusActive && status != models.StatusSold && status != models.StatusInactive {
			return nil, utils.ErrInvalidInput("Invalid status")
		}
		listing.Status = status
	}

	err := ls.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&listing).Error; err != nil {
			return err
		}
		// A supplied image list supersedes the old set entirely.
		if len(req.Images) > 0 {
			if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingImage{}).Error; err != nil {
				return err
			}
			return createImages(tx, listing.ID, req.Images)
		}
		return nil
	})
	if err != nil {
		return nil, utils.ErrInternal("Error updating listing", err)
	}

	if err := ls.hydrated().First(&listing, listing.ID).Error; err != nil {
		return nil, utils.ErrInternal("Error updating listing", err)
	}
	return &listing, nil
}

// Delete soft-deletes a listing and its images. Allowed for the seller or an
// admin; the admin flag is refreshed from the store, not taken from the token.
func (ls *ListingService) Delete(callerID, id uint) error {
	var listing models.Listing
	if err := ls.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("Listing not found")
		}
		return utils.ErrInternal("Error deleting listing", err)
	}

	if listing.SellerID != callerID {
		var caller models.User
		if err := ls.db.First(&caller, callerID).Error; err != nil || !caller.IsAdmin {
			return utils.ErrForbidden("Not authorized to delete this listing")
		}
	}

	err := ls.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&listing).Error
	})
	if err != nil {
		return utils.ErrInternal("Error deleting listing", err)
	}
	return nil
}

// UserListings returns a user's listings, newest first. An empty status
// means all statuses.
func (ls *ListingService) UserListings(userID uint, status string) ([]models.Listing, error) {
	query := ls.hydrated().Where("seller_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	listings := make([]models.Listing, 0)
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, utils.ErrInternal("Error fetching listings", err)
	}
	return listings, nil
}

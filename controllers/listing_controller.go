package controllers

import (
	"net/http"
	"strconv"

	"ufmarketplace_go/middleware"
	"ufmarketplace_go/services"

	"github.com/gin-gonic/gin"
)

// ListingController handles the listing and category endpoints.
type ListingController struct {
	listingService *services.ListingService
}

// NewListingController creates a listing controller instance.
func NewListingController(listingService *services.ListingService) *ListingController {
	return &ListingController{listingService: listingService}
}

// CreateListing handles POST /listings.
func (lc *ListingController) CreateListing(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := lc.listingService.Create(userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// GetListings handles GET /listings with search, filters, sorting and
// pagination. Anonymous viewers are allowed.
func (lc *ListingController) GetListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := services.ListingFilter{
		Search:    c.Query("search"),
		Condition: c.Query("condition"),
		Sort:      c.DefaultQuery("sort", "created_at"),
		Order:     c.DefaultQuery("order", "desc"),
		Page:      page,
		Limit:     limit,
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 32); err == nil {
		filter.CategoryID = uint(categoryID)
	}
	if minPrice, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = &minPrice
	}
	if maxPrice, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = &maxPrice
	}

	result, err := lc.listingService.List(&filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": result.Listings,
		"total":    result.Total,
		"page":     result.Page,
		"limit":    result.Limit,
		"pages":    result.Pages,
	})
}

// GetListing handles GET /listings/:id. Fetching increments the view counter.
func (lc *ListingController) GetListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "listing")
	if !ok {
		return
	}

	listing, err := lc.listingService.Get(id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// UpdateListing handles PUT /listings/:id (seller only, partial update).
func (lc *ListingController) UpdateListing(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	id, ok := parseIDParam(c, "id", "listing")
	if !ok {
		return
	}

	var req services.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := lc.listingService.Update(userID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// DeleteListing handles DELETE /listings/:id (seller or admin).
func (lc *ListingController) DeleteListing(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	id, ok := parseIDParam(c, "id", "listing")
	if !ok {
		return
	}

	if err := lc.listingService.Delete(userID, id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully"})
}

// GetCategories handles GET /categories.
func (lc *ListingController) GetCategories(c *gin.Context) {
	categories, err := lc.listingService.Categories()
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

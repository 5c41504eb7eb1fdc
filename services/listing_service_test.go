package services

import (
	"fmt"
	"testing"

	"ufmarketplace_go/models"
	"ufmarketplace_go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newListingService(t *testing.T) (*ListingService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewListingService(db, nil), db
}

func TestCreateListingFlagsFirstImagePrimary(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	listing, err := ls.Create(seller.ID, &CreateListingRequest{
		Title:      "Calc textbook",
		Price:      25,
		CategoryID: 1,
		Images:     []string{"/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, listing.Images, 3)

	primaries := 0
	for _, img := range listing.Images {
		if img.IsPrimary {
			primaries++
			assert.Equal(t, "/uploads/a.jpg", img.ImageURL)
		}
	}
	assert.Equal(t, 1, primaries)
	assert.Equal(t, models.StatusActive, listing.Status)
	assert.Equal(t, seller.ID, listing.SellerID)
}

func TestCreateListingWithoutImages(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	listing, err := ls.Create(seller.ID, &CreateListingRequest{
		Title: "Desk lamp", Price: 10, CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, listing.Images)
}

func TestCreateListingRejectsUnknownCategory(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	_, err := ls.Create(seller.ID, &CreateListingRequest{
		Title: "Mystery", Price: 5, CategoryID: 9999,
	})
	requireKind(t, err, utils.KindInvalidInput)
}

func TestListShowsOnlyActiveButGetIgnoresStatus(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	active := createTestListing(t, db, seller.ID, "Bike", 80)
	sold := createTestListing(t, db, seller.ID, "Scooter", 120)
	require.NoError(t, db.Model(sold).Update("status", models.StatusSold).Error)

	page, err := ls.List(&ListingFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, active.ID, page.Listings[0].ID)

	// Direct fetch applies no status filter.
	got, err := ls.Get(sold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, got.Status)
}

func TestListFilters(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	cheap := createTestListing(t, db, seller.ID, "Chemistry textbook", 15)
	mid := createTestListing(t, db, seller.ID, "Physics textbook", 40)
	pricey := createTestListing(t, db, seller.ID, "Road bike", 300)
	require.NoError(t, db.Model(pricey).Update("condition", "like_new").Error)

	// Substring over title OR description.
	page, err := ls.List(&ListingFilter{Search: "textbook", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	// Inclusive price bounds.
	min, max := 15.0, 40.0
	page, err = ls.List(&ListingFilter{MinPrice: &min, MaxPrice: &max, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	min = 16.0
	page, err = ls.List(&ListingFilter{MinPrice: &min, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	for _, l := range page.Listings {
		assert.NotEqual(t, cheap.ID, l.ID)
	}

	// Exact condition match.
	page, err = ls.List(&ListingFilter{Condition: "like_new", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, pricey.ID, page.Listings[0].ID)

	// Category filter.
	page, err = ls.List(&ListingFilter{CategoryID: 1, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	_ = mid
}

func TestPaginationLaw(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	for i := 0; i < 5; i++ {
		createTestListing(t, db, seller.ID, fmt.Sprintf("Item %d", i), float64(10+i))
	}

	const limit = 2
	first, err := ls.List(&ListingFilter{Page: 1, Limit: limit})
	require.NoError(t, err)
	assert.EqualValues(t, 5, first.Total)
	assert.EqualValues(t, 3, first.Pages) // ceil(5/2)

	seen := 0
	for p := 1; p <= int(first.Pages); p++ {
		page, err := ls.List(&ListingFilter{Page: p, Limit: limit})
		require.NoError(t, err)
		seen += len(page.Listings)
		assert.EqualValues(t, 5, page.Total)
	}
	assert.Equal(t, 5, seen)

	// Past the last page: empty array, metadata intact.
	beyond, err := ls.List(&ListingFilter{Page: 4, Limit: limit})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Listings)
	assert.Empty(t, beyond.Listings)
	assert.EqualValues(t, 5, beyond.Total)
	assert.EqualValues(t, 3, beyond.Pages)
}

func TestListSortAllowList(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	createTestListing(t, db, seller.ID, "B item", 20)
	createTestListing(t, db, seller.ID, "A item", 10)
	createTestListing(t, db, seller.ID, "C item", 30)

	page, err := ls.List(&ListingFilter{Sort: "price", Order: "asc", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Listings, 3)
	assert.Equal(t, 10.0, page.Listings[0].Price)
	assert.Equal(t, 30.0, page.Listings[2].Price)

	// Anything off the allow-list falls back instead of reaching the store.
	page, err = ls.List(&ListingFilter{Sort: "price; DROP TABLE listings", Order: "up", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page.Listings, 3)
}

func TestGetIncrementsViewsExactlyOncePerFetch(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)
	listing := createTestListing(t, db, seller.ID, "Couch", 60)

	const n = 7
	for i := 0; i < n; i++ {
		_, err := ls.Get(listing.ID)
		require.NoError(t, err)
	}

	var stored models.Listing
	require.NoError(t, db.First(&stored, listing.ID).Error)
	assert.Equal(t, n, stored.Views)
}

func TestGetMissingListing(t *testing.T) {
	ls, _ := newListingService(t)

	_, err := ls.Get(4242)
	requireKind(t, err, utils.KindNotFound)
}

func TestUpdateRequiresOwnership(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)
	stranger := createTestUser(t, db, "stranger@ufl.edu", false)
	listing := createTestListing(t, db, seller.ID, "Monitor", 90)

	_, err := ls.Update(stranger.ID, listing.ID, &UpdateListingRequest{Title: "Hacked"})
	requireKind(t, err, utils.KindForbidden)
}

func TestUpdateNonEmptyWins(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)
	listing := createTestListing(t, db, seller.ID, "Monitor", 90)

	updated, err := ls.Update(seller.ID, listing.ID, &UpdateListingRequest{
		Price:  75,
		Status: "sold",
	})
	require.NoError(t, err)
	assert.Equal(t, "Monitor", updated.Title) // untouched
	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, models.StatusSold, updated.Status)

	// Zero-valued fields cannot clear anything through this path.
	updated, err = ls.Update(seller.ID, listing.ID, &UpdateListingRequest{Price: 0})
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.Price)
}

func TestUpdateReplacesImageSet(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	listing, err := ls.Create(seller.ID, &CreateListingRequest{
		Title: "Keyboard", Price: 30, CategoryID: 1,
		Images: []string{"/uploads/old1.jpg", "/uploads/old2.jpg"},
	})
	require.NoError(t, err)

	updated, err := ls.Update(seller.ID, listing.ID, &UpdateListingRequest{
		Images: []string{"/uploads/new1.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "/uploads/new1.jpg", updated.Images[0].ImageURL)
	assert.True(t, updated.Images[0].IsPrimary)
}

func TestUpdateRejectsBogusStatus(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)
	listing := createTestListing(t, db, seller.ID, "Chair", 20)

	_, err := ls.Update(seller.ID, listing.ID, &UpdateListingRequest{Status: "vaporized"})
	requireKind(t, err, utils.KindInvalidInput)
}

func TestDeleteAuthorization(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)
	stranger := createTestUser(t, db, "stranger@ufl.edu", false)
	admin := createTestUser(t, db, "admin@ufl.edu", true)

	listing := createTestListing(t, db, seller.ID, "Table", 45)

	err := ls.Delete(stranger.ID, listing.ID)
	requireKind(t, err, utils.KindForbidden)

	// Admin privilege is refreshed from the store, not the token.
	require.NoError(t, ls.Delete(admin.ID, listing.ID))

	_, err = ls.Get(listing.ID)
	requireKind(t, err, utils.KindNotFound)

	// Soft delete keeps the row but excludes it from queries.
	var raw models.Listing
	require.NoError(t, db.Unscoped().First(&raw, listing.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
}

func TestDeleteByOwnerRemovesFromList(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)
	listing := createTestListing(t, db, seller.ID, "Shelf", 35)

	require.NoError(t, ls.Delete(seller.ID, listing.ID))

	page, err := ls.List(&ListingFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
}

func TestUserListingsStatusFilter(t *testing.T) {
	ls, db := newListingService(t)
	seller := createTestUser(t, db, "seller@ufl.edu", false)

	createTestListing(t, db, seller.ID, "One", 10)
	sold := createTestListing(t, db, seller.ID, "Two", 20)
	require.NoError(t, db.Model(sold).Update("status", models.StatusSold).Error)

	all, err := ls.UserListings(seller.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	soldOnly, err := ls.UserListings(seller.ID, "sold")
	require.NoError(t, err)
	require.Len(t, soldOnly, 1)
	assert.Equal(t, sold.ID, soldOnly[0].ID)
}

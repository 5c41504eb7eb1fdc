package models

import (
	"time"

	"gorm.io/gorm"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	StatusActive   ListingStatus = "active"
	StatusSold     ListingStatus = "sold"
	StatusInactive ListingStatus = "inactive"
)

// Listing is an item for sale. The seller reference is fixed at creation.
type Listing struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	CategoryID  uint           `gorm:"index" json:"category_id"`
	Category    Category       `gorm:"foreignKey:CategoryID" json:"category"`
	SellerID    uint           `gorm:"index;not null" json:"seller_id"`
	Seller      User           `gorm:"foreignKey:SellerID" json:"seller"`
	Images      []ListingImage `gorm:"foreignKey:ListingID" json:"images"`
	Status      ListingStatus  `gorm:"default:'active';index" json:"status"`
	Condition   string         `json:"condition"` // new, like_new, good, fair, poor
	Location    string         `json:"location"`
	Views       int            `gorm:"default:0" json:"views"`
}

// TableName sets the table name.
func (Listing) TableName() string {
	return "listings"
}

// ListingImage is one image of a listing. Exactly one image per listing is
// flagged primary when the listing has any images (index 0 on create/replace).
type ListingImage struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	ListingID uint           `gorm:"index;not null" json:"listing_id"`
	ImageURL  string         `gorm:"not null" json:"image_url"`
	IsPrimary bool           `gorm:"default:false" json:"is_primary"`
}

// TableName sets the table name.
func (ListingImage) TableName() string {
	return "listing_images"
}

// Category is a seeded reference entity; never deleted.
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}

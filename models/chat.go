package models

import (
	"time"

	"gorm.io/gorm"
)

// Chat is a persistent thread scoped to exactly one (listing, buyer) pair.
// The composite unique index turns a concurrent duplicate creation into a
// conflict the service treats as "chat already exists, append instead".
type Chat struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	ListingID uint           `gorm:"not null;uniqueIndex:idx_chats_listing_buyer" json:"listing_id"`
	Listing   Listing        `gorm:"foreignKey:ListingID" json:"listing"`
	BuyerID   uint           `gorm:"not null;uniqueIndex:idx_chats_listing_buyer" json:"buyer_id"`
	Buyer     User           `gorm:"foreignKey:BuyerID" json:"buyer"`
	SellerID  uint           `gorm:"index;not null" json:"seller_id"`
	Seller    User           `gorm:"foreignKey:SellerID" json:"seller"`
	Messages  []Message      `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

// TableName sets the table name.
func (Chat) TableName() string {
	return "chats"
}

// IsParticipant reports whether the user is the chat's buyer or seller.
func (c *Chat) IsParticipant(userID uint) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// Counterpart returns the participant other than the caller. Callers must
// already be participants.
func (c *Chat) Counterpart(userID uint) uint {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// ChatResponse is a chat with its derived, non-persisted fields.
type ChatResponse struct {
	ID          uint         `json:"id"`
	ListingID   uint         `json:"listing_id"`
	Listing     Listing      `json:"listing"`
	BuyerID     uint         `json:"buyer_id"`
	Buyer       UserResponse `json:"buyer"`
	SellerID    uint         `json:"seller_id"`
	Seller      UserResponse `json:"seller"`
	LastMessage *Message     `json:"last_message,omitempty"`
	UnreadCount int64        `json:"unread_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ToResponse converts a chat to its response view.
func (c *Chat) ToResponse(lastMessage *Message, unreadCount int64) ChatResponse {
	return ChatResponse{
		ID:          c.ID,
		ListingID:   c.ListingID,
		Listing:     c.Listing,
		BuyerID:     c.BuyerID,
		Buyer:       c.Buyer.ToResponse(),
		SellerID:    c.SellerID,
		Seller:      c.Seller.ToResponse(),
		LastMessage: lastMessage,
		UnreadCount: unreadCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

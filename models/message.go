package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is one chat message. is_read flips to true only when the
// counterpart fetches the chat's message list (read-on-view).
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	ChatID    uint           `gorm:"index;not null" json:"chat_id"`
	Chat      Chat           `gorm:"foreignKey:ChatID" json:"-"`
	SenderID  uint           `gorm:"index;not null" json:"sender_id"`
	Sender    User           `gorm:"foreignKey:SenderID" json:"sender"`
	Content   string         `gorm:"not null" json:"content"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
}

// TableName sets the table name.
func (Message) TableName() string {
	return "messages"
}

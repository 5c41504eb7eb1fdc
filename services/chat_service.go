package services

import (
	"errors"
	"strconv"
	"time"

	"ufmarketplace_go/middleware"
	"ufmarketplace_go/models"
	"ufmarketplace_go/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatService owns chat threads: one per (listing, buyer) pair, message
// appends, read-state transitions and the notification side effects.
type ChatService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewChatService creates a chat service instance.
func NewChatService(db *gorm.DB, notifications *NotificationService) *ChatService {
	return &ChatService{db: db, notifications: notifications}
}

// CreateChatRequest is the create-or-append payload.
type CreateChatRequest struct {
	ListingID uint   `json:"listing_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// SendMessageRequest is the send-message payload.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ChatMessageResult is returned by create-or-append.
type ChatMessageResult struct {
	ChatID  uint           `json:"chat_id"`
	Message models.Message `json:"message"`
	Created bool           `json:"-"`
}

// CreateOrAppend starts a chat on a listing or appends to the existing one.
// The lookup is buyer-scoped: a chat is keyed by (listing_id, buyer_id), so a
// seller can never be the buyer side of their own listing's thread. The
// seller is notified in both branches.
func (cs *ChatService) CreateOrAppend(buyerID uint, req *CreateChatRequest) (*ChatMessageResult, error) {
	// 1. The listing must exist.
	var listing models.Listing
	if err := cs.db.First(&listing, req.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrInvalidInput("Listing not found")
		}
		return nil, utils.ErrInternal("Error creating chat", err)
	}

	// 2. Sellers cannot open a thread on their own listing.
	if listing.SellerID == buyerID {
		return nil, utils.ErrInvalidInput("Cannot message your own listing")
	}

	// 3. Reuse the existing thread when there is one.
	var chat models.Chat
	err := cs.db.Where("listing_id = ? AND buyer_id = ?", req.ListingID, buyerID).First(&chat).Error
	created := false

	if errors.Is(err, gorm.ErrRecordNotFound) {
		chat = models.Chat{
			ListingID: req.ListingID,
			BuyerID:   buyerID,
			SellerID:  listing.SellerID,
		}
		if createErr := cs.db.Create(&chat).Error; createErr != nil {
			// The (listing_id, buyer_id) unique index turns a concurrent
			// first contact into a conflict: the chat already exists.
			if findErr := cs.db.Where("listing_id = ? AND buyer_id = ?", req.ListingID, buyerID).
				First(&chat).Error; findErr != nil {
				return nil, utils.ErrInternal("Error creating chat", createErr)
			}
		} else {
			created = true
		}
	} else if err != nil {
		return nil, utils.ErrInternal("Error creating chat", err)
	}

	// 4. Append the message and notify the seller.
	message, err := cs.appendMessage(&chat, buyerID, req.Message,
		"You have a new message about your listing: "+listing.Title)
	if err != nil {
		return nil, err
	}

	return &ChatMessageResult{ChatID: chat.ID, Message: *message, Created: created}, nil
}

// appendMessage creates a message, bumps the chat's updated_at and notifies
// the counterpart.
func (cs *ChatService) appendMessage(chat *models.Chat, senderID uint, content, notificationText string) (*models.Message, error) {
	message := models.Message{
		ChatID:   chat.ID,
		SenderID: senderID,
		Content:  content,
	}

	err := cs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).Where("id = ?", chat.ID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, utils.ErrInternal("Error sending message", err)
	}

	// The message is already committed; the notification is best-effort.
	recipientID := chat.Counterpart(senderID)
	if err := cs.notifications.Create(recipientID, models.NotificationNewMessage,
		"New Message", notificationText, "/chat/"+strconv.Itoa(int(chat.ID))); err != nil {
		middleware.ErrorLogger("notification write failed",
			zap.Uint("chat_id", chat.ID),
			zap.Uint("recipient_id", recipientID),
			zap.Error(err),
		)
	}

	if err := cs.db.Preload("Sender").First(&message, message.ID).Error; err != nil {
		return nil, utils.ErrInternal("Error sending message", err)
	}
	return &message, nil
}

// ListChats returns all chats where the caller is a participant, newest
// activity first, each with its derived last message and unread count.
func (cs *ChatService) ListChats(userID uint) ([]models.ChatResponse, error) {
	var chats []models.Chat
	err := cs.db.
		Preload("Listing").
		Preload("Listing.Images").
		Preload("Buyer").
		Preload("Seller").
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, utils.ErrInternal("Error fetching chats", err)
	}

	responses := make([]models.ChatResponse, 0, len(chats))
	for _, chat := range chats {
		var lastMessage models.Message
		hasLast := cs.db.Where("chat_id = ?", chat.ID).
			Order("created_at DESC").First(&lastMessage).Error == nil

		var unreadCount int64
		if err := cs.db.Model(&models.Message{}).
			Where("chat_id = ? AND sender_id != ? AND is_read = ?", chat.ID, userID, false).
			Count(&unreadCount).Error; err != nil {
			return nil, utils.ErrInternal("Error fetching chats", err)
		}

		var last *models.Message
		if hasLast {
			last = &lastMessage
		}
		responses = append(responses, chat.ToResponse(last, unreadCount))
	}

	return responses, nil
}

// findChatFor fetches a chat and checks the caller is a participant.
func (cs *ChatService) findChatFor(userID, chatID uint, preload bool) (*models.Chat, error) {
	query := cs.db
	if preload {
		query = query.
			Preload("Listing").
			Preload("Listing.Images").
			Preload("Buyer").
			Preload("Seller")
	}

	var chat models.Chat
	if err := query.First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("Chat not found")
		}
		return nil, utils.ErrInternal("Error fetching chat", err)
	}
	if !chat.IsParticipant(userID) {
		return nil, utils.ErrForbidden("Not authorized to view this chat")
	}
	return &chat, nil
}

// GetChat returns one hydrated chat for a participant.
func (cs *ChatService) GetChat(userID, chatID uint) (*models.Chat, error) {
	return cs.findChatFor(userID, chatID, true)
}

// GetMessages returns a chat's messages oldest first. Fetching is the read
// trigger: every unread message authored by the counterpart is marked read
// in one conditional bulk update, never fetch-then-loop.
func (cs *ChatService) GetMessages(userID, chatID uint) ([]models.Message, error) {
	if _, err := cs.findChatFor(userID, chatID, false); err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0)
	if err := cs.db.
		Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, utils.ErrInternal("Error fetching messages", err)
	}

	now := time.Now()
	if err := cs.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id != ? AND is_read = ?", chatID, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, utils.ErrInternal("Error fetching messages", err)
	}

	return messages, nil
}

// SendMessage appends a message to a chat the caller participates in and
// notifies the counterpart.
func (cs *ChatService) SendMessage(userID, chatID uint, req *SendMessageRequest) (*models.Message, error) {
	chat, err := cs.findChatFor(userID, chatID, false)
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	if err := cs.db.First(&listing, chat.ListingID).Error; err != nil {
		return nil, utils.ErrInternal("Error sending message", err)
	}

	return cs.appendMessage(chat, userID, req.Content,
		"You have a new message about: "+listing.Title)
}

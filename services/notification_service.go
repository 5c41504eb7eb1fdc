package services

import (
	"errors"
	"time"

	"ufmarketplace_go/models"
	"ufmarketplace_go/utils"

	"gorm.io/gorm"
)

// NotificationService owns the append-only per-user notification ledger.
// Unread counts are always served from a live query, so deletes and reads
// stay consistent by construction.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a notification service instance.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// maxNotificationBody caps the stored body; bodies embed user-supplied
// listing titles.
const maxNotificationBody = 255

// Create appends a notification to a user's ledger.
func (ns *NotificationService) Create(userID uint, ntype models.NotificationType, title, message, link string) error {
	notification := models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: utils.LimitStringLength(message, maxNotificationBody),
		Link:    link,
	}
	if err := ns.db.Create(&notification).Error; err != nil {
		return utils.ErrInternal("Error creating notification", err)
	}
	return nil
}

// List returns the caller's notifications, newest first, optionally
// restricted to unread ones.
func (ns *NotificationService) List(userID uint, unreadOnly bool) ([]models.Notification, error) {
	query := ns.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	notifications := make([]models.Notification, 0)
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, utils.ErrInternal("Error fetching notifications", err)
	}
	return notifications, nil
}

// UnreadCount returns the caller's live unread count.
func (ns *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	if err := ns.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, utils.ErrInternal("Error fetching unread count", err)
	}
	return count, nil
}

// findOwned fetches a notification and checks ownership.
func (ns *NotificationService) findOwned(userID, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := ns.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("Notification not found")
		}
		return nil, utils.ErrInternal("Error fetching notification", err)
	}
	if notification.UserID != userID {
		return nil, utils.ErrForbidden("Not authorized")
	}
	return &notification, nil
}

// MarkRead transitions one notification to read. Marking an already-read
// notification again is a no-op success.
func (ns *NotificationService) MarkRead(userID, id uint) error {
	notification, err := ns.findOwned(userID, id)
	if err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}

	now := time.Now()
	if err := ns.db.Model(notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error; err != nil {
		return utils.ErrInternal("Error updating notification", err)
	}
	return nil
}

// MarkAllRead bulk-transitions the caller's unread notifications to read.
// Always succeeds, even with zero matching rows.
func (ns *NotificationService) MarkAllRead(userID uint) error {
	now := time.Now()
	if err := ns.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
		return utils.ErrInternal("Error updating notifications", err)
	}
	return nil
}

// Delete removes a notification owned by the caller.
func (ns *NotificationService) Delete(userID, id uint) error {
	notification, err := ns.findOwned(userID, id)
	if err != nil {
		return err
	}
	if err := ns.db.Delete(notification).Error; err != nil {
		return utils.ErrInternal("Error deleting notification", err)
	}
	return nil
}

package controllers

import (
	"net/http"

	"ufmarketplace_go/middleware"
	"ufmarketplace_go/services"

	"github.com/gin-gonic/gin"
)

// NotificationController handles the notification endpoints.
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a notification controller instance.
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// GetNotifications handles GET /notifications, optionally ?unread=true.
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	unreadOnly := c.DefaultQuery("unread", "false") == "true"

	notifications, err := nc.notificationService.List(userID, unreadOnly)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount handles GET /notifications/unread-count.
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	count, err := nc.notificationService.UnreadCount(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead handles PUT /notifications/:id/read. Idempotent.
func (nc *NotificationController) MarkNotificationRead(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	id, ok := parseIDParam(c, "id", "notification")
	if !ok {
		return
	}

	if err := nc.notificationService.MarkRead(userID, id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

// MarkAllNotificationsRead handles PUT /notifications/read-all.
func (nc *NotificationController) MarkAllNotificationsRead(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	if err := nc.notificationService.MarkAllRead(userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// DeleteNotification handles DELETE /notifications/:id (owner only).
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	id, ok := parseIDParam(c, "id", "notification")
	if !ok {
		return
	}

	if err := nc.notificationService.Delete(userID, id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

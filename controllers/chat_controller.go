package controllers

import (
	"net/http"

	"ufmarketplace_go/middleware"
	"ufmarketplace_go/services"

	"github.com/gin-gonic/gin"
)

// ChatController handles the chat endpoints.
type ChatController struct {
	chatService *services.ChatService
}

// NewChatController creates a chat controller instance.
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// GetChats handles GET /chats: every chat the caller participates in,
// newest activity first.
func (cc *ChatController) GetChats(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	chats, err := cc.chatService.ListChats(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, chats)
}

// CreateChat handles POST /chats (create-or-append). 201 when a new thread
// was created, 200 when the message joined an existing one.
func (cc *ChatController) CreateChat(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var req services.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := cc.chatService.CreateOrAppend(userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"chat_id": result.ChatID,
		"message": result.Message,
	})
}

// GetChat handles GET /chats/:id (participants only).
func (cc *ChatController) GetChat(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	id, ok := parseIDParam(c, "id", "chat")
	if !ok {
		return
	}

	chat, err := cc.chatService.GetChat(userID, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, chat)
}

// GetChatMessages handles GET /chats/:id/messages. Serving the list marks
// the counterpart's unread messages read (read-on-view).
func (cc *ChatController) GetChatMessages(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	id, ok := parseIDParam(c, "id", "chat")
	if !ok {
		return
	}

	messages, err := cc.chatService.GetMessages(userID, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage handles POST /chats/:id/messages.
func (cc *ChatController) SendMessage(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	id, ok := parseIDParam(c, "id", "chat")
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := cc.chatService.SendMessage(userID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

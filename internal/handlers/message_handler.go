package handlers

import (
	"campuspool/internal/services"
	"campuspool/internal/utils"
	"campuspool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService services.MessageService
	logger         *logger.Logger
}

func NewMessageHandler(messageService services.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         log,
	}
}

// SendMessage handles POST /messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	message, err := h.messageService.SendMessage(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Message sent", message)
}

// GetConversation handles GET /messages/conversation?user_id=&ride_id=
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	counterpartID, ok := queryObjectID(c, "user_id")
	if !ok {
		return
	}
	rideID, ok := queryObjectID(c, "ride_id")
	if !ok {
		return
	}

	messages, err := h.messageService.GetConversation(c.Request.Context(), userID, counterpartID, rideID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Conversation retrieved", messages, &utils.Meta{Count: len(messages)})
}

// MarkRead handles POST /messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.messageService.MarkRead(c.Request.Context(), userID, messageID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Message marked as read", nil)
}

// MarkConversationRead handles POST /messages/conversation/read?user_id=&ride_id=
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	counterpartID, ok := queryObjectID(c, "user_id")
	if !ok {
		return
	}
	rideID, ok := queryObjectID(c, "ride_id")
	if !ok {
		return
	}

	if err := h.messageService.MarkConversationRead(c.Request.Context(), userID, counterpartID, rideID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Conversation marked as read", nil)
}

// CountUnread handles GET /messages/unread/count
func (h *MessageHandler) CountUnread(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.messageService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Unread count retrieved", gin.H{"count": count})
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/globuddy/globuddy-server/internal/modules/message/service"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/response"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageRequest struct {
	User2   string `json:"user2" binding:"required"`
	Message string `json:"message"`
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Invalid("recipient is required"))
		return
	}

	message, err := h.messageService.SendMessage(c.Request.Context(), username, req.User2, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) GetConversation(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	otherUser := c.Query("otherUser")
	if otherUser == "" {
		response.Error(c, apperror.Invalid("otherUser is required"))
		return
	}

	limit, offset := pagination(c)

	messages, err := h.messageService.GetConversation(c.Request.Context(), username, otherUser, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) GetConversations(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	messages, err := h.messageService.GetConversations(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	offset = 0
	if o, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}

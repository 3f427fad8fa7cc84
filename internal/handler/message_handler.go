package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/service"
	"github.com/noah-isme/rcc-portal/pkg/response"
)

// MessageHandler exposes the inbox.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Inbox godoc
// @Summary Inbox with unread count
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /messages [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	inbox, err := h.service.Inbox(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inbox)
}

// Conversation godoc
// @Summary Conversation with one user
// @Tags Messages
// @Produce json
// @Param userId path string true "Other participant"
// @Success 200 {object} response.Envelope
// @Router /messages/{userId} [get]
func (h *MessageHandler) Conversation(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	messages, err := h.service.Conversation(c.Request.Context(), actor, c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages)
}

// Send godoc
// @Summary Send a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body models.SendMessageRequest true "Message"
// @Success 201 {object} response.Envelope
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !bindJSON(c, &req, "invalid message payload") {
		return
	}
	msg, err := h.service.Send(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// MarkRead godoc
// @Summary Mark a conversation as read
// @Tags Messages
// @Produce json
// @Param userId path string true "Other participant"
// @Success 200 {object} response.Envelope
// @Router /messages/{userId}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	changed, err := h.service.MarkRead(c.Request.Context(), actor, c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"updated": changed})
}

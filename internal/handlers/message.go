package handlers

import (
	"net/http"
	"strconv"

	"github.com/JException/mentee-hotline/internal/middleware"
	"github.com/JException/mentee-hotline/internal/models"
	"github.com/JException/mentee-hotline/internal/services"
	"github.com/JException/mentee-hotline/internal/ws"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *services.MessageService
	hub            *ws.Hub
}

func NewMessageHandler(messageService *services.MessageService, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{messageService: messageService, hub: hub}
}

// SendMessageRequest carries either chat content or a presence event name.
type SendMessageRequest struct {
	GroupNum int    `json:"group_num" binding:"required" example:"3"`
	Content  string `json:"content" example:"hello"`
	Event    string `json:"event,omitempty" example:"joined"`
}

type PinMessageRequest struct {
	MessageID uint  `json:"message_id" binding:"required"`
	IsPinned  *bool `json:"is_pinned" binding:"required"`
}

// groupScope resolves which group the caller may touch: members are locked
// to their own group, the mentor picks one via the request.
func groupScope(c *gin.Context, requested int) (int, bool) {
	session := middleware.GetSession(c)
	if session.Role == models.RoleMentor {
		return requested, true
	}
	if requested != 0 && requested != session.GroupNum {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "group out of scope"})
		return 0, false
	}
	return session.GroupNum, true
}

// List godoc
// @Summary      List a group's messages
// @Description  Full message history for a group, ascending by creation time
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        group query int true "Group number"
// @Success      200 {array} services.MessageView
// @Router       /api/v1/messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	requested, err := strconv.Atoi(c.DefaultQuery("group", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid group number"})
		return
	}

	group, ok := groupScope(c, requested)
	if !ok {
		return
	}

	msgs, err := h.messageService.ListByGroup(group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Send godoc
// @Summary      Send a message
// @Description  Create a chat message, or a presence event when event is set
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SendMessageRequest true "Message"
// @Success      201 {object} services.MessageView
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	group, ok := groupScope(c, req.GroupNum)
	if !ok {
		return
	}
	session := middleware.GetSession(c)

	var (
		msg *services.MessageView
		err error
	)
	if req.Event != "" {
		msg, err = h.messageService.SendPresence(session.ParticipantID, group, session.Name, req.Event)
	} else {
		msg, err = h.messageService.Send(session.ParticipantID, group, req.Content)
	}
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	eventType := ws.EventMessage
	if msg.Kind == models.MessageKindPresence {
		eventType = ws.EventPresence
	}
	h.hub.Broadcast(group, ws.Event{Type: eventType, Data: msg})

	c.JSON(http.StatusCreated, msg)
}

// Pin godoc
// @Summary      Pin or unpin a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PinMessageRequest true "Pin state"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/messages [patch]
func (h *MessageHandler) Pin(c *gin.Context) {
	var req PinMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.messageService.SetPinned(req.MessageID, *req.IsPinned); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "pin updated"})
}

// Purge godoc
// @Summary      Purge a group's history
// @Description  Bulk-delete every message in a group. Mentor only.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        group query int true "Group number"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/messages [delete]
func (h *MessageHandler) Purge(c *gin.Context) {
	group, err := strconv.Atoi(c.Query("group"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "group number required"})
		return
	}

	deleted, err := h.messageService.PurgeGroup(group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(group, ws.Event{Type: ws.EventPurge, Data: gin.H{"group_num": group}})
	c.JSON(http.StatusOK, MessageResponse{Message: strconv.FormatInt(deleted, 10) + " messages deleted"})
}

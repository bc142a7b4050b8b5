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

type TicketHandler struct {
	ticketService *services.TicketService
	hub           *ws.Hub
}

func NewTicketHandler(ticketService *services.TicketService, hub *ws.Hub) *TicketHandler {
	return &TicketHandler{ticketService: ticketService, hub: hub}
}

type CreateTicketRequest struct {
	Title       string `json:"title" binding:"required" example:"Deployment fails"`
	Description string `json:"description" binding:"required"`
	GroupNum    int    `json:"group_num" example:"3"`
	ImageURL    string `json:"image_url"`
}

// TicketActionRequest drives the PATCH endpoint via an action
// discriminator, matching the polling clients' single mutation call.
type TicketActionRequest struct {
	TicketID uint   `json:"ticket_id" binding:"required"`
	Action   string `json:"action" binding:"required" example:"toggle_status"`
	Reply    *struct {
		Content string `json:"content"`
	} `json:"reply,omitempty"`
	ReplyID string `json:"reply_id,omitempty"`
}

type UpdateTicketRequest struct {
	ID          uint   `json:"id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"image_url"`
}

// List godoc
// @Summary      List tickets
// @Description  Tickets newest first; members see their own group, the mentor sees all or filters by group
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        group query int false "Group number"
// @Success      200 {array} models.Ticket
// @Router       /api/v1/tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	session := middleware.GetSession(c)

	var group *int
	if session.Role == models.RoleMentor {
		if raw := c.Query("group"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid group number"})
				return
			}
			group = &n
		}
	} else {
		g := session.GroupNum
		group = &g
	}

	tickets, err := h.ticketService.List(group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// Create godoc
// @Summary      Create a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTicketRequest true "Ticket"
// @Success      201 {object} models.Ticket
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	group, ok := groupScope(c, req.GroupNum)
	if !ok {
		return
	}
	session := middleware.GetSession(c)

	ticket, err := h.ticketService.Create(services.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		GroupNum:    group,
		CreatedByID: session.ParticipantID,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(group, ws.Event{Type: ws.EventTicket, Data: ticket})
	c.JSON(http.StatusCreated, ticket)
}

// Act godoc
// @Summary      Mutate a ticket
// @Description  toggle_status flips OPEN/RESOLVED; add_reply appends a reply; delete_reply removes one (author or mentor)
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TicketActionRequest true "Action"
// @Success      200 {object} models.Ticket
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/tickets [patch]
func (h *TicketHandler) Act(c *gin.Context) {
	var req TicketActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	session := middleware.GetSession(c)

	var (
		ticket *models.Ticket
		err    error
	)
	switch req.Action {
	case "toggle_status":
		ticket, err = h.ticketService.ToggleStatus(req.TicketID)
	case "add_reply":
		if req.Reply == nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reply payload required"})
			return
		}
		ticket, err = h.ticketService.AddReply(req.TicketID, session.Name, session.Role, req.Reply.Content)
	case "delete_reply":
		ticket, err = h.ticketService.DeleteReply(req.TicketID, req.ReplyID, session)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown action"})
		return
	}
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(ticket.GroupNum, ws.Event{Type: ws.EventTicket, Data: ticket})
	c.JSON(http.StatusOK, ticket)
}

// Update godoc
// @Summary      Edit ticket fields
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateTicketRequest true "Fields"
// @Success      200 {object} models.Ticket
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/tickets [put]
func (h *TicketHandler) Update(c *gin.Context) {
	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ticket, err := h.ticketService.Update(req.ID, req.Title, req.Description, req.ImageURL)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(ticket.GroupNum, ws.Event{Type: ws.EventTicket, Data: ticket})
	c.JSON(http.StatusOK, ticket)
}

// Delete godoc
// @Summary      Delete a ticket
// @Description  Only the ticket's creator or the mentor may delete
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id query int true "Ticket ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/tickets [delete]
func (h *TicketHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ticket id required"})
		return
	}
	session := middleware.GetSession(c)

	if err := h.ticketService.Delete(uint(id), session); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "ticket deleted"})
}

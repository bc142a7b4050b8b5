package handlers

import (
	"net/http"
	"time"

	"github.com/JException/mentee-hotline/internal/middleware"
	"github.com/JException/mentee-hotline/internal/models"
	"github.com/JException/mentee-hotline/internal/services"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	participantService *services.ParticipantService
	seedService        *services.SeedService
}

func NewGroupHandler(participantService *services.ParticipantService, seedService *services.SeedService) *GroupHandler {
	return &GroupHandler{participantService: participantService, seedService: seedService}
}

// GroupView is the mentor's management view; it is the only place access
// keys leave the server.
type GroupView struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	GroupNum     int       `json:"group_num"`
	AccessKey    string    `json:"access_key,omitempty"`
	LastActiveAt time.Time `json:"last_active_at"`
}

type CreateGroupRequest struct {
	Name      string `json:"name" binding:"required" example:"Group 12 Representative"`
	GroupNum  int    `json:"group_num" binding:"required" example:"12"`
	AccessKey string `json:"access_key" example:"483920"`
}

type UpdateGroupRequest struct {
	ParticipantID uint   `json:"participant_id" binding:"required"`
	NewName       string `json:"new_name"`
	NewKey        string `json:"new_key"`
}

// List godoc
// @Summary      List participants
// @Description  All participants sorted by group; access keys included for the mentor only
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} GroupView
// @Router       /api/v1/groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	participants, err := h.participantService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	session := middleware.GetSession(c)
	views := make([]GroupView, len(participants))
	for i, p := range participants {
		views[i] = GroupView{
			ID:           p.ID,
			Name:         p.Name,
			Role:         p.Role,
			GroupNum:     p.GroupNum,
			LastActiveAt: p.LastActiveAt,
		}
		if session.Role == models.RoleMentor {
			views[i].AccessKey = p.AccessKey
		}
	}
	c.JSON(http.StatusOK, views)
}

// Create godoc
// @Summary      Create a group participant
// @Description  Mentor only. Group number and access key must be unique; a key is generated when omitted.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateGroupRequest true "New group"
// @Success      201 {object} GroupView
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.participantService.Create(req.Name, req.GroupNum, req.AccessKey)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, GroupView{
		ID:        p.ID,
		Name:      p.Name,
		Role:      p.Role,
		GroupNum:  p.GroupNum,
		AccessKey: p.AccessKey,
	})
}

// Update godoc
// @Summary      Rename a group or rotate its access key
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateGroupRequest true "Changes"
// @Success      200 {object} GroupView
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/groups [patch]
func (h *GroupHandler) Update(c *gin.Context) {
	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.participantService.Update(req.ParticipantID, req.NewName, req.NewKey)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, GroupView{
		ID:        p.ID,
		Name:      p.Name,
		Role:      p.Role,
		GroupNum:  p.GroupNum,
		AccessKey: p.AccessKey,
	})
}

// Seed godoc
// @Summary      Wipe and reseed the database
// @Description  Destroys all data and recreates the mentor plus the fixed member groups. Mentor only.
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.SeedResult
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/seed [post]
func (h *GroupHandler) Seed(c *gin.Context) {
	result, err := h.seedService.Run()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

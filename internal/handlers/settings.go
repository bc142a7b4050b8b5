package handlers

import (
	"net/http"

	"github.com/JException/mentee-hotline/internal/middleware"
	"github.com/JException/mentee-hotline/internal/models"
	"github.com/JException/mentee-hotline/internal/services"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	participantService *services.ParticipantService
}

func NewSettingsHandler(participantService *services.ParticipantService) *SettingsHandler {
	return &SettingsHandler{participantService: participantService}
}

type UpdateSettingsRequest struct {
	ParticipantID uint   `json:"participant_id,omitempty"`
	NewName       string `json:"new_name"`
	NewKey        string `json:"new_key"`
}

// Update godoc
// @Summary      Update own display name or access key
// @Description  Members edit themselves; the mentor may pass participant_id to edit anyone
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateSettingsRequest true "Changes"
// @Success      200 {object} GroupView
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/settings [patch]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session := middleware.GetSession(c)
	target := session.ParticipantID
	if req.ParticipantID != 0 && req.ParticipantID != session.ParticipantID {
		if session.Role != models.RoleMentor {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot edit another participant"})
			return
		}
		target = req.ParticipantID
	}

	p, err := h.participantService.Update(target, req.NewName, req.NewKey)
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

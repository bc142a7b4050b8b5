package handlers

import (
	"net/http"

	"github.com/JException/mentee-hotline/internal/middleware"
	"github.com/JException/mentee-hotline/internal/services"

	"github.com/gin-gonic/gin"
)

type HeartbeatHandler struct {
	heartbeatService *services.HeartbeatService
}

func NewHeartbeatHandler(heartbeatService *services.HeartbeatService) *HeartbeatHandler {
	return &HeartbeatHandler{heartbeatService: heartbeatService}
}

// Beat godoc
// @Summary      Record a heartbeat
// @Description  Mark the session's participant as active and return per-group online counts
// @Tags         heartbeat
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[int]int
// @Failure      503 {object} ErrorResponse
// @Router       /api/v1/heartbeat [post]
func (h *HeartbeatHandler) Beat(c *gin.Context) {
	session := middleware.GetSession(c)

	// Mentor beats keep the row fresh but never enter the counts; the
	// aggregation filters on member role.
	if err := h.heartbeatService.Beat(session.ParticipantID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.respondCounts(c)
}

// Counts godoc
// @Summary      Read online counts
// @Description  Per-group online counts without recording a heartbeat
// @Tags         heartbeat
// @Produce      json
// @Success      200 {object} map[int]int
// @Failure      503 {object} ErrorResponse
// @Router       /api/v1/heartbeat [get]
func (h *HeartbeatHandler) Counts(c *gin.Context) {
	h.respondCounts(c)
}

func (h *HeartbeatHandler) respondCounts(c *gin.Context) {
	counts, err := h.heartbeatService.OnlineCounts()
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, counts)
}

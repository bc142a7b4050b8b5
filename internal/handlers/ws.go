package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/JException/mentee-hotline/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleGroupSocket godoc
// @Summary      WebSocket stream of group events
// @Description  Pushes message, presence and ticket events for a group as they happen
// @Tags         websocket
// @Param        group path int true "Group number"
// @Router       /ws/group/{group} [get]
func (h *WSHandler) HandleGroupSocket(c *gin.Context) {
	group, err := strconv.Atoi(c.Param("group"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid group number"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(group, conn)
	defer h.hub.RemoveConnection(group, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

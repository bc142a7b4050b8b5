package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is pushed to clients subscribed to a group. Push is a convenience
// layer on top of polling: clients that miss an event still converge on
// the next poll cycle.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	EventMessage  = "message"
	EventPresence = "presence"
	EventTicket   = "ticket"
	EventPurge    = "purge"
)

type Hub struct {
	mu     sync.RWMutex
	groups map[int]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		groups: make(map[int]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(group int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[group] == nil {
		h.groups[group] = make(map[*websocket.Conn]bool)
	}
	h.groups[group][conn] = true
	log.Printf("ws: client connected to group %d (total: %d)", group, len(h.groups[group]))
}

func (h *Hub) RemoveConnection(group int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.groups[group]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.groups, group)
		}
		log.Printf("ws: client disconnected from group %d", group)
	}
}

func (h *Hub) Broadcast(group int, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.groups[group]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}

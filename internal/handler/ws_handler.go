package handler

import (
	"github.com/gin-gonic/gin"
	ws "github.com/stemsi/student-roster/internal/websocket"
)

// WSHandler streams roster changes over WebSocket.
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// StudentStream godoc
// WS /ws/v1/students/stream
// Upgrades to WebSocket and pushes a roster.changed event after every write.
func (h *WSHandler) StudentStream(c *gin.Context) {
	h.hub.Serve(c.Writer, c.Request)
}

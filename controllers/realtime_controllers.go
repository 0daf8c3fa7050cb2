package controllers

import (
	"net/http"

	"github.com/Cole-Dreyer/Restaurant-Reservation/middlewares"
	"github.com/Cole-Dreyer/Restaurant-Reservation/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeController accepts handshakes from allowedOrigin, or from any
// origin when it is empty or "*".
func NewRealtimeController(hub *realtime.Hub, allowedOrigin string) *RealtimeController {
	return &RealtimeController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// Connect -> GET /ws
func (rc *RealtimeController) Connect(c *gin.Context) {
	role := c.GetString(middlewares.ContextRole)
	if role == "" {
		role = "guest"
	}

	ws, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	rc.Hub.Register(ws, role)

	// Clients only listen; reading detects the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	rc.Hub.Unregister(ws)
}

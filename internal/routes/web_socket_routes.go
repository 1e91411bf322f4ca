package routes

import (
	"github.com/gin-gonic/gin"
)

// WebSocketRoutes authenticates with ?token= since browsers cannot set
// headers on upgrade requests.
func WebSocketRoutes(r *gin.Engine, h Handlers) {
	r.GET("/ws", h.WebSocket.HandleWebSocket)
}

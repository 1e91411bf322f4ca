package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"trotropay/internal/middleware"
	"trotropay/internal/notify"
)

type WebSocketController struct {
	hub      *notify.Hub
	jwt      *middleware.JWT
	upgrader websocket.Upgrader
}

// NewWebSocketController accepts upgrades from allowedOrigins, or from any
// origin when the list is empty.
func NewWebSocketController(hub *notify.Hub, jwt *middleware.JWT, allowedOrigins []string) *WebSocketController {
	allow := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allow[o] = true
	}
	return &WebSocketController{
		hub: hub,
		jwt: jwt,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allow) == 0 || origin == "" || allow[origin]
			},
		},
	}
}

// HandleWebSocket authenticates ?token= and streams the caller's payment
// notifications until the socket closes.
func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}
	claims, err := wc.jwt.ValidateToken(tokenString)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket connection attempt with invalid token.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  claims.UserID,
		"role":     claims.Role,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Notification WebSocket connection established.")

	wc.hub.Serve(claims.UserID, conn)
}

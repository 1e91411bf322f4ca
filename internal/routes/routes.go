package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"trotropay/internal/controllers"
	"trotropay/internal/middleware"
)

// Handlers is everything the router dispatches to.
type Handlers struct {
	JWT         *middleware.JWT
	Auth        *controllers.AuthController
	Payments    *controllers.PaymentController
	Routes      *controllers.RouteController
	Vehicles    *controllers.VehicleController
	Wallet      *controllers.WalletController
	Dashboards  *controllers.DashboardController
	Commissions *controllers.CommissionController
	WebSocket   *controllers.WebSocketController

	// RequestLog receives one line per request; nil disables request logging.
	RequestLog io.Writer
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if h.RequestLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(h.RequestLog),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/health"}),
		))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := h.JWT.RequireAuth()
	AuthRoutes(r, h, auth)
	PaymentRoutes(r, h, auth)
	FareRoutes(r, h, auth)
	VehicleRoutes(r, h, auth)
	WalletRoutes(r, h, auth)
	DashboardRoutes(r, h, auth)
	CommissionRoutes(r, h, auth)
	WebSocketRoutes(r, h)

	return r
}

package routes

import (
	"github.com/gin-gonic/gin"
)

func PaymentRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	r.POST("/payments/process", auth, h.Payments.ProcessPayment)

	txns := r.Group("/transactions")
	txns.Use(auth)
	{
		txns.GET("/me", h.Payments.MyTransactions)
		txns.GET("/vehicle/:vehicleId", h.Vehicles.VehicleTransactions)
	}
}

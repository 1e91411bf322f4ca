package routes

import (
	"github.com/gin-gonic/gin"
)

func WalletRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	wallet := r.Group("/wallet")
	wallet.Use(auth)
	{
		wallet.GET("", h.Wallet.GetBalance)
		wallet.POST("/topup", h.Wallet.TopUp)
	}
}

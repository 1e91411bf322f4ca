package routes

import (
	"github.com/gin-gonic/gin"

	"trotropay/internal/middleware"
	"trotropay/internal/models"
)

func CommissionRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	c := r.Group("/commission")
	c.Use(auth, middleware.RequireRole(models.RoleOwner))
	{
		c.GET("", h.Commissions.GetCommission)
		c.PUT("", h.Commissions.UpdateCommission)
	}
}

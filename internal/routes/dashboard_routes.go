package routes

import (
	"github.com/gin-gonic/gin"

	"trotropay/internal/middleware"
	"trotropay/internal/models"
)

func DashboardRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	d := r.Group("/dashboard")
	d.Use(auth)
	{
		d.GET("/passenger", h.Dashboards.Passenger)
		d.GET("/mate", middleware.RequireRole(models.RoleMate), h.Dashboards.Mate)
		d.GET("/driver", middleware.RequireRole(models.RoleDriver), h.Dashboards.Driver)
		d.GET("/owner", middleware.RequireRole(models.RoleOwner), h.Dashboards.Owner)
	}
}

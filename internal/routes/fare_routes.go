package routes

import (
	"github.com/gin-gonic/gin"

	"trotropay/internal/middleware"
	"trotropay/internal/models"
)

// FareRoutes serves the route catalogue, fare quotes and the stop editor.
// Editing is further limited to the route's drivers and owners.
func FareRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	routes := r.Group("/routes")
	{
		routes.GET("", h.Routes.ListRoutes)
		routes.GET("/:routeId", h.Routes.GetRoute)
		routes.GET("/:routeId/valid-stops", h.Routes.ValidStops)
		routes.POST("/:routeId/calculate-fare", h.Routes.CalculateFare)
	}

	editors := r.Group("/routes")
	editors.Use(auth, middleware.RequireRole(models.RoleDriver, models.RoleOwner))
	{
		editors.POST("", middleware.RequireRole(models.RoleOwner), h.Routes.CreateRoute)
		editors.PUT("/:routeId/fares", h.Routes.UpdateFares)
		editors.PUT("/:routeId/stops", h.Routes.UpdateStops)
		editors.POST("/:routeId/stops", h.Routes.AddStop)
		editors.POST("/:routeId/stops/reorder", h.Routes.ReorderStop)
		editors.DELETE("/:routeId/stops/:stop", h.Routes.RemoveStop)
	}
}

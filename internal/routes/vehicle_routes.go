package routes

import (
	"github.com/gin-gonic/gin"

	"trotropay/internal/middleware"
	"trotropay/internal/models"
)

func VehicleRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	owner := middleware.RequireRole(models.RoleOwner)

	vehicles := r.Group("/vehicles")
	vehicles.Use(auth)
	{
		vehicles.GET("", owner, h.Vehicles.GetMyVehicles)
		vehicles.POST("", owner, h.Vehicles.CreateVehicle)
		vehicles.GET("/:vehicleId", h.Vehicles.GetVehicle)
		vehicles.GET("/:vehicleId/qr", h.Vehicles.PaymentQR)
		vehicles.PUT("/:vehicleId/route", middleware.RequireRole(models.RoleDriver), h.Vehicles.UpdateRoute)
		vehicles.PUT("/:vehicleId/crew", owner, h.Vehicles.UpdateCrew)
		vehicles.PUT("/:vehicleId/active", owner, h.Vehicles.SetActive)
		vehicles.POST("/:vehicleId/board", h.Vehicles.Board)
		vehicles.POST("/:vehicleId/alight", h.Vehicles.Alight)
	}
}

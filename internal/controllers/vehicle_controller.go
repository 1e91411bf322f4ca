package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trotropay/internal/fleet"
	"trotropay/internal/middleware"
	"trotropay/internal/qr"
)

type VehicleController struct {
	fleet *fleet.Service
}

func NewVehicleController(f *fleet.Service) *VehicleController {
	return &VehicleController{fleet: f}
}

// CreateVehicle lets an owner register a vehicle; it starts active.
func (vc *VehicleController) CreateVehicle(c *gin.Context) {
	var input struct {
		VehicleID   string `json:"vehicleId" binding:"required"`
		RouteID     *uint  `json:"routeId"`
		MaxCapacity int    `json:"maxCapacity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "Invalid vehicle input: "+err.Error())
		return
	}
	v, err := vc.fleet.Create(c.Request.Context(), middleware.CurrentUserID(c), fleet.NewVehicle{
		Code:        input.VehicleID,
		RouteID:     input.RouteID,
		MaxCapacity: input.MaxCapacity,
	})
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": v})
}

func (vc *VehicleController) GetMyVehicles(c *gin.Context) {
	vehicles, err := vc.fleet.ListForOwner(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (vc *VehicleController) GetVehicle(c *gin.Context) {
	v, err := vc.fleet.Get(c.Request.Context(), c.Param("vehicleId"))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

// UpdateRoute moves the vehicle onto another route. Driver only.
func (vc *VehicleController) UpdateRoute(c *gin.Context) {
	var input struct {
		RouteID uint `json:"routeId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "routeId is required")
		return
	}
	v, r, err := vc.fleet.AssignRoute(c.Request.Context(), middleware.CurrentUserID(c), c.Param("vehicleId"), input.RouteID)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Route updated successfully",
		"vehicle": v,
		"route":   toRouteResponse(r),
	})
}

func (vc *VehicleController) UpdateCrew(c *gin.Context) {
	var input struct {
		DriverID *uint `json:"driverId"`
		MateID   *uint `json:"mateId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "Invalid crew input: "+err.Error())
		return
	}
	v, err := vc.fleet.AssignCrew(c.Request.Context(), middleware.CurrentUserID(c), c.Param("vehicleId"), fleet.Crew{
		DriverID: input.DriverID,
		MateID:   input.MateID,
	})
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

func (vc *VehicleController) SetActive(c *gin.Context) {
	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "isActive is required")
		return
	}
	v, err := vc.fleet.SetActive(c.Request.Context(), middleware.CurrentUserID(c), c.Param("vehicleId"), *input.IsActive)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

func passengerCount(c *gin.Context) (int, bool) {
	var input struct {
		Count *int `json:"count"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, "error", "count must be a number")
			return 0, false
		}
	}
	if input.Count == nil {
		return 1, true
	}
	return *input.Count, true
}

func (vc *VehicleController) Board(c *gin.Context) {
	n, ok := passengerCount(c)
	if !ok {
		return
	}
	v, err := vc.fleet.Board(c.Request.Context(), middleware.CurrentUserID(c), c.Param("vehicleId"), n)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

func (vc *VehicleController) Alight(c *gin.Context) {
	n, ok := passengerCount(c)
	if !ok {
		return
	}
	v, err := vc.fleet.Alight(c.Request.Context(), middleware.CurrentUserID(c), c.Param("vehicleId"), n)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

// PaymentQR returns the QR code passengers scan to pay this vehicle.
func (vc *VehicleController) PaymentQR(c *gin.Context) {
	v, err := vc.fleet.Get(c.Request.Context(), c.Param("vehicleId"))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	payload := fleet.PaymentURI(v.Code)
	if c.Query("format") == "png" {
		png, err := qr.PNG(payload)
		if err != nil {
			respondError(c, "error", err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
		return
	}
	dataURL, err := qr.DataURL(payload)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicleId": v.Code, "payload": payload, "qrCode": dataURL})
}

// VehicleTransactions lists a vehicle's payments for its crew; ?today=true
// limits it to today.
func (vc *VehicleController) VehicleTransactions(c *gin.Context) {
	var since time.Time
	if today, _ := strconv.ParseBool(c.Query("today")); today {
		y, m, d := time.Now().Date()
		since = time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	}
	txns, err := vc.fleet.Transactions(c.Request.Context(), middleware.CurrentUserID(c), c.Param("vehicleId"), since)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"trotropay/internal/commission"
	"trotropay/internal/middleware"
)

type CommissionController struct {
	commissions *commission.Service
}

func NewCommissionController(s *commission.Service) *CommissionController {
	return &CommissionController{commissions: s}
}

func (cc *CommissionController) GetCommission(c *gin.Context) {
	cfg, err := cc.commissions.ForOwner(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commission": cfg})
}

func (cc *CommissionController) UpdateCommission(c *gin.Context) {
	var input struct {
		DriverCommission *decimal.Decimal `json:"driverCommission" binding:"required"`
		MateCommission   *decimal.Decimal `json:"mateCommission" binding:"required"`
		PlatformFee      *decimal.Decimal `json:"platformFee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "driverCommission, mateCommission and platformFee are required")
		return
	}
	cfg, err := cc.commissions.Update(c.Request.Context(), middleware.CurrentUserID(c), commission.Config{
		DriverPct:   *input.DriverCommission,
		MatePct:     *input.MateCommission,
		PlatformPct: *input.PlatformFee,
	})
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commission": cfg})
}

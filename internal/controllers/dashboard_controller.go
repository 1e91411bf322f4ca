package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trotropay/internal/earnings"
	"trotropay/internal/middleware"
)

type DashboardController struct {
	earnings *earnings.Service
}

func NewDashboardController(e *earnings.Service) *DashboardController {
	return &DashboardController{earnings: e}
}

func dashboard[T any](c *gin.Context, fn func(context.Context, uint) (T, error)) {
	summary, err := fn(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (dc *DashboardController) Passenger(c *gin.Context) { dashboard(c, dc.earnings.Passenger) }

func (dc *DashboardController) Mate(c *gin.Context) { dashboard(c, dc.earnings.Mate) }

func (dc *DashboardController) Driver(c *gin.Context) { dashboard(c, dc.earnings.Driver) }

func (dc *DashboardController) Owner(c *gin.Context) { dashboard(c, dc.earnings.Owner) }

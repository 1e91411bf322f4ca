package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trotropay/internal/middleware"
	"trotropay/internal/payments"
	"trotropay/internal/types"
)

type PaymentController struct {
	payments *payments.Service
}

func NewPaymentController(p *payments.Service) *PaymentController {
	return &PaymentController{payments: p}
}

type processPaymentInput struct {
	VehicleID      string       `json:"vehicleId" binding:"required"`
	Destination    string       `json:"destination" binding:"required"`
	BoardingStop   string       `json:"boardingStop"`
	Amount         *types.Money `json:"amount"`
	PassengerCount int          `json:"passengerCount"`
	PaymentMethod  string       `json:"paymentMethod"`
}

// ProcessPayment charges the caller's wallet for a trip on a vehicle.
func (pc *PaymentController) ProcessPayment(c *gin.Context) {
	var input processPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "message", "Invalid payment request: "+err.Error())
		return
	}

	receipt, err := pc.payments.Process(c.Request.Context(), payments.Command{
		PassengerID:    middleware.CurrentUserID(c),
		VehicleCode:    input.VehicleID,
		Destination:    input.Destination,
		BoardingStop:   input.BoardingStop,
		Amount:         input.Amount,
		PassengerCount: input.PassengerCount,
		PaymentMethod:  input.PaymentMethod,
	})
	if err != nil {
		var failed *payments.FailedError
		if errors.As(err, &failed) {
			respondError(c, "message", failed.Err)
			return
		}
		respondError(c, "message", err)
		return
	}

	resp := gin.H{
		"message":        "Payment successful",
		"transaction":    receipt.Transaction,
		"newBalance":     receipt.NewBalance,
		"individualFare": receipt.IndividualFare,
		"isGroupPayment": receipt.IsGroupPayment(),
	}
	if receipt.Quote != nil {
		resp["fare"] = receipt.Quote
	}
	c.JSON(http.StatusOK, resp)
}

// MyTransactions lists the caller's payments, newest first.
func (pc *PaymentController) MyTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	txns, err := pc.payments.History(c.Request.Context(), middleware.CurrentUserID(c), limit)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

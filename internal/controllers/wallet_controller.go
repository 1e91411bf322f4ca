package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trotropay/internal/middleware"
	"trotropay/internal/types"
	"trotropay/internal/wallet"
)

type WalletController struct {
	ledger *wallet.Ledger
}

func NewWalletController(l *wallet.Ledger) *WalletController {
	return &WalletController{ledger: l}
}

func (wc *WalletController) GetBalance(c *gin.Context) {
	balance, err := wc.ledger.GetBalance(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// TopUp credits the caller's wallet. There is no payment gateway behind it.
func (wc *WalletController) TopUp(c *gin.Context) {
	var input struct {
		Amount *types.Money `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "amount is required")
		return
	}
	balance, err := wc.ledger.Credit(c.Request.Context(), middleware.CurrentUserID(c), *input.Amount)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wallet topped up", "balance": balance})
}

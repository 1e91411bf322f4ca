package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trotropay/internal/accounts"
	"trotropay/internal/middleware"
	"trotropay/internal/models"
)

type AuthController struct {
	accounts *accounts.Service
	jwt      *middleware.JWT
}

func NewAuthController(a *accounts.Service, jwt *middleware.JWT) *AuthController {
	return &AuthController{accounts: a, jwt: jwt}
}

type registerInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
	Role  string `json:"role"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "Invalid registration input: "+err.Error())
		return
	}
	user, err := ac.accounts.Register(c.Request.Context(), accounts.Registration{
		Name:  input.Name,
		Phone: input.Phone,
		PIN:   input.PIN,
		Role:  input.Role,
	})
	if err != nil {
		respondError(c, "error", err)
		return
	}
	ac.respondWithToken(c, http.StatusCreated, user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Phone string `json:"phone" binding:"required"`
		PIN   string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "error", "Phone and PIN are required")
		return
	}
	user, err := ac.accounts.Login(c.Request.Context(), body.Phone, body.PIN)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	ac.respondWithToken(c, http.StatusOK, user)
}

func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.accounts.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := ac.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(status, gin.H{"token": token, "user": user})
}

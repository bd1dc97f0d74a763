package handlers

import (
	"net/http"

	"tripay/models"
	"tripay/services/user"
	"tripay/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	svc user.UserService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc user.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Fullname    string `json:"fullname"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	usr, err := h.svc.Register(user.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Fullname:    req.Fullname,
		PhoneNumber: req.PhoneNumber,
		Role:        models.Role(req.Role),
	})
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, usr)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.svc.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

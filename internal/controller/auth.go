package controller

import (
	"errors"
	"net/http"

	"tasktrack/internal/auth"
	"tasktrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthController exposes signup and login.
type AuthController struct {
	auth *auth.Service
}

// NewAuthController creates the auth controller.
func NewAuthController(svc *auth.Service) *AuthController {
	return &AuthController{auth: svc}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers an account and logs it in.
func (ac *AuthController) Signup(c *gin.Context) {
	ctx := c.Request.Context()
	var body credentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	user, err := ac.auth.Register(ctx, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrPasswordTooLong),
			errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error(ctx, "Signup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	token, err := ac.auth.IssueToken(user.ID)
	if err != nil {
		logger.Error(ctx, "Token issue failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// Login verifies credentials and returns a token.
func (ac *AuthController) Login(c *gin.Context) {
	ctx := c.Request.Context()
	var body credentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	user, token, err := ac.auth.Login(ctx, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error(ctx, "Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

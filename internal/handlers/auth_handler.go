package handlers

import (
	"errors"
	"net/http"

	"worksite-task-api/internal/auth"
	"worksite-task-api/internal/database"
	"worksite-task-api/internal/middleware"
	"worksite-task-api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// Login handles POST /api/auth/login
// Verifies the credentials against the stored bcrypt hash and returns a
// signed token plus the safe user payload.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Email and password are required",
		})
		return
	}

	var user models.User
	err := database.GetDB().Where("email = ?", models.NormalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to look up user"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Token:   token,
		User:    toUserResponse(user),
	})
}

// Me handles GET /api/auth/me
// Returns the caller identity resolved from the verified token claims.
func Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	var user models.User
	err := database.GetDB().Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
}

// VerifyToken handles GET /api/auth/verify-token
// The JWT middleware already validated the token, so reaching this handler
// means it is good; echo back the claims.
func VerifyToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    c.GetString(middleware.CtxUserID),
			"email": c.GetString(middleware.CtxEmail),
			"role":  c.GetString(middleware.CtxRole),
		},
	})
}

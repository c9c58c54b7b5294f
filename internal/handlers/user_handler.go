package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"worksite-task-api/internal/database"
	"worksite-task-api/internal/excelimport"
	"worksite-task-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserResponse is the safe user payload: never includes the password hash.
type UserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// CreateUserRequest represents the payload for creating a user
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserRequest represents the payload for updating a user
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// CreateUser handles POST /api/users (admin)
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role must be admin, supervisor or worker"})
		return
	}

	email := models.NormalizeEmail(req.Email)
	var existing models.User
	if err := database.GetDB().Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A user with this email already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check email"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := database.GetDB().Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
		return
	}

	// Dashboard worker loads include every worker-role user
	statsCache.Delete(dashboardStatsKey)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": toUserResponse(user)})
}

// GetAllUsers handles GET /api/users (admin)
// Optional query param: role to filter by role.
func GetAllUsers(c *gin.Context) {
	query := database.GetDB().Model(&models.User{})
	if roleParam := c.Query("role"); roleParam != "" {
		role, err := models.ParseRole(roleParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid role filter"})
			return
		}
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": resp, "count": len(resp)})
}

// GetUserByID handles GET /api/users/:id (admin)
func GetUserByID(c *gin.Context) {
	var user models.User
	err := database.GetDB().Where("id = ?", c.Param("id")).First(&user).Error
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

// UpdateUser handles PUT /api/users/:id (admin)
func UpdateUser(c *gin.Context) {
	var user models.User
	err := database.GetDB().Where("id = ?", c.Param("id")).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user"})
		}
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if email != user.Email {
			var existing models.User
			if err := database.GetDB().Where("email = ? AND id <> ?", email, user.ID).First(&existing).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A user with this email already exists"})
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check email"})
				return
			}
			user.Email = email
		}
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
			return
		}
		user.Password = string(hash)
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role must be admin, supervisor or worker"})
			return
		}
		user.Role = role
	}

	if err := database.GetDB().Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user"})
		return
	}
	statsCache.Delete(dashboardStatsKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
}

// DeleteUser handles DELETE /api/users/:id (admin)
// Hard delete. Assignment rows and work reports referencing the user are
// left in place; they keep the stale ID as history.
func DeleteUser(c *gin.Context) {
	var user models.User
	err := database.GetDB().Where("id = ?", c.Param("id")).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user"})
		}
		return
	}

	if err := database.GetDB().Unscoped().Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete user"})
		return
	}
	statsCache.Delete(dashboardStatsKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully", "id": user.ID})
}

// defaultImportPassword is assigned to every user created through the
// spreadsheet import; admins are expected to rotate these.
const defaultImportPassword = "changeme123"

// BulkUploadUsers handles POST /api/users/bulk-upload (admin)
// Accepts an .xlsx file with name/email/role columns (loose header matching)
// and creates one user per row. Rows fail individually; the batch never
// aborts and already-created rows are not rolled back.
func BulkUploadUsers(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "An .xlsx file is required in the 'file' field"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to open uploaded file"})
		return
	}
	defer src.Close()

	rows, err := excelimport.ReadSheet(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to parse spreadsheet: " + err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultImportPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash default password"})
		return
	}

	db := database.GetDB()
	results := make([]excelimport.RowResult, 0, len(rows))
	created := 0
	for _, row := range rows {
		name := row.Get("name", "fullname", "username", "worker")
		email := models.NormalizeEmail(row.Get("email", "emailaddress", "mail"))
		roleCell := row.Get("role", "userrole", "type")

		if name == "" || email == "" {
			results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: "name and email are required"})
			continue
		}
		role := models.RoleWorker
		if roleCell != "" {
			parsed, err := models.ParseRole(roleCell)
			if err != nil {
				results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: fmt.Sprintf("invalid role %q", roleCell)})
				continue
			}
			role = parsed
		}

		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: fmt.Sprintf("email %s already exists", email)})
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: "failed to check email"})
			continue
		}

		user := models.User{
			ID:       uuid.NewString(),
			Name:     name,
			Email:    email,
			Password: string(hash),
			Role:     role,
		}
		if err := db.Create(&user).Error; err != nil {
			results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: "failed to create user"})
			continue
		}
		created++
		results = append(results, excelimport.RowResult{Row: row.Number, Success: true, Message: "created " + email})
	}

	if created > 0 {
		statsCache.Delete(dashboardStatsKey)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"created": created,
		"failed":  len(results) - created,
		"results": results,
	})
}

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"worksite-task-api/internal/excelimport"
	"worksite-task-api/internal/middleware"
	"worksite-task-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func userRouter() *gin.Engine {
	r := gin.New()
	api := r.Group("/api", middleware.JWTAuthMiddleware(), middleware.RequireRoles(models.RoleAdmin))
	api.POST("/users", CreateUser)
	api.GET("/users", GetAllUsers)
	api.GET("/users/:id", GetUserByID)
	api.PUT("/users/:id", UpdateUser)
	api.DELETE("/users/:id", DeleteUser)
	api.POST("/users/bulk-upload", BulkUploadUsers)
	return r
}

func TestCreateUser_Success(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)

	r := userRouter()
	w := doJSON(t, r, http.MethodPost, "/api/users", tokenFor(t, admin), map[string]string{
		"name":     "Bob",
		"email":    "  Bob@Example.com ", // must be normalized
		"password": "secret123",
		"role":     "worker",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var stored models.User
	require.NoError(t, db.Where("email = ?", "bob@example.com").First(&stored).Error)
	require.Equal(t, models.RoleWorker, stored.Role)
	require.NotEqual(t, "secret123", stored.Password) // hashed, never plaintext
}

func TestCreateUser_DuplicateEmailConflict(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	existing := seedUser(t, db, "Bob", "bob@example.com", models.RoleWorker)

	r := userRouter()
	w := doJSON(t, r, http.MethodPost, "/api/users", tokenFor(t, admin), map[string]string{
		"name":     "Impostor",
		"email":    "BOB@example.com",
		"password": "secret123",
		"role":     "worker",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Existing record unchanged
	var stored models.User
	require.NoError(t, db.Where("id = ?", existing.ID).First(&stored).Error)
	require.Equal(t, "Bob", stored.Name)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)

	r := userRouter()
	w := doJSON(t, r, http.MethodPost, "/api/users", tokenFor(t, admin), map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "secret123",
		"role":     "manager",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserCRUD_ForbiddenForSupervisor(t *testing.T) {
	db := setupDB(t)
	supervisor := seedUser(t, db, "Sam", "sam@example.com", models.RoleSupervisor)

	r := userRouter()
	w := doJSON(t, r, http.MethodGet, "/api/users", tokenFor(t, supervisor), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func multipartXLSX(t *testing.T, rows [][]interface{}) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	content, err := f.WriteToBuffer()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "import.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestBulkUploadUsers_PartialFailure(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	seedUser(t, db, "Dup", "dup@example.com", models.RoleWorker)

	body, contentType := multipartXLSX(t, [][]interface{}{
		{"Name", "Email", "Role"},
		{"Alice", "alice@example.com", "worker"},
		{"NoEmail", "", "worker"},
		{"Dup Again", "dup@example.com", "worker"},
		{"Carl", "carl@example.com", "supervisor"},
	})

	r := userRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/users/bulk-upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                    `json:"success"`
		Created int                     `json:"created"`
		Failed  int                     `json:"failed"`
		Results []excelimport.RowResult `json:"results"`
	}
	decodeBody(t, w, &resp)
	require.Equal(t, 2, resp.Created)
	require.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Results, 4)
	// The failing rows are reported individually, not aborting the batch
	require.False(t, resp.Results[1].Success)
	require.False(t, resp.Results[2].Success)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email IN ?", []string{"alice@example.com", "carl@example.com"}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := seedUser(t, db, "Bob", "bob@example.com", models.RoleWorker)
	seedUser(t, db, "Cy", "cy@example.com", models.RoleWorker)

	r := userRouter()
	w := doJSON(t, r, http.MethodPut, "/api/users/"+bob.ID, tokenFor(t, admin), map[string]string{
		"email": "cy@example.com",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteUser_KeepsAssignmentHistory(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	worker := seedUser(t, db, "Bob", "bob@example.com", models.RoleWorker)
	task := seedTask(t, db, "Trenching", time.Now(), models.StatusPending, models.PriorityMedium, 0, worker)

	r := userRouter()
	w := doJSON(t, r, http.MethodDelete, "/api/users/"+worker.ID, tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The stale assignment row survives the user delete
	var count int64
	require.NoError(t, db.Table("task_assignments").Where("task_id = ?", task.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

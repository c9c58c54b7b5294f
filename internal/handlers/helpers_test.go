package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"worksite-task-api/internal/auth"
	"worksite-task-api/internal/database"
	"worksite-task-api/internal/models"
	"worksite-task-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupDB swaps an in-memory sqlite DB into the package-level handle.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	statsCache.Clear()
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) models.User {
	t.Helper()
	user, err := testutil.SeedUser(db, name, email, "password123", role)
	require.NoError(t, err)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return token
}

func jsonBody(t *testing.T, payload any) io.Reader {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		body = jsonBody(t, payload)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"worksite-task-api/internal/middleware"
	"worksite-task-api/internal/models"
	"worksite-task-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func workRouter() *gin.Engine {
	r := gin.New()
	api := r.Group("/api", middleware.JWTAuthMiddleware())
	api.POST("/work/submit", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), SubmitWorkReport)
	api.GET("/work/task/:taskId", GetReportsByTask)
	api.GET("/work/my-reports", GetMyReports)
	api.GET("/work/all-reports", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), GetAllReports)
	return r
}

// capturingClient records hub messages so tests can assert on the published event.
type capturingClient struct {
	messages [][]byte
}

func (c *capturingClient) Send(message []byte) bool {
	c.messages = append(c.messages, message)
	return true
}

func (c *capturingClient) Close() {}

func subscribeCapture(t *testing.T) *capturingClient {
	t.Helper()
	client := &capturingClient{}
	realtime.GetHub().Subscribe(client)
	t.Cleanup(func() { realtime.GetHub().Unsubscribe(client) })
	return client
}

type reportEnvelope struct {
	Success bool              `json:"success"`
	Report  models.WorkReport `json:"report"`
}

type reportListEnvelope struct {
	Success bool                `json:"success"`
	Reports []models.WorkReport `json:"reports"`
	Count   int                 `json:"count"`
}

func TestSubmitWorkReport_PersistsAndPublishes(t *testing.T) {
	db := setupDB(t)
	supervisor := seedUser(t, db, "Sam", "sam@example.com", models.RoleSupervisor)
	worker := seedUser(t, db, "Bob", "bob@example.com", models.RoleWorker)
	task := seedTask(t, db, "Trenching", time.Now(), models.StatusOnSchedule, models.PriorityHigh, 50, worker)

	client := subscribeCapture(t)

	r := workRouter()
	w := doJSON(t, r, http.MethodPost, "/api/work/submit", tokenFor(t, supervisor), map[string]any{
		"worker":   worker.ID,
		"task":     task.ID,
		"status":   "completed",
		"quantity": 5,
		"unit":     "m",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp reportEnvelope
	decodeBody(t, w, &resp)
	require.Equal(t, models.ReportCompleted, resp.Report.Status)
	require.Equal(t, worker.ID, resp.Report.WorkerID)
	require.NotNil(t, resp.Report.Quantity)
	require.Equal(t, 5.0, *resp.Report.Quantity)

	require.Len(t, client.messages, 1)
	var evt realtime.Event
	require.NoError(t, json.Unmarshal(client.messages[0], &evt))
	require.Equal(t, "workSubmitted", evt.Type)
	require.Equal(t, task.ID, evt.TaskID)
	require.NotEmpty(t, evt.Message)
}

func TestSubmitWorkReport_MissingStatusPersistsNothing(t *testing.T) {
	db := setupDB(t)
	supervisor := seedUser(t, db, "Sam", "sam@example.com", models.RoleSupervisor)
	worker := seedUser(t, db, "Bob", "bob@example.com", models.RoleWorker)
	task := seedTask(t, db, "Trenching", time.Now(), models.StatusOnSchedule, models.PriorityHigh, 50, worker)

	r := workRouter()
	w := doJSON(t, r, http.MethodPost, "/api/work/submit", tokenFor(t, supervisor), map[string]any{
		"worker": worker.ID,
		"task":   task.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.WorkReport{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSubmitWorkReport_UnknownTask(t *testing.T) {
	db := setupDB(t)
	supervisor := seedUser(t, db, "Sam", "sam@example.com", models.RoleSupervisor)

	r := workRouter()
	w := doJSON(t, r, http.MethodPost, "/api/work/submit", tokenFor(t, supervisor), map[string]any{
		"task":   "ghost",
		"status": "in-progress",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitWorkReport_NoSubscribersStillSucceeds(t *testing.T) {
	db := setupDB(t)
	supervisor := seedUser(t, db, "Sam", "sam@example.com", models.RoleSupervisor)
	task := seedTask(t, db, "Trenching", time.Now(), models.StatusOnSchedule, models.PriorityHigh, 50)

	r := workRouter()
	w := doJSON(t, r, http.MethodPost, "/api/work/submit", tokenFor(t, supervisor), map[string]any{
		"task":   task.ID,
		"status": "on-hold",
	})
	// Delivery is best-effort; a dropped publish must not fail the submission
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestGetReportsByTask_NewestFirstWithWorker(t *testing.T) {
	db := setupDB(t)
	supervisor := seedUser(t, db, "Sam", "sam@example.com", models.RoleSupervisor)
	worker := seedUser(t, db, "Bob", "bob@example.com", models.RoleWorker)
	task := seedTask(t, db, "Trenching", time.Now(), models.StatusOnSchedule, models.PriorityHigh, 50, worker)

	older := models.WorkReport{ID: "r-1", WorkerID: worker.ID, TaskID: task.ID, Status: models.ReportInProgress, SubmittedAt: time.Now().Add(-time.Hour)}
	newer := models.WorkReport{ID: "r-2", WorkerID: worker.ID, TaskID: task.ID, Status: models.ReportCompleted, SubmittedAt: time.Now()}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	r := workRouter()
	w := doJSON(t, r, http.MethodGet, "/api/work/task/"+task.ID, tokenFor(t, supervisor), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp reportListEnvelope
	decodeBody(t, w, &resp)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "r-2", resp.Reports[0].ID)
	require.Equal(t, worker.Name, resp.Reports[0].Worker.Name)
}

func TestGetMyReports_OnlyCallers(t *testing.T) {
	db := setupDB(t)
	bob := seedUser(t, db, "Bob", "bob@example.com", models.RoleWorker)
	eve := seedUser(t, db, "Eve", "eve@example.com", models.RoleWorker)
	task := seedTask(t, db, "Trenching", time.Now(), models.StatusOnSchedule, models.PriorityHigh, 50, bob, eve)

	require.NoError(t, db.Create(&models.WorkReport{ID: "r-1", WorkerID: bob.ID, TaskID: task.ID, Status: models.ReportIssues, SubmittedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.WorkReport{ID: "r-2", WorkerID: eve.ID, TaskID: task.ID, Status: models.ReportHalfDone, SubmittedAt: time.Now()}).Error)

	r := workRouter()
	w := doJSON(t, r, http.MethodGet, "/api/work/my-reports", tokenFor(t, bob), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp reportListEnvelope
	decodeBody(t, w, &resp)
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "r-1", resp.Reports[0].ID)
}

func TestGetAllReports_ForbiddenForWorker(t *testing.T) {
	db := setupDB(t)
	worker := seedUser(t, db, "Bob", "bob@example.com", models.RoleWorker)

	r := workRouter()
	w := doJSON(t, r, http.MethodGet, "/api/work/all-reports", tokenFor(t, worker), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

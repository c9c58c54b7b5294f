package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"worksite-task-api/internal/database"
	"worksite-task-api/internal/middleware"
	"worksite-task-api/internal/models"
	"worksite-task-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitWorkReportRequest represents the work-report submission payload.
// Worker defaults to the caller when omitted, so supervisors can submit on
// a worker's behalf while workers submit for themselves.
type SubmitWorkReportRequest struct {
	Worker     string   `json:"worker"`
	Task       string   `json:"task" binding:"required"`
	Status     string   `json:"status" binding:"required"`
	Quantity   *float64 `json:"quantity"`
	Unit       string   `json:"unit"`
	UpdateText string   `json:"updateText"`
	PhotoURL   string   `json:"photoUrl"`
	PhotoURLs  []string `json:"photoUrls"`
}

// SubmitWorkReport handles POST /api/work/submit (admin/supervisor)
// Persists the report, then publishes a workSubmitted event to every
// connected viewer. Publishing is best-effort, at-most-once: a failed
// publish is logged and the submission still succeeds.
func SubmitWorkReport(c *gin.Context) {
	var req SubmitWorkReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "task and status are required"})
		return
	}

	status := models.ReportStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !models.ValidReportStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report status"})
		return
	}

	workerID := strings.TrimSpace(req.Worker)
	if workerID == "" {
		workerID = c.GetString(middleware.CtxUserID)
	}

	db := database.GetDB()

	var worker models.User
	if err := db.Where("id = ?", workerID).First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch worker"})
		}
		return
	}

	var task models.Task
	if err := db.Where("id = ?", req.Task).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task"})
		}
		return
	}

	report := models.WorkReport{
		ID:          uuid.NewString(),
		WorkerID:    worker.ID,
		Worker:      worker,
		TaskID:      task.ID,
		Status:      status,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		PhotoURL:    req.PhotoURL,
		PhotoURLs:   req.PhotoURLs,
		UpdateText:  req.UpdateText,
		SubmittedAt: time.Now(),
	}
	if err := db.Omit("Worker", "Task").Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save work report"})
		return
	}

	evt := realtime.Event{
		Type:       "workSubmitted",
		TaskID:     task.ID,
		WorkReport: report,
		Message:    fmt.Sprintf("%s submitted a %s report for %s", worker.Name, status, task.TaskName),
		Timestamp:  time.Now(),
	}
	if err := realtime.GetHub().Publish(evt); err != nil {
		log.Printf("workSubmitted publish dropped for task %s: %v", task.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "report": report})
}

// GetReportsByTask handles GET /api/work/task/:taskId (authenticated)
// All reports for a task, worker populated, newest first.
func GetReportsByTask(c *gin.Context) {
	taskID := c.Param("taskId")

	db := database.GetDB()
	var task models.Task
	if err := db.Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task"})
		}
		return
	}

	var reports []models.WorkReport
	if err := db.Preload("Worker").
		Where("task_id = ?", taskID).
		Order("submitted_at desc").
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports, "count": len(reports)})
}

// GetMyReports handles GET /api/work/my-reports (authenticated)
func GetMyReports(c *gin.Context) {
	callerID := c.GetString(middleware.CtxUserID)

	var reports []models.WorkReport
	if err := database.GetDB().Preload("Worker").
		Where("worker_id = ?", callerID).
		Order("submitted_at desc").
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports, "count": len(reports)})
}

// GetAllReports handles GET /api/work/all-reports (admin/supervisor)
// The role gate runs in the route group; this is the full cross-task,
// cross-worker listing.
func GetAllReports(c *gin.Context) {
	var reports []models.WorkReport
	if err := database.GetDB().Preload("Worker").
		Order("submitted_at desc").
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports, "count": len(reports)})
}

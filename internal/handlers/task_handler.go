package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"worksite-task-api/internal/cache"
	"worksite-task-api/internal/database"
	"worksite-task-api/internal/excelimport"
	"worksite-task-api/internal/middleware"
	"worksite-task-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerRefList accepts assigned workers either as raw ID strings or as
// objects carrying an id field, and normalizes to de-duplicated plain IDs.
type WorkerRefList []string

func (w *WorkerRefList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		var id string
		if err := json.Unmarshal(item, &id); err != nil {
			var obj struct {
				ID    string `json:"id"`
				SubID string `json:"_id"`
			}
			if err := json.Unmarshal(item, &obj); err != nil {
				return errors.New("assignedWorkers entries must be ID strings or objects with an id field")
			}
			id = obj.ID
			if id == "" {
				id = obj.SubID
			}
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	*w = ids
	return nil
}

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	TaskName        string              `json:"taskName" binding:"required"`
	Description     string              `json:"description"`
	Date            string              `json:"date" binding:"required"`
	AssignedWorkers WorkerRefList       `json:"assignedWorkers"`
	Priority        models.TaskPriority `json:"priority"`
	Status          models.TaskStatus   `json:"status"`
	IsForToday      bool                `json:"isForToday"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	TaskName        *string              `json:"taskName"`
	Description     *string              `json:"description"`
	Date            *string              `json:"date"`
	AssignedWorkers *WorkerRefList       `json:"assignedWorkers"`
	Priority        *models.TaskPriority `json:"priority"`
	Status          *models.TaskStatus   `json:"status"`
	Progress        *int                 `json:"progress"`
	IsForToday      *bool                `json:"isForToday"`
}

// UpdateTaskStatusRequest is the worker-scoped status change payload.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02", // ISO date
		time.RFC3339, // full RFC3339
		"2 Jan 2006",
		"02 Jan 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// statusAliases maps frontend status names onto the stored enum. The storage
// enum is the canonical one; these exist for request-surface compatibility.
var statusAliases = map[string]models.TaskStatus{
	"in-progress": models.StatusOnSchedule,
	"done":        models.StatusCompleted,
	"finished":    models.StatusCompleted,
}

func resolveTaskStatus(s string) (models.TaskStatus, bool) {
	normalized := models.TaskStatus(strings.ToLower(strings.TrimSpace(s)))
	if mapped, ok := statusAliases[string(normalized)]; ok {
		return mapped, true
	}
	if models.ValidTaskStatus(normalized) {
		return normalized, true
	}
	return "", false
}

// resolveWorkers loads the users for a normalized ID list, failing if any
// referenced worker does not exist.
func resolveWorkers(db *gorm.DB, ids WorkerRefList) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := db.Where("id IN ?", []string(ids)).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		found := make(map[string]struct{}, len(users))
		for _, u := range users {
			found[u.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, fmt.Errorf("assigned worker %s not found", id)
			}
		}
	}
	return users, nil
}

// CreateTask handles POST /api/tasks (admin/supervisor)
// Priority defaults to medium and status to pending; the response carries
// the populated assigned workers.
func CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "taskName and date are required"})
		return
	}

	date, ok := parseDateFlexible(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format"})
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Priority must be low, medium or high"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidTaskStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task status"})
		return
	}

	db := database.GetDB()
	workers, err := resolveWorkers(db, req.AssignedWorkers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	task := models.Task{
		ID:              uuid.NewString(),
		TaskName:        req.TaskName,
		Description:     req.Description,
		Date:            date,
		AssignedWorkers: workers,
		Priority:        priority,
		Status:          status,
		IsForToday:      req.IsForToday,
	}
	if err := db.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create task"})
		return
	}

	statsCache.Delete(dashboardStatsKey)
	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task})
}

// GetTasks handles GET /api/tasks (admin/supervisor)
// Optional filters: status, assignedWorker (membership), date (that day).
// Returns the full result set newest-first; no pagination.
func GetTasks(c *gin.Context) {
	db := database.GetDB()
	query := db.Model(&models.Task{}).Preload("AssignedWorkers")

	if statusParam := c.Query("status"); statusParam != "" {
		status, ok := resolveTaskStatus(statusParam)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status filter"})
			return
		}
		query = query.Where("tasks.status = ?", status)
	}
	if workerID := c.Query("assignedWorker"); workerID != "" {
		query = query.
			Joins("JOIN task_assignments ta ON ta.task_id = tasks.id").
			Where("ta.user_id = ?", workerID)
	}
	if dateParam := c.Query("date"); dateParam != "" {
		day, ok := parseDateFlexible(dateParam)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date filter"})
			return
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		query = query.Where("tasks.date >= ? AND tasks.date < ?", start, start.AddDate(0, 0, 1))
	}

	var tasks []models.Task
	if err := query.Order("tasks.created_at desc").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks, "count": len(tasks)})
}

// GetTaskByID handles GET /api/tasks/:id (admin/supervisor)
func GetTaskByID(c *gin.Context) {
	var task models.Task
	err := database.GetDB().Preload("AssignedWorkers").Where("id = ?", c.Param("id")).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// UpdateTask handles PUT /api/tasks/:id (admin/supervisor)
// Applies a partial merge. An assignedWorkers value replaces the whole
// assignment list after normalization and existence checks.
func UpdateTask(c *gin.Context) {
	db := database.GetDB()

	var task models.Task
	err := db.Where("id = ?", c.Param("id")).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task"})
		}
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if req.TaskName != nil {
		if strings.TrimSpace(*req.TaskName) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "taskName must not be empty"})
			return
		}
		task.TaskName = *req.TaskName
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Date != nil {
		date, ok := parseDateFlexible(*req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format"})
			return
		}
		task.Date = date
	}
	if req.Priority != nil {
		if !models.ValidTaskPriority(*req.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Priority must be low, medium or high"})
			return
		}
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		status, ok := resolveTaskStatus(string(*req.Status))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task status"})
			return
		}
		task.Status = status
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Progress must be between 0 and 100"})
			return
		}
		task.Progress = *req.Progress
	}
	if req.IsForToday != nil {
		task.IsForToday = *req.IsForToday
	}

	var workers []models.User
	replaceWorkers := false
	if req.AssignedWorkers != nil {
		workers, err = resolveWorkers(db, *req.AssignedWorkers)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		replaceWorkers = true
	}

	if err := db.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task"})
		return
	}
	if replaceWorkers {
		if err := db.Model(&task).Association("AssignedWorkers").Replace(workers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update assigned workers"})
			return
		}
	}

	// Reload with workers populated for the response
	if err := db.Preload("AssignedWorkers").Where("id = ?", task.ID).First(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task"})
		return
	}

	statsCache.Delete(dashboardStatsKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// DeleteTask handles DELETE /api/tasks/:id (admin)
// Hard delete with no cascade to work reports.
func DeleteTask(c *gin.Context) {
	db := database.GetDB()

	var task models.Task
	err := db.Where("id = ?", c.Param("id")).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task"})
		}
		return
	}

	if err := db.Model(&task).Association("AssignedWorkers").Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear assignments"})
		return
	}
	if err := db.Unscoped().Delete(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete task"})
		return
	}

	statsCache.Delete(dashboardStatsKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted successfully", "id": task.ID})
}

// todayQuery scopes to the current today-set, ordered by due date then
// priority (high before medium before low).
func todayQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Task{}).
		Preload("AssignedWorkers").
		Where("is_for_today = ?", true).
		Order("date asc").
		Order(models.PriorityOrderCase)
}

// GetTodayTasks handles GET /api/tasks/today (admin)
func GetTodayTasks(c *gin.Context) {
	var tasks []models.Task
	if err := todayQuery(database.GetDB()).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch today's tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks, "count": len(tasks)})
}

// GetSupervisorTodayTasks handles GET /api/tasks/supervisor-today (supervisor)
// Same today-set as the admin view; supervisors use it to scope what they
// can assign and submit against on a given day.
func GetSupervisorTodayTasks(c *gin.Context) {
	var tasks []models.Task
	if err := todayQuery(database.GetDB()).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch today's tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks, "count": len(tasks)})
}

// UpdateTodayRequest carries the replacement today-set. An empty (but
// present) list clears the selection.
type UpdateTodayRequest struct {
	TaskIDs []string `json:"taskIds"`
}

// UpdateTodaySelection handles PUT /api/tasks/update-today (admin)
// Replaces the today-set: all IDs are validated up front, then one
// transaction clears every flag and sets the given set, so a concurrent
// reader never observes the empty intermediate state. Calling it twice with
// the same set is a no-op the second time.
func UpdateTodaySelection(c *gin.Context) {
	var req UpdateTodayRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskIDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "taskIds is required"})
		return
	}

	db := database.GetDB()

	// Validate the whole set before any write
	if len(req.TaskIDs) > 0 {
		var count int64
		if err := db.Model(&models.Task{}).Where("id IN ?", req.TaskIDs).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to validate task IDs"})
			return
		}
		if count != int64(len(uniqueStrings(req.TaskIDs))) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "One or more task IDs do not exist"})
			return
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("is_for_today = ?", true).Update("is_for_today", false).Error; err != nil {
			return err
		}
		if len(req.TaskIDs) == 0 {
			return nil
		}
		return tx.Model(&models.Task{}).Where("id IN ?", req.TaskIDs).Update("is_for_today", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update today's selection"})
		return
	}

	var tasks []models.Task
	if err := todayQuery(db).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch today's tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks, "count": len(tasks)})
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// GetWorkerTasks handles GET /api/worker/:workerId/tasks (authenticated)
// Returns the tasks assigned to a worker, optionally filtered by status
// (frontend aliases accepted), sorted by due date then priority.
func GetWorkerTasks(c *gin.Context) {
	workerID := strings.TrimSpace(c.Param("workerId"))
	if workerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "workerId is required"})
		return
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

	query := db.Model(&models.Task{}).
		Preload("AssignedWorkers").
		Joins("JOIN task_assignments ta ON ta.task_id = tasks.id").
		Where("ta.user_id = ?", workerID)

	if statusParam := c.Query("status"); statusParam != "" {
		status, ok := resolveTaskStatus(statusParam)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status filter"})
			return
		}
		query = query.Where("tasks.status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("tasks.date asc").Order(models.PriorityOrderCase).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks, "count": len(tasks)})
}

// UpdateWorkerTaskStatus handles PATCH /api/worker/tasks/:id/status (authenticated)
// The caller must be on the task's assignment list; a task that does not
// exist and a task the caller is not assigned to produce the same 404 so
// existence does not leak. Transition rules: completed forces progress to
// 100; on-schedule raises progress to at least 50 but never lowers it.
func UpdateWorkerTaskStatus(c *gin.Context) {
	callerID := c.GetString(middleware.CtxUserID)

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}
	status, ok := resolveTaskStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task status"})
		return
	}

	db := database.GetDB()
	var task models.Task
	err := db.Model(&models.Task{}).
		Joins("JOIN task_assignments ta ON ta.task_id = tasks.id").
		Where("tasks.id = ? AND ta.user_id = ?", c.Param("id"), callerID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found or not assigned to you"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task"})
		}
		return
	}

	task.Status = status
	switch status {
	case models.StatusCompleted:
		task.Progress = 100
	case models.StatusOnSchedule, models.StatusAhead:
		if task.Progress < 50 {
			task.Progress = 50
		}
	}

	if err := db.Model(&models.Task{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{"status": task.Status, "progress": task.Progress}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update status"})
		return
	}

	statsCache.Delete(dashboardStatsKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// DashboardStats aggregates task counts by status plus a per-worker count
// of assigned tasks.
type DashboardStats struct {
	Total       int64            `json:"total"`
	Pending     int64            `json:"pending"`
	OnSchedule  int64            `json:"onSchedule"`
	Behind      int64            `json:"behind"`
	Ahead       int64            `json:"ahead"`
	Completed   int64            `json:"completed"`
	WorkerLoads []WorkerTaskLoad `json:"workerLoads"`
}

// WorkerTaskLoad is a single worker's assigned-task count.
type WorkerTaskLoad struct {
	WorkerID string `json:"workerId"`
	Name     string `json:"name"`
	Count    int64  `json:"count"`
}

var statsCache = cache.New[string, DashboardStats]()

const (
	dashboardStatsKey = "dashboard-stats"
	dashboardStatsTTL = 30 * time.Second
)

// GetDashboardStats handles GET /api/tasks/dashboard-stats (admin/supervisor)
// The scan is O(tasks x workers); the result is memoized for a short TTL and
// invalidated by task and user mutations.
func GetDashboardStats(c *gin.Context) {
	if stats, ok := statsCache.Get(dashboardStatsKey); ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats, "cached": true})
		return
	}

	db := database.GetDB()

	type statusRow struct {
		Status models.TaskStatus
		Count  int64
	}
	var rows []statusRow
	if err := db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to compute stats"})
		return
	}

	stats := DashboardStats{}
	for _, r := range rows {
		stats.Total += r.Count
		switch r.Status {
		case models.StatusPending:
			stats.Pending = r.Count
		case models.StatusOnSchedule:
			stats.OnSchedule = r.Count
		case models.StatusBehind:
			stats.Behind = r.Count
		case models.StatusAhead:
			stats.Ahead = r.Count
		case models.StatusCompleted:
			stats.Completed = r.Count
		}
	}

	var workers []models.User
	if err := db.Where("role = ?", models.RoleWorker).Find(&workers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch workers"})
		return
	}
	stats.WorkerLoads = make([]WorkerTaskLoad, 0, len(workers))
	for _, w := range workers {
		var count int64
		if err := db.Table("task_assignments").Where("user_id = ?", w.ID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to compute worker loads"})
			return
		}
		stats.WorkerLoads = append(stats.WorkerLoads, WorkerTaskLoad{WorkerID: w.ID, Name: w.Name, Count: count})
	}

	statsCache.Set(dashboardStatsKey, stats, dashboardStatsTTL)
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats, "cached": false})
}

// UploadTasksExcel handles POST /api/tasks/upload-excel (admin)
// One task per row; the "assigned workers" cell holds comma-separated names
// resolved against worker-role users. Rows fail individually and already
// created tasks stay created (partial-failure import, not transactional).
func UploadTasksExcel(c *gin.Context) {
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

	db := database.GetDB()
	results := make([]excelimport.RowResult, 0, len(rows))
	created := 0
	for _, row := range rows {
		name := row.Get("taskname", "task", "name", "title")
		dateCell := row.Get("date", "duedate", "deadline")
		if name == "" || dateCell == "" {
			results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: "task name and date are required"})
			continue
		}
		date, ok := parseDateFlexible(dateCell)
		if !ok {
			results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: fmt.Sprintf("invalid date %q", dateCell)})
			continue
		}

		priority := models.PriorityMedium
		if p := row.Get("priority"); p != "" {
			priority = models.TaskPriority(strings.ToLower(p))
			if !models.ValidTaskPriority(priority) {
				results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: fmt.Sprintf("invalid priority %q", p)})
				continue
			}
		}

		var workers []models.User
		missing := ""
		for _, workerName := range excelimport.SplitList(row.Get("assignedworkers", "workers", "assignedto")) {
			var worker models.User
			err := db.Where("name = ? AND role = ?", workerName, models.RoleWorker).First(&worker).Error
			if err != nil {
				missing = workerName
				break
			}
			workers = append(workers, worker)
		}
		if missing != "" {
			results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: fmt.Sprintf("worker %q not found", missing)})
			continue
		}

		task := models.Task{
			ID:              uuid.NewString(),
			TaskName:        name,
			Description:     row.Get("description", "details", "notes"),
			Date:            date,
			AssignedWorkers: workers,
			Priority:        priority,
			Status:          models.StatusPending,
		}
		if err := db.Create(&task).Error; err != nil {
			results = append(results, excelimport.RowResult{Row: row.Number, Success: false, Message: "failed to create task"})
			continue
		}
		created++
		results = append(results, excelimport.RowResult{Row: row.Number, Success: true, Message: "created " + name})
	}

	statsCache.Delete(dashboardStatsKey)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"created": created,
		"failed":  len(results) - created,
		"results": results,
	})
}

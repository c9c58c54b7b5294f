package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus represents the scheduling status of a task
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusOnSchedule TaskStatus = "on-schedule"
	StatusBehind     TaskStatus = "behind"
	StatusAhead      TaskStatus = "ahead"
	StatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the declared statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusOnSchedule, StatusBehind, StatusAhead, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// ValidTaskPriority reports whether p is one of the declared priorities.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// PriorityOrderCase is the ORDER BY expression that sorts high before
// medium before low, so ordering never depends on string collation.
const PriorityOrderCase = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"

// Task represents a unit of work with a due date, priority, status and
// assigned workers. Assignment is a many-to-many through task_assignments;
// this is the only relationship shape (no legacy singular worker column).
type Task struct {
	ID              string       `json:"id" gorm:"primaryKey"`
	TaskName        string       `json:"taskName" gorm:"not null"`
	Description     string       `json:"description"`
	Date            time.Time    `json:"date" gorm:"not null;index"`
	AssignedWorkers []User       `json:"assignedWorkers" gorm:"many2many:task_assignments"`
	Priority        TaskPriority `json:"priority" gorm:"default:'medium'"`
	Status          TaskStatus   `json:"status" gorm:"not null;default:'pending';index"`
	Progress        int          `json:"progress" gorm:"default:0"`
	IsForToday      bool         `json:"isForToday" gorm:"default:false;index"`
	gorm.Model
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

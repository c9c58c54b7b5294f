package models

import (
	"time"
)

// ReportStatus represents the state a worker reports for their task.
type ReportStatus string

const (
	ReportCompleted  ReportStatus = "completed"
	ReportInProgress ReportStatus = "in-progress"
	ReportOnHold     ReportStatus = "on-hold"
	ReportIssues     ReportStatus = "issues"
	ReportHalfDone   ReportStatus = "half-done"
)

// ValidReportStatus reports whether s is one of the declared report statuses.
func ValidReportStatus(s ReportStatus) bool {
	switch s {
	case ReportCompleted, ReportInProgress, ReportOnHold, ReportIssues, ReportHalfDone:
		return true
	}
	return false
}

// WorkReport is an immutable progress submission tied to exactly one task
// and one submitting user. Reports are append-only: there are no update or
// delete paths, and deleting a task or user leaves its reports in place.
type WorkReport struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	WorkerID    string       `json:"workerId" gorm:"not null;index"`
	Worker      User         `json:"worker" gorm:"foreignKey:WorkerID"`
	TaskID      string       `json:"taskId" gorm:"not null;index"`
	Task        Task         `json:"-" gorm:"foreignKey:TaskID"`
	Status      ReportStatus `json:"status" gorm:"not null"`
	Quantity    *float64     `json:"quantity,omitempty"`
	Unit        string       `json:"unit,omitempty"`
	PhotoURL    string       `json:"photoUrl,omitempty"`
	PhotoURLs   []string     `json:"photoUrls,omitempty" gorm:"serializer:json"`
	UpdateText  string       `json:"updateText,omitempty"`
	SubmittedAt time.Time    `json:"submittedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// TableName specifies the table name for WorkReport Model
func (WorkReport) TableName() string {
	return "work_reports"
}

package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Role represents a user's role in the system.
// The enum is closed: the schema, the token claims, and the access checks
// all use exactly these three values.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleWorker     Role = "worker"
)

// ParseRole normalizes and validates a role string against the closed enum.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSupervisor:
		return RoleSupervisor, nil
	case RoleWorker:
		return RoleWorker, nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// User represents a user in the system
type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     Role   `json:"role" gorm:"not null;default:'worker'"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases and trims an email before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleStaff   UserRole = "STAFF"
)

// Valid reports whether r is one of the known portal roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// User mirrors an account owned by the identity provider. Rows are upserted
// from token claims when a user first records progress, and read to label
// attempts and reports.
type User struct {
	ID    string   `json:"id" gorm:"primaryKey;size:255"`
	Name  string   `json:"name" gorm:"size:100"`
	Email string   `json:"email" gorm:"size:255;index"`
	Role  UserRole `json:"role" gorm:"not null;default:STAFF;size:20"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Requester is the authenticated identity behind a call. It is handed to the
// services explicitly so that authorization decisions never depend on
// request-scoped globals.
type Requester struct {
	UserID string
	Role   UserRole
	Name   string
	Email  string
}

// User returns the mirror row for the requester.
func (r Requester) User() *User {
	return &User{ID: r.UserID, Name: r.Name, Email: r.Email, Role: r.Role, IsActive: true}
}

func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}

// CanAuthorQuizzes reports whether the requester may create quizzes.
func (r Requester) CanAuthorQuizzes() bool {
	return r.Role == RoleAdmin || r.Role == RoleManager
}

// CanViewDrafts reports whether unpublished quizzes and courses are visible.
// Staff only ever see published training material.
func (r Requester) CanViewDrafts() bool {
	return r.Role == RoleAdmin || r.Role == RoleManager
}

// CanViewUser reports whether the requester may read another user's attempts.
func (r Requester) CanViewUser(userID string) bool {
	return userID == r.UserID || r.IsAdmin()
}

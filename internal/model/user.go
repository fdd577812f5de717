package model

import (
	"github.com/google/uuid"
)

// Role is the set of staff roles known to the system. Patients are not
// users; they authenticate per-EMR with a one-time session secret.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// ParseRole validates a role string from a request.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor:
		return Role(s), true
	}
	return "", false
}

// User represents a staff user
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	Password     string `json:"password,omitempty" db:"-"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string         `json:"token"`
	User    *User          `json:"user"`
	Profile *DoctorProfile `json:"profile,omitempty"`
}

// UserRef is the minimal user shape joined into other responses.
type UserRef struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Email string    `json:"email" db:"email"`
	Role  Role      `json:"role" db:"role"`
}

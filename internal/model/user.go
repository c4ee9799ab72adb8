package model

import (
	"time"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusLocked   UserStatus = "locked"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleProvider UserRole = "provider"
)

// User is a platform account: an administrator or a clinical provider
// recording vitals and taking courses.
type User struct {
	Base
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	Role             UserRole   `db:"role" json:"role"`
	Status           UserStatus `db:"status" json:"status"`
	Discipline       string     `db:"discipline" json:"discipline"`
	LicenseNumber    string     `db:"license_number" json:"license_number,omitempty"`
	LoginAttempts    int        `db:"login_attempts" json:"-"`
	LastLoginAttempt time.Time  `db:"last_login_attempt" json:"-"`
	LastLoginAt      *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

type UserFilters struct {
	Role   UserRole   `form:"role"`
	Status UserStatus `form:"status"`
	Pagination
}

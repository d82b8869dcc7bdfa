package models

import "time"

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserStatus is the account standing of a marketplace user
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// ValidUserStatus reports whether s is a status an admin may set.
func ValidUserStatus(s UserStatus) bool {
	return s == UserStatusActive || s == UserStatusSuspended
}

// User represents a marketplace account as returned by the backend.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Status    UserStatus `json:"status"`
	KYCStatus KYCStatus  `json:"kycStatus,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the backend's login response payload.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Session is an authenticated marketdesk session backed by a backend token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

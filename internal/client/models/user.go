// Package models defines the records exchanged with the backend and the
// identity snapshot the client keeps for the current session.
package models

import "github.com/dmitrijs2005/voicedesk/internal/timex"

// Role is the closed set of account roles known to the client.
type Role string

const (
	RoleRegular Role = "REGULAR"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleAdmin
}

// User is the backend's user record.
type User struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Role             Role       `json:"role"`
	IsActive         bool       `json:"is_active"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	CreatedAt        timex.Time `json:"created_at"`
	UpdatedAt        timex.Time `json:"updated_at"`
	LastLogin        timex.Time `json:"last_login"`
	LastActiveDate   timex.Time `json:"last_active_date"`
}

func (u User) RecordID() int64 { return u.ID }

// UserCreate is the registration payload.
type UserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// UserUpdate carries only the fields being changed.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Identity is the cached snapshot of the authenticated user.
type Identity struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt timex.Time `json:"created_at"`
	LastLogin timex.Time `json:"last_login"`
}

func IdentityFromUser(u User) Identity {
	return Identity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// Valid reports whether the snapshot is usable as a session identity.
func (i Identity) Valid() bool {
	return i.ID > 0 && i.Username != "" && i.Role.Valid()
}

// PasswordCheck is the payload of POST /users/{id}/verify_password.
type PasswordCheck struct {
	Password string `json:"password"`
}

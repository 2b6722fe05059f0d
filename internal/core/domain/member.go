package domain

import (
	"errors"
	"time"
)

// Role constants. The first member registered on an empty store becomes
// ADMIN, the second MANAGER, everyone after that USER.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"
)

var ErrMemberNotFound = errors.New("member not found")
var ErrDuplicateUsername = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnknownPrincipal = errors.New("unknown principal")
var ErrMalformedDigest = errors.New("malformed password digest")

// Member models a registered principal. PasswordHash is never serialized.
type Member struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether r is one of the declared role constants.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// SessionIdentity is the per-session record of who is authenticated.
// Absence of an identity means the session is anonymous.
type SessionIdentity struct {
	Username string
	IssuedAt time.Time
}
